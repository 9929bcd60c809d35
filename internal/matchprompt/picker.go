package matchprompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"

	"ludex/internal/catalog"
	"ludex/internal/metadata"
)

// TerminalPicker presents ambiguous matches as a table and reads a selection
// from the terminal. On a non-interactive stdin every pick is skipped so
// unattended runs never hang on a prompt.
type TerminalPicker struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// New creates a picker over the given streams. Interactivity is detected
// when in is a file; scripted readers are treated as interactive.
func New(in io.Reader, out io.Writer) *TerminalPicker {
	interactive := true
	if file, ok := in.(*os.File); ok {
		fd := file.Fd()
		interactive = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	return &TerminalPicker{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

// Pick shows the candidates and returns the chosen one, or nil to skip.
// Skipping happens on a non-interactive stream, an explicit "s", a blank
// line, or unparseable input. A "!" suffix on the selection sets the
// overwrite flag, replacing metadata the entry already has; the plain form
// only fills gaps.
func (p *TerminalPicker) Pick(entry *catalog.GameRecord, candidates []metadata.Candidate) (*metadata.Candidate, bool, error) {
	if !p.interactive || len(candidates) == 0 {
		return nil, false, nil
	}

	fmt.Fprintf(p.out, "\nNo confident match for %q:\n", entry.SearchTitle())
	p.renderCandidates(candidates)
	fmt.Fprintf(p.out, "Select match [1-%d, s to skip, append ! to overwrite]: ", len(candidates))

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		if err == io.EOF {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read selection: %w", err)
	}

	line = strings.TrimSpace(line)
	if line == "" || strings.EqualFold(line, "s") {
		return nil, false, nil
	}
	overwrite := strings.HasSuffix(line, "!")
	line = strings.TrimSuffix(line, "!")
	index, err := strconv.Atoi(line)
	if err != nil || index < 1 || index > len(candidates) {
		fmt.Fprintf(p.out, "Ignoring %q.\n", line)
		return nil, false, nil
	}
	return &candidates[index-1], overwrite, nil
}

func (p *TerminalPicker) renderCandidates(candidates []metadata.Candidate) {
	tw := table.NewWriter()
	tw.SetOutputMirror(p.out)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Source", "Name", "Score", "Year", "Rating", "Genres"})
	for i, candidate := range candidates {
		year := ""
		if candidate.ReleaseYear > 0 {
			year = strconv.Itoa(candidate.ReleaseYear)
		}
		rating := ""
		if candidate.Rating > 0 {
			rating = fmt.Sprintf("%.0f", candidate.Rating)
		}
		tw.AppendRow(table.Row{i + 1, candidate.Source, candidate.Name, candidate.Score, year, rating, candidate.Genres})
	}
	tw.Render()
}
