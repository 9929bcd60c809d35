package catalog

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// csvHeader is the fixed column set for CSV interchange. List-valued fields
// are pipe-joined; the full record shape only round-trips through JSON.
var csvHeader = []string{
	"title", "original_title", "store_id", "catalog_id", "developer",
	"publisher", "genres", "themes", "release_date", "played", "personal_rating",
}

// WriteJSON serializes the library as an indented JSON array.
func WriteJSON(w io.Writer, games []*GameRecord) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if games == nil {
		games = []*GameRecord{}
	}
	if err := encoder.Encode(games); err != nil {
		return fmt.Errorf("encode library json: %w", err)
	}
	return nil
}

// ReadJSON parses a JSON array of library entries.
func ReadJSON(r io.Reader) ([]*GameRecord, error) {
	var games []*GameRecord
	if err := json.NewDecoder(r).Decode(&games); err != nil {
		return nil, fmt.Errorf("decode library json: %w", err)
	}
	for _, game := range games {
		if game == nil || strings.TrimSpace(game.Title) == "" {
			return nil, errors.New("library json contains an entry without a title")
		}
	}
	return games, nil
}

// WriteCSV serializes the library with the fixed interchange columns.
func WriteCSV(w io.Writer, games []*GameRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, game := range games {
		row := []string{
			game.Title,
			game.OriginalTitle,
			game.StoreID,
			game.CatalogID,
			game.Developer,
			game.Publisher,
			game.Genres,
			game.Themes,
			game.ReleaseDate,
			strconv.FormatBool(game.Played),
			strconv.Itoa(game.PersonalRating),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ReadCSV parses library entries from the fixed interchange columns. The
// header row is required and validated.
func ReadCSV(r io.Reader) ([]*GameRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvHeader)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, want := range csvHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return nil, fmt.Errorf("unexpected csv column %d: got %q want %q", i+1, header[i], want)
		}
	}

	var games []*GameRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		title := strings.TrimSpace(row[0])
		if title == "" {
			return nil, errors.New("csv row missing title")
		}
		game := &GameRecord{
			Title:         title,
			OriginalTitle: strings.TrimSpace(row[1]),
			StoreID:       strings.TrimSpace(row[2]),
			CatalogID:     strings.TrimSpace(row[3]),
			Developer:     strings.TrimSpace(row[4]),
			Publisher:     strings.TrimSpace(row[5]),
			Genres:        strings.TrimSpace(row[6]),
			Themes:        strings.TrimSpace(row[7]),
			ReleaseDate:   strings.TrimSpace(row[8]),
		}
		if played, err := strconv.ParseBool(strings.TrimSpace(row[9])); err == nil {
			game.Played = played
		}
		if rating, err := strconv.Atoi(strings.TrimSpace(row[10])); err == nil {
			game.PersonalRating = rating
		}
		games = append(games, game)
	}
	return games, nil
}

// ExportFile writes the library to path, choosing the format from the file
// extension (.json or .csv).
func (s *Store) ExportFile(ctx context.Context, path string) (int, error) {
	games, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create export file: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = WriteJSON(file, games)
	case ".csv":
		err = WriteCSV(file, games)
	default:
		err = fmt.Errorf("unsupported export format %q (use .json or .csv)", filepath.Ext(path))
	}
	if err != nil {
		return 0, err
	}
	return len(games), nil
}

// ImportFile reads library entries from path (format by extension) and adds
// them, skipping entries whose title already exists. Returns added and
// skipped counts.
func (s *Store) ImportFile(ctx context.Context, path string) (int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open import file: %w", err)
	}
	defer file.Close()

	var games []*GameRecord
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		games, err = ReadJSON(file)
	case ".csv":
		games, err = ReadCSV(file)
	default:
		err = fmt.Errorf("unsupported import format %q (use .json or .csv)", filepath.Ext(path))
	}
	if err != nil {
		return 0, 0, err
	}

	added, skipped := 0, 0
	for _, game := range games {
		existing, err := s.FindByTitle(ctx, game.Title)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return added, skipped, err
		}
		if existing != nil {
			skipped++
			continue
		}
		game.ID = 0
		if _, err := s.Add(ctx, game); err != nil {
			return added, skipped, err
		}
		added++
	}
	return added, skipped, nil
}
