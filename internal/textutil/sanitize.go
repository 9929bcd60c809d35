package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// SanitizeToken converts a string to a lowercase filesystem-safe token.
// Letters are lowercased, digits and hyphens/underscores are kept, everything
// else becomes an underscore. Returns "unknown" for empty input.
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}

var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldASCII strips combining marks so accented titles compare against their
// plain-ASCII catalog counterparts. Returns the input unchanged on transform
// failure.
func FoldASCII(s string) string {
	out, _, err := transform.String(asciiFold, s)
	if err != nil {
		return s
	}
	return out
}

var punctPattern = regexp.MustCompile(`[^a-z0-9 ]+`)

// NormalizeTitle lowers, folds diacritics, maps "&" to "and", strips
// punctuation, and collapses whitespace. Both sides of every title comparison
// go through this.
func NormalizeTitle(title string) string {
	lowered := strings.ToLower(FoldASCII(title))
	lowered = strings.ReplaceAll(lowered, "&", " and ")
	lowered = punctPattern.ReplaceAllString(lowered, " ")
	return strings.Join(strings.Fields(lowered), " ")
}

var (
	bracketPattern   = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)|\{[^}]*\}`)
	versionPattern   = regexp.MustCompile(`(?i)\bv\.?\d+(?:[._]\d+)*[a-z]?\b`)
	buildPattern     = regexp.MustCompile(`(?i)\bbuild[ ._-]?\d+\b`)
	releaseTagsRegex = regexp.MustCompile(`(?i)\b(repack|proper|multi\d*|dlc[s]?(?: included| unlocked)?|update[ ._-]?\d*|incl|fitgirl|codex|plaza|skidrow|gog|drm[ -]?free)\b`)
)

// CleanReleaseTitle reduces a raw release or folder name to a searchable game
// title: bracketed segments, version/build markers, and scene tags are
// removed, separators become spaces, and whitespace collapses. The original
// casing is kept so the cleaned value still reads as a title.
func CleanReleaseTitle(raw string) string {
	cleaned := bracketPattern.ReplaceAllString(raw, " ")
	cleaned = versionPattern.ReplaceAllString(cleaned, " ")
	cleaned = buildPattern.ReplaceAllString(cleaned, " ")
	cleaned = releaseTagsRegex.ReplaceAllString(cleaned, " ")
	cleaned = strings.NewReplacer(".", " ", "_", " ", "+", " ").Replace(cleaned)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return strings.Trim(cleaned, " -")
}
