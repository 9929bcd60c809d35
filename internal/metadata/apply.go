package metadata

import (
	"strings"

	"ludex/internal/catalog"
)

// ApplyToEntry copies a resolved record onto a library entry. With overwrite
// set, non-empty record values replace existing ones; without it only gaps
// are filled and values already on the entry are left alone. Identifiers are
// never blanked either way. The entry's prior title is preserved as the
// original title the first time the canonical one differs.
func ApplyToEntry(entry *catalog.GameRecord, record *Record, overwrite bool) {
	if entry == nil || record == nil {
		return
	}

	if record.Title != "" && record.Title != entry.Title && (overwrite || entry.Title == "") {
		if entry.OriginalTitle == "" && entry.Title != "" {
			entry.OriginalTitle = entry.Title
		}
		entry.Title = record.Title
	}

	assign := func(dst *string, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		if !overwrite && *dst != "" {
			return
		}
		*dst = value
	}

	assign(&entry.StoreID, record.StoreID)
	assign(&entry.CatalogID, record.CatalogID)
	assign(&entry.Developer, record.Developer)
	assign(&entry.Publisher, record.Publisher)
	assign(&entry.Genres, record.Genres)
	assign(&entry.Themes, record.Themes)
	assign(&entry.PlayerPerspective, record.PlayerPerspective)
	assign(&entry.ReleaseDate, record.ReleaseDate)
	assign(&entry.CoverURL, record.CoverURL)
	assign(&entry.StoreLink, record.StoreLink)
	assign(&entry.StoreDBLink, record.StoreDBLink)
	assign(&entry.CatalogLink, record.CatalogLink)
	assign(&entry.WikiLink, record.WikiLink)

	if overwrite {
		if len(record.Description) > len(entry.Description) {
			entry.Description = record.Description
		}
	} else if entry.Description == "" {
		entry.Description = record.Description
	}

	if len(record.Screenshots) > 0 && (overwrite || len(entry.Screenshots) == 0) {
		entry.Screenshots = record.Screenshots
	}
	if len(record.Trailers) > 0 && (overwrite || len(entry.Trailers) == 0) {
		entry.Trailers = record.Trailers
	}
	if len(record.Microtrailers) > 0 && (overwrite || len(entry.Microtrailers) == 0) {
		entry.Microtrailers = record.Microtrailers
	}

	// A full trailer beats a looping microtrailer as the headline video.
	if trailer := firstNonEmpty(record.Trailers); trailer != "" && (overwrite || entry.TrailerURL == "") {
		entry.TrailerURL = trailer
	} else if micro := firstNonEmpty(record.Microtrailers); micro != "" && entry.TrailerURL == "" {
		entry.TrailerURL = micro
	}

	if record.UserRating > 0 && (overwrite || entry.UserRating == 0) {
		entry.UserRating = record.UserRating
	}
	if record.CriticRating > 0 && (overwrite || entry.CriticRating == 0) {
		entry.CriticRating = record.CriticRating
	}
}

func firstNonEmpty(list []string) string {
	for _, item := range list {
		if item != "" {
			return item
		}
	}
	return ""
}
