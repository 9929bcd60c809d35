package catalog

import (
	"strings"
	"time"
)

// GameRecord represents a library entry persisted in SQLite.
//
// StoreID is the Steam app id; CatalogID is the IGDB game id. Genres, Themes,
// and similar scalar fields hold comma-joined display strings; the list
// fields hold URLs or paths in priority order.
type GameRecord struct {
	ID                    int64     `json:"id"`
	Title                 string    `json:"title"`
	OriginalTitle         string    `json:"original_title,omitempty"`
	StoreID               string    `json:"store_id,omitempty"`
	CatalogID             string    `json:"catalog_id,omitempty"`
	Developer             string    `json:"developer,omitempty"`
	Publisher             string    `json:"publisher,omitempty"`
	Genres                string    `json:"genres,omitempty"`
	Themes                string    `json:"themes,omitempty"`
	PlayerPerspective     string    `json:"player_perspective,omitempty"`
	Description           string    `json:"description,omitempty"`
	ReleaseDate           string    `json:"release_date,omitempty"`
	CoverURL              string    `json:"cover_url,omitempty"`
	TrailerURL            string    `json:"trailer_url,omitempty"`
	Screenshots           []string  `json:"screenshots,omitempty"`
	Trailers              []string  `json:"trailers,omitempty"`
	Microtrailers         []string  `json:"microtrailers,omitempty"`
	StoreLink             string    `json:"store_link,omitempty"`
	StoreDBLink           string    `json:"storedb_link,omitempty"`
	CatalogLink           string    `json:"catalog_link,omitempty"`
	WikiLink              string    `json:"wiki_link,omitempty"`
	UserRating            float64   `json:"user_rating,omitempty"`
	CriticRating          float64   `json:"critic_rating,omitempty"`
	Played                bool      `json:"played,omitempty"`
	PersonalRating        int       `json:"personal_rating,omitempty"`
	SaveLocations         []string  `json:"save_locations,omitempty"`
	ImageCachePaths       []string  `json:"image_cache_paths,omitempty"`
	MicrotrailerCachePath string    `json:"microtrailer_cache_path,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// IsResolved reports whether both source identifiers are set. Resolved
// entries are skipped by batch runs.
func (g *GameRecord) IsResolved() bool {
	return strings.TrimSpace(g.StoreID) != "" && strings.TrimSpace(g.CatalogID) != ""
}

// SearchTitle returns the title used for upstream searches: the sanitized
// title, falling back to the raw original when sanitization emptied it.
func (g *GameRecord) SearchTitle() string {
	if t := strings.TrimSpace(g.Title); t != "" {
		return t
	}
	return strings.TrimSpace(g.OriginalTitle)
}
