package metadata

// SourceTag identifies which remote source produced a partial record. Merge
// precedence is keyed off the tag, never off call order.
type SourceTag string

const (
	// SourceStore is the storefront (Steam).
	SourceStore SourceTag = "store"
	// SourceLibrary is the reference catalog (IGDB).
	SourceLibrary SourceTag = "library"
)

// IDOrigin records how an identifier was established.
type IDOrigin string

const (
	// OriginExplicit means the caller supplied the id.
	OriginExplicit IDOrigin = "explicit"
	// OriginCrossReference means one source's payload linked to the other.
	OriginCrossReference IDOrigin = "cross-reference"
	// OriginTitleSearch means a fuzzy title match scored above the
	// auto-accept threshold.
	OriginTitleSearch IDOrigin = "title-search"
)

// Provenance explains where each identifier on a record came from.
type Provenance struct {
	StoreID   IDOrigin `json:"store_id,omitempty"`
	CatalogID IDOrigin `json:"catalog_id,omitempty"`
}

// Record is a partial or merged metadata record for one game.
type Record struct {
	Source SourceTag `json:"source,omitempty"`

	StoreID   string `json:"store_id,omitempty"`
	CatalogID string `json:"catalog_id,omitempty"`

	Title             string `json:"title,omitempty"`
	Developer         string `json:"developer,omitempty"`
	Publisher         string `json:"publisher,omitempty"`
	Genres            string `json:"genres,omitempty"`
	Themes            string `json:"themes,omitempty"`
	PlayerPerspective string `json:"player_perspective,omitempty"`
	Description       string `json:"description,omitempty"`
	ReleaseDate       string `json:"release_date,omitempty"`

	CoverURL      string   `json:"cover_url,omitempty"`
	Screenshots   []string `json:"screenshots,omitempty"`
	Trailers      []string `json:"trailers,omitempty"`
	Microtrailers []string `json:"microtrailers,omitempty"`

	StoreLink   string `json:"store_link,omitempty"`
	StoreDBLink string `json:"storedb_link,omitempty"`
	CatalogLink string `json:"catalog_link,omitempty"`
	WikiLink    string `json:"wiki_link,omitempty"`

	UserRating   float64 `json:"user_rating,omitempty"`
	CriticRating float64 `json:"critic_rating,omitempty"`

	Provenance Provenance `json:"provenance"`
}

// IsEmpty reports whether the record carries no identifiers and no title.
func (r *Record) IsEmpty() bool {
	return r == nil || (r.StoreID == "" && r.CatalogID == "" && r.Title == "")
}
