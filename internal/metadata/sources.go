package metadata

import (
	"context"
	"net/url"
	"strings"

	"ludex/internal/services/igdb"
	"ludex/internal/services/steam"
	"ludex/internal/textutil"
)

// summaryPreviewLen bounds candidate summaries so selection tables stay
// readable.
const summaryPreviewLen = 120

// Source is one remote metadata provider. Implementations declare their tag
// up front; nothing downstream inspects the concrete type. Minimal stands in
// for Fetch when no identifier resolved: a title-only record carrying the
// source's derived search links and nothing else.
type Source interface {
	Tag() SourceTag
	Search(ctx context.Context, title string) ([]Candidate, error)
	Fetch(ctx context.Context, id string) (*Record, error)
	Minimal(title string) *Record
}

// storeSource adapts the storefront client.
type storeSource struct {
	client        *steam.Client
	maxCandidates int
}

// NewStoreSource wraps a storefront client as a Source.
func NewStoreSource(client *steam.Client, maxCandidates int) Source {
	if maxCandidates <= 0 {
		maxCandidates = 10
	}
	return &storeSource{client: client, maxCandidates: maxCandidates}
}

func (s *storeSource) Tag() SourceTag { return SourceStore }

// Search queries the storesearch API and falls back to scraping the search
// page when the API yields nothing.
func (s *storeSource) Search(ctx context.Context, title string) ([]Candidate, error) {
	items, err := s.client.Search(ctx, title)
	if err != nil || len(items) == 0 {
		htmlItems, htmlErr := s.client.SearchHTML(ctx, title)
		if htmlErr != nil {
			if err != nil {
				return nil, err
			}
			return nil, htmlErr
		}
		items = htmlItems
	}

	candidates := make([]Candidate, 0, len(items))
	for _, item := range items {
		candidates = append(candidates, Candidate{
			ID:       item.AppID,
			Name:     item.Name,
			Score:    textutil.TitleScore(title, item.Name),
			Source:   SourceStore,
			CoverURL: item.TinyImage,
		})
	}
	sortCandidates(candidates)
	if len(candidates) > s.maxCandidates {
		candidates = candidates[:s.maxCandidates]
	}
	return candidates, nil
}

func (s *storeSource) Fetch(ctx context.Context, id string) (*Record, error) {
	details, err := s.client.AppDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Record{
		Source:        SourceStore,
		StoreID:       details.AppID,
		Title:         details.Name,
		Developer:     strings.Join(details.Developers, ", "),
		Publisher:     strings.Join(details.Publishers, ", "),
		Genres:        strings.Join(details.Genres, ", "),
		Description:   details.ShortDescription,
		ReleaseDate:   details.ReleaseDate,
		CoverURL:      details.HeaderImage,
		Screenshots:   details.Screenshots,
		Microtrailers: details.Microtrailers,
		StoreLink:     steam.StorePageURL(details.AppID),
		StoreDBLink:   steam.SteamDBURL(details.AppID),
		WikiLink:      wikiSearchURL(details.Name),
	}, nil
}

// Minimal returns a record pointing at the storefront and wiki search pages
// for the title. No identifier, so no direct links.
func (s *storeSource) Minimal(title string) *Record {
	record := &Record{Source: SourceStore}
	if title != "" {
		record.StoreLink = steam.SearchPageURL(title)
		record.WikiLink = wikiSearchURL(title)
	}
	return record
}

// librarySource adapts the catalog client.
type librarySource struct {
	client        *igdb.Client
	maxCandidates int
}

// NewLibrarySource wraps a catalog client as a Source.
func NewLibrarySource(client *igdb.Client, maxCandidates int) Source {
	if maxCandidates <= 0 {
		maxCandidates = 10
	}
	return &librarySource{client: client, maxCandidates: maxCandidates}
}

func (s *librarySource) Tag() SourceTag { return SourceLibrary }

func (s *librarySource) Search(ctx context.Context, title string) ([]Candidate, error) {
	games, err := s.client.SearchGames(ctx, title, s.maxCandidates)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(games))
	for i := range games {
		game := &games[i]
		candidates = append(candidates, Candidate{
			ID:          game.IDString(),
			Name:        game.Name,
			Score:       textutil.TitleScore(title, game.Name),
			Source:      SourceLibrary,
			ReleaseYear: game.ReleaseYear(),
			Rating:      game.BestRating(),
			Genres:      strings.Join(game.GenreNames(), ", "),
			Summary:     previewText(game.Summary),
			CoverURL:    game.CoverURL(),
		})
	}
	sortCandidates(candidates)
	return candidates, nil
}

// Fetch maps a catalog game to a partial record. The record also carries the
// storefront id when the catalog entry links one, which lets the pipeline
// cross-reference instead of running a second title search.
func (s *librarySource) Fetch(ctx context.Context, id string) (*Record, error) {
	game, err := s.client.GameByID(ctx, id)
	if err != nil {
		return nil, err
	}
	record := &Record{
		Source:            SourceLibrary,
		CatalogID:         game.IDString(),
		Title:             game.Name,
		Developer:         strings.Join(game.Developers(), ", "),
		Publisher:         strings.Join(game.Publishers(), ", "),
		Genres:            strings.Join(game.GenreNames(), ", "),
		Themes:            strings.Join(game.ThemeNames(), ", "),
		PlayerPerspective: strings.Join(game.PerspectiveNames(), ", "),
		Description:       game.Summary,
		ReleaseDate:       game.ReleaseDateString(),
		CoverURL:          game.CoverURL(),
		Screenshots:       game.ScreenshotURLs(),
		Trailers:          game.VideoURLs(),
		CatalogLink:       game.URL,
		UserRating:        game.Rating,
		CriticRating:      game.AggregatedRating,
	}
	if appID := game.SteamAppID(); appID != "" {
		record.StoreID = appID
		record.Provenance.StoreID = OriginCrossReference
	}
	return record, nil
}

// Minimal returns a record pointing at the catalog search page for the title.
func (s *librarySource) Minimal(title string) *Record {
	return &Record{
		Source:      SourceLibrary,
		CatalogLink: catalogSearchURL(title),
	}
}

func catalogSearchURL(title string) string {
	if title == "" {
		return ""
	}
	return "https://www.igdb.com/search?q=" + url.QueryEscape(title)
}

func wikiSearchURL(title string) string {
	if title == "" {
		return ""
	}
	return "https://www.pcgamingwiki.com/w/index.php?search=" + url.QueryEscape(title)
}

func previewText(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= summaryPreviewLen {
		return text
	}
	cut := text[:summaryPreviewLen]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}
