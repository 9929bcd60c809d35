package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ludex/internal/logging"
)

// Status classifies a pipeline outcome.
type Status string

const (
	// StatusResolved means at least one identifier resolved and a record was
	// fetched.
	StatusResolved Status = "resolved"
	// StatusAmbiguous means no identifier resolved automatically but search
	// produced candidates for manual selection.
	StatusAmbiguous Status = "ambiguous"
	// StatusEmpty means neither an identifier nor any candidate was found.
	StatusEmpty Status = "empty"
)

// Request asks the pipeline to resolve one title. Either identifier may be
// pre-set; set identifiers bypass their source's search tiers.
type Request struct {
	Title     string
	StoreID   string
	CatalogID string
}

// Resolution is the pipeline outcome for one request.
type Resolution struct {
	Status     Status
	Record     *Record
	Candidates []Candidate
}

// Pipeline resolves identifiers against both sources, fetches the partials,
// and merges them.
type Pipeline struct {
	store     Source
	library   Source
	threshold int
	logger    *slog.Logger
}

// NewPipeline wires the two sources. threshold is the inclusive auto-accept
// score for fuzzy matches.
func NewPipeline(store, library Source, threshold int, logger *slog.Logger) (*Pipeline, error) {
	if store == nil || library == nil {
		return nil, errors.New("both sources are required")
	}
	if threshold < 0 || threshold > 100 {
		return nil, fmt.Errorf("threshold %d out of range", threshold)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		store:     store,
		library:   library,
		threshold: threshold,
		logger:    logger.With(logging.String(logging.FieldComponent, "metadata")),
	}, nil
}

// Resolve runs the full pipeline for one request. The library side resolves
// first so its payload can cross-reference the storefront id. Search and
// fetch failures degrade: a failed side contributes nothing rather than
// failing the request.
func (p *Pipeline) Resolve(ctx context.Context, req Request) (*Resolution, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" && req.StoreID == "" && req.CatalogID == "" {
		return nil, errors.New("request needs a title or an identifier")
	}

	libraryCandidates := p.searchCandidates(ctx, p.library, title, req.CatalogID != "")
	libraryID := resolveIdentifier(req.CatalogID, "", libraryCandidates, p.threshold)

	var libraryRecord *Record
	if libraryID != nil {
		libraryRecord = p.fetchRecord(ctx, p.library, libraryID.ID)
		if libraryRecord != nil {
			libraryRecord.CatalogID = libraryID.ID
			libraryRecord.Provenance.CatalogID = libraryID.Origin
		}
	}

	// A storefront id linked from the library payload outranks a second
	// fuzzy search.
	crossRef := ""
	if req.StoreID == "" && libraryRecord != nil {
		crossRef = libraryRecord.StoreID
	}

	var storeCandidates []Candidate
	skipStoreSearch := req.StoreID != "" || crossRef != ""
	storeCandidates = p.searchCandidates(ctx, p.store, title, skipStoreSearch)
	storeID := resolveIdentifier(req.StoreID, crossRef, storeCandidates, p.threshold)

	var storeRecord *Record
	if storeID != nil {
		storeRecord = p.fetchRecord(ctx, p.store, storeID.ID)
		if storeRecord != nil {
			storeRecord.StoreID = storeID.ID
			storeRecord.Provenance.StoreID = storeID.Origin
		}
	}

	if storeRecord == nil && libraryRecord == nil {
		candidates := richerCandidates(libraryCandidates, storeCandidates)
		if len(candidates) == 0 {
			p.logger.Info("no identifiers or candidates found", logging.String(logging.FieldTitle, title))
			return &Resolution{Status: StatusEmpty}, nil
		}
		p.logger.Info("resolution ambiguous",
			logging.String(logging.FieldTitle, title),
			logging.Int("candidates", len(candidates)),
			logging.Int(logging.FieldScore, candidates[0].Score))
		return &Resolution{Status: StatusAmbiguous, Candidates: candidates}, nil
	}

	// An unresolved side still contributes its derived search links so the
	// entry ends up with somewhere to look.
	if storeRecord == nil {
		storeRecord = p.store.Minimal(title)
	}
	if libraryRecord == nil {
		libraryRecord = p.library.Minimal(title)
	}

	merged := Merge(storeRecord, libraryRecord)
	p.logger.Info("resolved",
		logging.String(logging.FieldTitle, title),
		logging.String("store_id", merged.StoreID),
		logging.String("catalog_id", merged.CatalogID))
	return &Resolution{Status: StatusResolved, Record: merged}, nil
}

// searchCandidates swallows search failures: an unreachable source behaves
// like a source with no matches.
func (p *Pipeline) searchCandidates(ctx context.Context, source Source, title string, skip bool) []Candidate {
	if skip || title == "" {
		return nil
	}
	candidates, err := source.Search(ctx, title)
	if err != nil {
		p.logger.Warn("candidate search failed",
			logging.String(logging.FieldSource, string(source.Tag())),
			logging.String(logging.FieldTitle, title),
			logging.Error(err))
		return nil
	}
	return candidates
}

func (p *Pipeline) fetchRecord(ctx context.Context, source Source, id string) *Record {
	record, err := source.Fetch(ctx, id)
	if err != nil {
		p.logger.Warn("fetch failed",
			logging.String(logging.FieldSource, string(source.Tag())),
			logging.String("id", id),
			logging.Error(err))
		return nil
	}
	return record
}

// richerCandidates prefers the library list, which carries years and
// ratings, unless the store found strictly more matches.
func richerCandidates(library, store []Candidate) []Candidate {
	if len(store) > len(library) {
		return store
	}
	return library
}
