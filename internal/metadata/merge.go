package metadata

// Merge combines a storefront partial and a catalog partial into one record.
// Precedence is keyed off each record's SourceTag, so the argument order
// never changes the result:
//
//   - scalar fields take the store value when present, the library value
//     otherwise
//   - the longer description wins
//   - list fields are the union with store entries first, duplicates removed,
//     order otherwise kept
//   - an identifier present on either side is never overwritten by the other
//     side's empty value
//
// Either argument may be nil.
func Merge(a, b *Record) *Record {
	store, library := a, b
	if store != nil && store.Source == SourceLibrary {
		store, library = b, a
	} else if library != nil && library.Source == SourceStore {
		store, library = b, a
	}
	if store == nil {
		store = &Record{}
	}
	if library == nil {
		library = &Record{}
	}

	merged := &Record{
		Source: store.Source,

		StoreID:   pick(store.StoreID, library.StoreID),
		CatalogID: pick(store.CatalogID, library.CatalogID),

		Title:             pick(store.Title, library.Title),
		Developer:         pick(store.Developer, library.Developer),
		Publisher:         pick(store.Publisher, library.Publisher),
		Genres:            pick(store.Genres, library.Genres),
		Themes:            pick(store.Themes, library.Themes),
		PlayerPerspective: pick(store.PlayerPerspective, library.PlayerPerspective),
		Description:       longer(store.Description, library.Description),
		ReleaseDate:       pick(store.ReleaseDate, library.ReleaseDate),

		CoverURL:      pick(store.CoverURL, library.CoverURL),
		Screenshots:   unionOrdered(store.Screenshots, library.Screenshots),
		Trailers:      unionOrdered(store.Trailers, library.Trailers),
		Microtrailers: unionOrdered(store.Microtrailers, library.Microtrailers),

		StoreLink:   pick(store.StoreLink, library.StoreLink),
		StoreDBLink: pick(store.StoreDBLink, library.StoreDBLink),
		CatalogLink: pick(store.CatalogLink, library.CatalogLink),
		WikiLink:    pick(store.WikiLink, library.WikiLink),

		UserRating:   pickFloat(store.UserRating, library.UserRating),
		CriticRating: pickFloat(store.CriticRating, library.CriticRating),
	}
	if merged.Source == "" {
		merged.Source = library.Source
	}

	merged.Provenance.StoreID = pickOrigin(store.Provenance.StoreID, library.Provenance.StoreID, store.StoreID != "")
	merged.Provenance.CatalogID = pickOrigin(store.Provenance.CatalogID, library.Provenance.CatalogID, store.CatalogID != "")
	return merged
}

func pick(store, library string) string {
	if store != "" {
		return store
	}
	return library
}

func pickFloat(store, library float64) float64 {
	if store > 0 {
		return store
	}
	return library
}

// pickOrigin follows the id it annotates: the store-side origin applies only
// when the store-side id won the merge.
func pickOrigin(store, library IDOrigin, storeWon bool) IDOrigin {
	if storeWon && store != "" {
		return store
	}
	if library != "" {
		return library
	}
	return store
}

func longer(a, b string) string {
	if len(b) > len(a) {
		return b
	}
	return a
}

// unionOrdered appends the entries of both lists with first-list entries
// leading and duplicates removed.
func unionOrdered(first, second []string) []string {
	if len(first) == 0 && len(second) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(first)+len(second))
	merged := make([]string, 0, len(first)+len(second))
	for _, list := range [][]string{first, second} {
		for _, item := range list {
			if item == "" || seen[item] {
				continue
			}
			seen[item] = true
			merged = append(merged, item)
		}
	}
	return merged
}
