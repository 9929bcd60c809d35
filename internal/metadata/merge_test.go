package metadata

import (
	"reflect"
	"testing"
)

func storePartial() *Record {
	return &Record{
		Source:      SourceStore,
		StoreID:     "367520",
		Title:       "Hollow Knight",
		Developer:   "Team Cherry",
		Genres:      "Action, Adventure",
		Description: "Short blurb.",
		ReleaseDate: "Feb 24, 2017",
		Screenshots: []string{"s1", "s2"},
		Provenance:  Provenance{StoreID: OriginExplicit},
	}
}

func libraryPartial() *Record {
	return &Record{
		Source:       SourceLibrary,
		CatalogID:    "14593",
		Title:        "Hollow Knight (Catalog)",
		Publisher:    "Team Cherry",
		Themes:       "Fantasy",
		Description:  "A considerably longer summary of the ruined kingdom below Dirtmouth.",
		Screenshots:  []string{"s2", "s3"},
		Trailers:     []string{"t1"},
		UserRating:   88.4,
		CriticRating: 90.1,
		Provenance:   Provenance{CatalogID: OriginTitleSearch},
	}
}

func TestMergeIsOrderIndependent(t *testing.T) {
	forward := Merge(storePartial(), libraryPartial())
	reversed := Merge(libraryPartial(), storePartial())
	if !reflect.DeepEqual(forward, reversed) {
		t.Fatalf("merge depends on argument order:\nforward:  %+v\nreversed: %+v", forward, reversed)
	}
}

func TestMergeStoreWinsScalars(t *testing.T) {
	merged := Merge(libraryPartial(), storePartial())
	if merged.Title != "Hollow Knight" {
		t.Errorf("store title should win, got %q", merged.Title)
	}
	if merged.Developer != "Team Cherry" || merged.Publisher != "Team Cherry" {
		t.Errorf("scalars not filled from both sides: dev=%q pub=%q", merged.Developer, merged.Publisher)
	}
	if merged.Themes != "Fantasy" {
		t.Errorf("library-only scalar lost: %q", merged.Themes)
	}
}

func TestMergeLongerDescriptionWins(t *testing.T) {
	merged := Merge(storePartial(), libraryPartial())
	if merged.Description != libraryPartial().Description {
		t.Errorf("expected longer description, got %q", merged.Description)
	}
}

func TestMergeListUnionStoreFirst(t *testing.T) {
	merged := Merge(libraryPartial(), storePartial())
	want := []string{"s1", "s2", "s3"}
	if !reflect.DeepEqual(merged.Screenshots, want) {
		t.Errorf("screenshot union = %v, want %v", merged.Screenshots, want)
	}
	if !reflect.DeepEqual(merged.Trailers, []string{"t1"}) {
		t.Errorf("library-only list lost: %v", merged.Trailers)
	}
}

func TestMergeIdentifiersNeverClobbered(t *testing.T) {
	merged := Merge(storePartial(), libraryPartial())
	if merged.StoreID != "367520" || merged.CatalogID != "14593" {
		t.Fatalf("identifiers lost: store=%q catalog=%q", merged.StoreID, merged.CatalogID)
	}
	if merged.Provenance.StoreID != OriginExplicit || merged.Provenance.CatalogID != OriginTitleSearch {
		t.Fatalf("provenance lost: %+v", merged.Provenance)
	}
}

func TestMergeWithNilSide(t *testing.T) {
	merged := Merge(nil, libraryPartial())
	if merged.CatalogID != "14593" || merged.UserRating != 88.4 {
		t.Fatalf("library partial did not survive nil store side: %+v", merged)
	}

	merged = Merge(storePartial(), nil)
	if merged.StoreID != "367520" {
		t.Fatalf("store partial did not survive nil library side: %+v", merged)
	}
}

func TestMergeLibraryRatingsKept(t *testing.T) {
	merged := Merge(storePartial(), libraryPartial())
	if merged.UserRating != 88.4 || merged.CriticRating != 90.1 {
		t.Fatalf("ratings lost in merge: %+v", merged)
	}
}

func TestUnionOrderedDropsEmptyAndDuplicates(t *testing.T) {
	got := unionOrdered([]string{"a", "", "b"}, []string{"b", "c", "a"})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unionOrdered = %v, want %v", got, want)
	}
	if unionOrdered(nil, nil) != nil {
		t.Fatal("expected nil for two empty lists")
	}
}
