package steam

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New(server.URL, 2*time.Second, WithRetries(0))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client, server
}

func TestSearchParsesItems(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/storesearch/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("term"); got != "Hollow Knight" {
			t.Errorf("unexpected term %q", got)
		}
		fmt.Fprint(w, `{"items": [
			{"id": 367520, "name": "Hollow Knight", "tiny_image": "https://cdn.test/hk.jpg"},
			{"id": 1030300, "name": "Hollow Knight: Silksong"}
		]}`)
	}))

	items, err := client.Search(context.Background(), "Hollow Knight")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].AppID != "367520" || items[0].Name != "Hollow Knight" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
}

func TestSearchRejectsEmptyTitle(t *testing.T) {
	client, _ := newTestClient(t, http.NotFoundHandler())
	if _, err := client.Search(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty title")
	}
}

func TestAppDetailsMapsPayload(t *testing.T) {
	var screenshots strings.Builder
	for i := 0; i < 15; i++ {
		if i > 0 {
			screenshots.WriteString(",")
		}
		fmt.Fprintf(&screenshots, `{"path_full": "https://cdn.test/shot%d.jpg"}`, i)
	}

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("appids"); got != "367520" {
			t.Errorf("unexpected appids %q", got)
		}
		fmt.Fprintf(w, `{"367520": {"success": true, "data": {
			"name": "Hollow Knight",
			"short_description": "A haunting action adventure.",
			"developers": ["Team Cherry"],
			"publishers": ["Team Cherry"],
			"genres": [{"description": "Action"}, {"description": "Adventure"}],
			"release_date": {"date": "Feb 24, 2017"},
			"header_image": "https://cdn.test/header.jpg",
			"screenshots": [%s],
			"movies": [
				{"name": "Trailer 1", "webm": {"480": "https://cdn.test/m1/movie480.webm", "max": "https://cdn.test/m1/movie_max.webm"}},
				{"name": "Trailer 2", "webm": {"max": "https://cdn.test/m2/movie_max.webm"}},
				{"name": "Trailer 3", "webm": {"max": "https://cdn.test/m3/movie_max.webm"}}
			]
		}}}`, screenshots.String())
	}))

	details, err := client.AppDetails(context.Background(), "367520")
	if err != nil {
		t.Fatalf("AppDetails returned error: %v", err)
	}
	if details.Name != "Hollow Knight" || details.Developers[0] != "Team Cherry" {
		t.Fatalf("unexpected details: %+v", details)
	}
	if len(details.Genres) != 2 || details.Genres[1] != "Adventure" {
		t.Fatalf("unexpected genres: %v", details.Genres)
	}
	if len(details.Screenshots) != maxScreenshots {
		t.Fatalf("expected %d screenshots, got %d", maxScreenshots, len(details.Screenshots))
	}
	if len(details.Microtrailers) != maxMicrotrailers {
		t.Fatalf("expected %d microtrailers, got %d", maxMicrotrailers, len(details.Microtrailers))
	}
	if details.Microtrailers[0] != "https://cdn.test/m1/microtrailer.webm" {
		t.Fatalf("movie url not rewritten: %q", details.Microtrailers[0])
	}
}

func TestAppDetailsUnavailable(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"12345": {"success": false}}`)
	}))
	if _, err := client.AppDetails(context.Background(), "12345"); err == nil {
		t.Fatal("expected error for unsuccessful payload")
	}
}

func TestAppDetailsRejectsNonNumericID(t *testing.T) {
	client, _ := newTestClient(t, http.NotFoundHandler())
	if _, err := client.AppDetails(context.Background(), "not-a-number"); err == nil {
		t.Fatal("expected error for invalid app id")
	}
}

func TestGetRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"items": [{"id": 1, "name": "Celeste"}]}`)
	}))
	defer server.Close()

	client, err := New(server.URL, 2*time.Second, WithRetries(2))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	items, err := client.Search(context.Background(), "Celeste")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(items) != 1 || calls.Load() != 2 {
		t.Fatalf("expected success on second attempt, got %d items after %d calls", len(items), calls.Load())
	}
}

func TestSearchHTMLParsesResultRows(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprint(w, `<html><body>
			<a class="search_result_row" data-ds-appid="367520" href="https://store.steampowered.com/app/367520/Hollow_Knight/">
				<span class="title">Hollow Knight</span>
			</a>
			<a class="search_result_row" href="https://store.steampowered.com/app/1030300/Silksong/">
				<span class="title">Hollow Knight: Silksong</span>
			</a>
			<a class="search_result_row" data-ds-appid="367520" href="https://store.steampowered.com/app/367520/">
				<span class="title">Hollow Knight (duplicate)</span>
			</a>
		</body></html>`)
	}))

	items, err := client.SearchHTML(context.Background(), "Hollow Knight")
	if err != nil {
		t.Fatalf("SearchHTML returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 unique items, got %d", len(items))
	}
	if items[1].AppID != "1030300" {
		t.Fatalf("href fallback failed: %+v", items[1])
	}
}

func TestMicrotrailerURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"rewrites last segment", "https://cdn.test/games/123/movie_max.webm", "https://cdn.test/games/123/microtrailer.webm"},
		{"keeps query", "https://cdn.test/games/123/movie.webm?t=5", "https://cdn.test/games/123/microtrailer.webm?t=5"},
		{"empty input", "", ""},
		{"bare host", "https://cdn.test/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MicrotrailerURL(tt.in); got != tt.want {
				t.Errorf("MicrotrailerURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDerivedLinks(t *testing.T) {
	if got := StorePageURL("367520"); got != "https://store.steampowered.com/app/367520/" {
		t.Errorf("StorePageURL = %q", got)
	}
	if got := SteamDBURL("367520"); got != "https://steamdb.info/app/367520/" {
		t.Errorf("SteamDBURL = %q", got)
	}
	if got := SearchPageURL("Hollow Knight"); !strings.Contains(got, "Hollow+Knight") {
		t.Errorf("SearchPageURL = %q", got)
	}
}
