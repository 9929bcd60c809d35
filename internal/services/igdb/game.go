package igdb

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Website categories from the IGDB data model. Only the Steam category is
// used for cross-referencing.
const WebsiteCategorySteam = 13

var steamAppPattern = regexp.MustCompile(`/app/(\d+)`)

// Game is the subset of the IGDB game model requested by this client.
type Game struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Summary          string  `json:"summary"`
	FirstReleaseDate int64   `json:"first_release_date"`
	Rating           float64 `json:"rating"`
	TotalRating      float64 `json:"total_rating"`
	AggregatedRating float64 `json:"aggregated_rating"`
	URL              string  `json:"url"`

	Cover struct {
		ImageID string `json:"image_id"`
	} `json:"cover"`

	Genres []struct {
		Name string `json:"name"`
	} `json:"genres"`

	Themes []struct {
		Name string `json:"name"`
	} `json:"themes"`

	PlayerPerspectives []struct {
		Name string `json:"name"`
	} `json:"player_perspectives"`

	InvolvedCompanies []struct {
		Developer bool `json:"developer"`
		Publisher bool `json:"publisher"`
		Company   struct {
			Name string `json:"name"`
		} `json:"company"`
	} `json:"involved_companies"`

	Websites []struct {
		Category int    `json:"category"`
		URL      string `json:"url"`
	} `json:"websites"`

	Videos []struct {
		Name    string `json:"name"`
		VideoID string `json:"video_id"`
	} `json:"videos"`

	Screenshots []struct {
		ImageID string `json:"image_id"`
	} `json:"screenshots"`
}

// ImageURL builds a CDN image URL for an image id at the given size preset,
// e.g. "t_720p" or "t_cover_big".
func ImageURL(imageID, size string) string {
	if imageID == "" {
		return ""
	}
	return fmt.Sprintf("https://images.igdb.com/igdb/image/upload/%s/%s.jpg", size, imageID)
}

// YouTubeURL builds a watch URL for an IGDB video id.
func YouTubeURL(videoID string) string {
	if videoID == "" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + videoID
}

// CoverURL returns the game's cover at 720p, or empty when absent.
func (g *Game) CoverURL() string {
	return ImageURL(g.Cover.ImageID, "t_720p")
}

// SteamAppID extracts the storefront app id from the game's Steam website
// entry, or returns empty when none is linked.
func (g *Game) SteamAppID() string {
	for _, site := range g.Websites {
		if site.Category != WebsiteCategorySteam {
			continue
		}
		if match := steamAppPattern.FindStringSubmatch(site.URL); match != nil {
			return match[1]
		}
	}
	return ""
}

// Developers returns the names of companies flagged as developers.
func (g *Game) Developers() []string {
	var names []string
	for _, ic := range g.InvolvedCompanies {
		if ic.Developer && ic.Company.Name != "" {
			names = append(names, ic.Company.Name)
		}
	}
	return names
}

// Publishers returns the names of companies flagged as publishers.
func (g *Game) Publishers() []string {
	var names []string
	for _, ic := range g.InvolvedCompanies {
		if ic.Publisher && ic.Company.Name != "" {
			names = append(names, ic.Company.Name)
		}
	}
	return names
}

// GenreNames flattens the genre references to their names.
func (g *Game) GenreNames() []string {
	names := make([]string, 0, len(g.Genres))
	for _, genre := range g.Genres {
		if genre.Name != "" {
			names = append(names, genre.Name)
		}
	}
	return names
}

// ThemeNames flattens the theme references to their names.
func (g *Game) ThemeNames() []string {
	names := make([]string, 0, len(g.Themes))
	for _, theme := range g.Themes {
		if theme.Name != "" {
			names = append(names, theme.Name)
		}
	}
	return names
}

// PerspectiveNames flattens the player perspective references.
func (g *Game) PerspectiveNames() []string {
	names := make([]string, 0, len(g.PlayerPerspectives))
	for _, p := range g.PlayerPerspectives {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	return names
}

// VideoURLs returns YouTube watch URLs for the game's videos.
func (g *Game) VideoURLs() []string {
	var urls []string
	for _, video := range g.Videos {
		if url := YouTubeURL(video.VideoID); url != "" {
			urls = append(urls, url)
		}
	}
	return urls
}

// ScreenshotURLs returns CDN URLs for the game's screenshots at 720p.
func (g *Game) ScreenshotURLs() []string {
	var urls []string
	for _, shot := range g.Screenshots {
		if url := ImageURL(shot.ImageID, "t_720p"); url != "" {
			urls = append(urls, url)
		}
	}
	return urls
}

// ReleaseYear returns the four digit release year, or 0 when unknown.
func (g *Game) ReleaseYear() int {
	if g.FirstReleaseDate <= 0 {
		return 0
	}
	return time.Unix(g.FirstReleaseDate, 0).UTC().Year()
}

// ReleaseDateString formats the first release date, or empty when unknown.
func (g *Game) ReleaseDateString() string {
	if g.FirstReleaseDate <= 0 {
		return ""
	}
	return time.Unix(g.FirstReleaseDate, 0).UTC().Format("Jan 2, 2006")
}

// IDString returns the numeric id as the string form used by the catalog.
func (g *Game) IDString() string {
	return strconv.FormatInt(g.ID, 10)
}

// BestRating prefers the blended total rating and falls back to the critic
// aggregate. Returns 0 when neither is present.
func (g *Game) BestRating() float64 {
	if g.TotalRating > 0 {
		return g.TotalRating
	}
	return g.AggregatedRating
}
