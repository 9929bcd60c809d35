package steam

import (
	"net/url"
	"path"
	"strings"
)

// MicrotrailerURL rewrites a storefront movie URL to its short looping
// microtrailer variant by replacing the final path segment. Returns an empty
// string when the input is not a usable movie URL.
func MicrotrailerURL(movieURL string) string {
	movieURL = strings.TrimSpace(movieURL)
	if movieURL == "" {
		return ""
	}
	parsed, err := url.Parse(movieURL)
	if err != nil || parsed.Path == "" || parsed.Path == "/" {
		return ""
	}
	parsed.Path = path.Join(path.Dir(parsed.Path), "microtrailer.webm")
	return parsed.String()
}
