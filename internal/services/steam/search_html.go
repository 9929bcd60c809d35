package steam

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var appHrefPattern = regexp.MustCompile(`/app/(\d+)`)

// SearchHTML scrapes the storefront search page. The JSON storesearch API
// omits some regional and delisted titles that still render on the HTML page,
// so this is the fallback when the API returns nothing.
func (c *Client) SearchHTML(ctx context.Context, title string) ([]SearchItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("title must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/search/")
	if err != nil {
		return nil, fmt.Errorf("parse search url: %w", err)
	}
	params := url.Values{}
	params.Set("term", title)
	endpoint.RawQuery = params.Encode()

	body, err := c.get(ctx, endpoint.String())
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}

	var items []SearchItem
	seen := make(map[string]bool)
	doc.Find("a.search_result_row").Each(func(_ int, row *goquery.Selection) {
		appID, _ := row.Attr("data-ds-appid")
		if appID == "" {
			href, _ := row.Attr("href")
			if match := appHrefPattern.FindStringSubmatch(href); match != nil {
				appID = match[1]
			}
		}
		// Bundles carry comma-joined ids; keep the first.
		if idx := strings.IndexByte(appID, ','); idx >= 0 {
			appID = appID[:idx]
		}
		name := strings.TrimSpace(row.Find("span.title").First().Text())
		if appID == "" || name == "" || seen[appID] {
			return
		}
		seen[appID] = true
		items = append(items, SearchItem{AppID: appID, Name: name})
	})
	return items, nil
}
