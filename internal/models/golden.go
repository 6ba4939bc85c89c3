package models

import "sort"

// GoldenManifest maps a test page path to its approved screenshots.
// Format of golden.json:
//
//	{"pages/button.html": {"public_url": "...", "screenshots": {"desktop_windows_chrome@latest": "https://.../x.png"}}}
type GoldenManifest map[string]GoldenPage

// GoldenPage is the golden record of a single test page
type GoldenPage struct {
	PublicURL   string            `json:"public_url"`
	Screenshots map[string]string `json:"screenshots"`
}

// ImageURL returns the approved image URL for a page/alias pair
func (g GoldenManifest) ImageURL(page, alias string) (string, bool) {
	rec, ok := g[page]
	if !ok {
		return "", false
	}
	url, ok := rec.Screenshots[alias]
	return url, ok
}

// Set records an approved image URL, creating the page record when needed
func (g GoldenManifest) Set(page, publicURL, alias, imageURL string) {
	rec := g[page]
	if rec.Screenshots == nil {
		rec.Screenshots = make(map[string]string)
	}
	if publicURL != "" {
		rec.PublicURL = publicURL
	}
	rec.Screenshots[alias] = imageURL
	g[page] = rec
}

// Delete removes a page/alias pair; the page is dropped once it has no screenshots
func (g GoldenManifest) Delete(page, alias string) {
	rec, ok := g[page]
	if !ok {
		return
	}
	delete(rec.Screenshots, alias)
	if len(rec.Screenshots) == 0 {
		delete(g, page)
		return
	}
	g[page] = rec
}

// Pages returns the page paths in byte order
func (g GoldenManifest) Pages() []string {
	pages := make([]string, 0, len(g))
	for page := range g {
		pages = append(pages, page)
	}
	sort.Strings(pages)
	return pages
}

// Clone returns a deep copy of the manifest
func (g GoldenManifest) Clone() GoldenManifest {
	out := make(GoldenManifest, len(g))
	for page, rec := range g {
		shots := make(map[string]string, len(rec.Screenshots))
		for alias, url := range rec.Screenshots {
			shots[alias] = url
		}
		out[page] = GoldenPage{PublicURL: rec.PublicURL, Screenshots: shots}
	}
	return out
}
