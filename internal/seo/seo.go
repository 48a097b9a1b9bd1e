// Package seo builds page metadata and schema.org JSON-LD payloads.
package seo

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
}

type Twitter struct {
	Card  string
	Image string
}

// Meta is rendered into the document head.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	OG          OpenGraph
	Twitter     Twitter
}

// NewMeta fills the Open Graph and Twitter fields from the basic page data.
func NewMeta(title, description, canonical, image string) Meta {
	return Meta{
		Title:       title,
		Description: description,
		Canonical:   canonical,
		OG: OpenGraph{
			Title:       title,
			Description: description,
			Image:       image,
			Type:        "website",
			URL:         canonical,
		},
		Twitter: Twitter{Card: "summary_large_image", Image: image},
	}
}
