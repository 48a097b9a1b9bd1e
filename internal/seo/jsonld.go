package seo

import (
	"encoding/json"
	"html/template"
)

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Script marshals v for use inside a <script type="application/ld+json">
// element. html/template escapes the payload for the script context.
func Script(v any) template.JS {
	return template.JS(JSON(v))
}

// Business describes a local service business.
type Business struct {
	Name        string
	Description string
	URL         string
	LogoURL     string
	ImageURL    string
	Phone       string
	Address     string
	Hours       string
	FoundedYear int
	AreaServed  []string
	SameAs      []string
}

// Plumber returns a schema.org Plumber (a LocalBusiness subtype) payload.
func Plumber(b Business) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Plumber",
		"name":     b.Name,
	}
	if b.Description != "" {
		m["description"] = b.Description
	}
	if b.URL != "" {
		m["url"] = b.URL
	}
	if b.LogoURL != "" {
		m["logo"] = b.LogoURL
	}
	if b.ImageURL != "" {
		m["image"] = b.ImageURL
	}
	if b.Phone != "" {
		m["telephone"] = b.Phone
	}
	if b.Address != "" {
		m["address"] = map[string]any{"@type": "PostalAddress", "streetAddress": b.Address}
	}
	if b.Hours != "" {
		m["openingHours"] = b.Hours
	}
	if b.FoundedYear > 0 {
		m["foundingDate"] = b.FoundedYear
	}
	if len(b.AreaServed) > 0 {
		areas := make([]map[string]any, 0, len(b.AreaServed))
		for _, a := range b.AreaServed {
			areas = append(areas, map[string]any{"@type": "City", "name": a})
		}
		m["areaServed"] = areas
	}
	if len(b.SameAs) > 0 {
		m["sameAs"] = b.SameAs
	}
	return m
}

// WebSite returns a minimal WebSite schema.
func WebSite(name, url string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	return m
}

// Offer returns a schema.org Offer for a promotion.
func Offer(name, description, url string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Offer",
		"name":     name,
	}
	if description != "" {
		m["description"] = description
	}
	if url != "" {
		m["url"] = url
	}
	return m
}
