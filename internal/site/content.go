// Package site loads the static copy of the landing page.
package site

import (
	"html/template"

	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/menu"
)

// Content is the full, validated page copy. It is built once at startup and
// shared read-only by every request.
type Content struct {
	Company     Company
	Hero        Hero
	Services    Services
	About       About
	Reviews     Reviews
	Promotions  Promotions
	Maintenance Maintenance
	Areas       Areas
	CTA         CTA
	Footer      Footer
	Nav         *menu.Tree
}

// Company holds business identity and contact details.
type Company struct {
	Name        string `yaml:"name"`
	Badge       string `yaml:"badge"`
	Founded     int    `yaml:"founded"`
	Phone       string `yaml:"phone"`
	Hours       string `yaml:"hours"`
	Emergency   string `yaml:"emergency"`
	Address     string `yaml:"address"`
	License     string `yaml:"license"`
	LogoURL     string `yaml:"logo_url"`
	Description string `yaml:"description"`
	BookingHref string `yaml:"booking_href"`
}

// Action is a call-to-action button.
type Action struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

// Rating is the summary shown on the hero card.
type Rating struct {
	Score  string `yaml:"score"`
	Detail string `yaml:"detail"`
}

type Hero struct {
	Title           string `yaml:"title"`
	Subtitle        string `yaml:"subtitle"`
	BackgroundURL   string `yaml:"background_url"`
	ImageURL        string `yaml:"image_url"`
	ImageAlt        string `yaml:"image_alt"`
	Rating          Rating `yaml:"rating"`
	PrimaryCTA      Action `yaml:"primary_cta"`
	SecondaryCTA    Action `yaml:"secondary_cta"`
	CredentialTitle string `yaml:"credential_title"`
}

type Service struct {
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

type Services struct {
	Title string    `yaml:"title"`
	Intro string    `yaml:"intro"`
	Items []Service `yaml:"items"`
}

type Certification struct {
	ImageURL string `yaml:"image_url"`
	ImageAlt string `yaml:"image_alt"`
	Title    string `yaml:"title"`
	Note     string `yaml:"note"`
}

// About carries markdown copy; BodyHTML is the sanitised rendering of Body.
type About struct {
	Title         string        `yaml:"title"`
	Subtitle      string        `yaml:"subtitle"`
	Body          string        `yaml:"body"`
	Certification Certification `yaml:"certification"`
	TeamImageURL  string        `yaml:"team_image_url"`
	TeamImageAlt  string        `yaml:"team_image_alt"`

	BodyHTML template.HTML `yaml:"-"`
}

type Review struct {
	Name   string `yaml:"name"`
	Text   string `yaml:"text"`
	Rating int    `yaml:"rating"`
}

type Reviews struct {
	Title string   `yaml:"title"`
	Intro string   `yaml:"intro"`
	Items []Review `yaml:"items"`
	Links []Action `yaml:"links"`
}

// Discount is a percentage promotion capped at CapCents.
type Discount struct {
	Eyebrow  string `yaml:"eyebrow"`
	Title    string `yaml:"title"`
	Percent  int    `yaml:"percent"`
	CapCents int64  `yaml:"cap_cents"`
	Terms    string `yaml:"terms"`
	CTA      Action `yaml:"cta"`
}

type Partner struct {
	Name    string `yaml:"name"`
	LogoURL string `yaml:"logo_url"`
}

type Financing struct {
	Eyebrow  string    `yaml:"eyebrow"`
	Title    string    `yaml:"title"`
	Body     string    `yaml:"body"`
	Partners []Partner `yaml:"partners"`
	CTA      Action    `yaml:"cta"`
}

type Promotions struct {
	Discount  Discount  `yaml:"discount"`
	Financing Financing `yaml:"financing"`
}

type Maintenance struct {
	Title          string   `yaml:"title"`
	Intro          string   `yaml:"intro"`
	BenefitsTitle  string   `yaml:"benefits_title"`
	Benefits       []string `yaml:"benefits"`
	CTA            Action   `yaml:"cta"`
	ChecklistTitle string   `yaml:"checklist_title"`
	Checklist      []string `yaml:"checklist"`
}

type Areas struct {
	Title    string   `yaml:"title"`
	Intro    string   `yaml:"intro"`
	Heading  string   `yaml:"heading"`
	Cities   []string `yaml:"cities"`
	Note     string   `yaml:"note"`
	MapURL   string   `yaml:"map_url"`
	MapTitle string   `yaml:"map_title"`
}

type CTA struct {
	Title     string `yaml:"title"`
	Body      string `yaml:"body"`
	Primary   Action `yaml:"primary"`
	Secondary Action `yaml:"secondary"`
}

type Social struct {
	Name string `yaml:"name"`
	Href string `yaml:"href"`
}

type Footer struct {
	Socials    []Social `yaml:"socials"`
	QuickLinks []Action `yaml:"quick_links"`
}

// navItem mirrors menu.Item in the YAML file.
type navItem struct {
	ID         string        `yaml:"id"`
	Label      string        `yaml:"label"`
	Href       string        `yaml:"href"`
	Kind       string        `yaml:"kind"`
	Categories []navCategory `yaml:"categories"`
	Links      []navLink     `yaml:"links"`
}

type navCategory struct {
	Name  string    `yaml:"name"`
	Links []navLink `yaml:"links"`
}

type navLink struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

type contentFile struct {
	Company     Company     `yaml:"company"`
	Hero        Hero        `yaml:"hero"`
	Services    Services    `yaml:"services"`
	About       About       `yaml:"about"`
	Reviews     Reviews     `yaml:"reviews"`
	Promotions  Promotions  `yaml:"promotions"`
	Maintenance Maintenance `yaml:"maintenance"`
	Areas       Areas       `yaml:"areas"`
	CTA         CTA         `yaml:"cta"`
	Footer      Footer      `yaml:"footer"`
	Navigation  []navItem   `yaml:"navigation"`
}
