// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds sitemap.xml and robots.txt for the public site.
package seo

import (
	"encoding/xml"
	"strings"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Change frequencies used by the site.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// Section is a fixed public page such as /courses or /gallery.
type Section struct {
	Path       string
	ChangeFreq ChangeFreq
	Priority   string
}

// DefaultSections lists the public listing pages.
var DefaultSections = []Section{
	{Path: "/courses", ChangeFreq: ChangeFreqWeekly, Priority: "0.9"},
	{Path: "/gallery", ChangeFreq: ChangeFreqMonthly, Priority: "0.6"},
	{Path: "/feedback", ChangeFreq: ChangeFreqWeekly, Priority: "0.6"},
	{Path: "/contact", ChangeFreq: ChangeFreqMonthly, Priority: "0.7"},
}

// SitemapCourse is a course detail page.
type SitemapCourse struct {
	Key       string
	UpdatedAt time.Time
}

// SitemapBuilder accumulates sitemap entries.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder. Trailing slashes on
// siteURL are ignored.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: strings.TrimRight(siteURL, "/"),
		urls:    make([]SitemapURL, 0),
	}
}

// AddHomepage adds the homepage to the sitemap.
func (b *SitemapBuilder) AddHomepage() {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/",
		ChangeFreq: ChangeFreqDaily,
		Priority:   "1.0",
	})
}

// AddSections adds fixed public pages.
func (b *SitemapBuilder) AddSections(sections []Section) {
	for _, s := range sections {
		b.urls = append(b.urls, SitemapURL{
			Loc:        b.siteURL + s.Path,
			ChangeFreq: s.ChangeFreq,
			Priority:   s.Priority,
		})
	}
}

// AddCourse adds a course detail page.
func (b *SitemapBuilder) AddCourse(course SitemapCourse) {
	url := SitemapURL{
		Loc:        b.siteURL + "/courses/" + course.Key,
		ChangeFreq: ChangeFreqMonthly,
		Priority:   "0.8",
	}
	if !course.UpdatedAt.IsZero() {
		url.LastMod = course.UpdatedAt.UTC().Format(time.RFC3339)
	}
	b.urls = append(b.urls, url)
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}

// GenerateSitemap builds the sitemap for the homepage, the default
// sections and every course.
func GenerateSitemap(siteURL string, courses []SitemapCourse) ([]byte, error) {
	builder := NewSitemapBuilder(siteURL)
	builder.AddHomepage()
	builder.AddSections(DefaultSections)
	for _, c := range courses {
		builder.AddCourse(c)
	}
	return builder.Build()
}
