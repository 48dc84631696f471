// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
)

// Course levels shown as badges.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

// CourseDoc is the typed form of a courses document.
type CourseDoc struct {
	Key              string `json:"key"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Duration         string `json:"duration"`
	Category         string `json:"category"`
	Level            string `json:"level,omitempty"`
	Overview         string `json:"overview,omitempty"`
	LearningOutcomes string `json:"learningOutcomes,omitempty"`
}

// Fields encodes the course as flat document attributes.
func (d CourseDoc) Fields() Fields {
	f := Fields{
		"title":       strings.TrimSpace(d.Title),
		"description": strings.TrimSpace(d.Description),
		"duration":    strings.TrimSpace(d.Duration),
		"category":    strings.TrimSpace(d.Category),
	}
	putOptional(f, "level", d.Level)
	putOptional(f, "overview", d.Overview)
	putOptional(f, "learningOutcomes", d.LearningOutcomes)
	return f
}

// Validate checks the fields every course must carry.
func (d CourseDoc) Validate() error {
	problems := requireFields(d.Fields(), "title", "description", "duration", "category")
	if d.Level != "" && !isKnownLevel(d.Level) {
		problems["level"] = "must be Beginner, Intermediate or Advanced"
	}
	return NewValidationError(CollectionCourses, problems)
}

// LearningOutcomeList splits the learning outcomes into one entry per line.
func (d CourseDoc) LearningOutcomeList() []string {
	return splitLines(d.LearningOutcomes)
}

// CourseFromItem decodes a courses document.
func CourseFromItem(item ContentItem) CourseDoc {
	return CourseDoc{
		Key:              item.Key,
		Title:            item.Fields.Get("title"),
		Description:      item.Fields.Get("description"),
		Duration:         item.Fields.Get("duration"),
		Category:         item.Fields.Get("category"),
		Level:            item.Fields.Get("level"),
		Overview:         item.Fields.Get("overview"),
		LearningOutcomes: item.Fields.Get("learningOutcomes"),
	}
}

func isKnownLevel(level string) bool {
	switch level {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// GalleryDoc is the typed form of a gallery document.
type GalleryDoc struct {
	Key         string `json:"key"`
	ImageURL    string `json:"imageUrl"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Fields encodes the image as flat document attributes.
func (d GalleryDoc) Fields() Fields {
	f := Fields{"imageUrl": strings.TrimSpace(d.ImageURL)}
	putOptional(f, "title", d.Title)
	putOptional(f, "description", d.Description)
	return f
}

// Validate checks that the image payload is present and is either an
// http(s) URL or an inline base64 image.
func (d GalleryDoc) Validate() error {
	problems := requireFields(d.Fields(), "imageUrl")
	if _, missing := problems["imageUrl"]; !missing && !IsImageURL(d.ImageURL) {
		problems["imageUrl"] = "must be an http(s) URL or a base64 data:image URL"
	}
	return NewValidationError(CollectionGallery, problems)
}

// IsDataURL reports whether the image is stored inline.
func (d GalleryDoc) IsDataURL() bool {
	return strings.HasPrefix(d.ImageURL, "data:")
}

// GalleryFromItem decodes a gallery document.
func GalleryFromItem(item ContentItem) GalleryDoc {
	return GalleryDoc{
		Key:         item.Key,
		ImageURL:    item.Fields.Get("imageUrl"),
		Title:       item.Fields.Get("title"),
		Description: item.Fields.Get("description"),
	}
}

// IsImageURL accepts absolute http(s) URLs and data:image/*;base64 URLs.
func IsImageURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "data:") {
		meta, payload, ok := strings.Cut(strings.TrimPrefix(raw, "data:"), ",")
		return ok && payload != "" &&
			strings.HasPrefix(meta, "image/") &&
			strings.HasSuffix(meta, ";base64")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// AboutDoc is the free-form text of the about block.
type AboutDoc struct {
	Text string `json:"text"`
}

// Fields encodes the about block.
func (d AboutDoc) Fields() Fields {
	return Fields{"text": strings.TrimSpace(d.Text)}
}

// Validate requires non-empty text.
func (d AboutDoc) Validate() error {
	return NewValidationError(CollectionSiteContent, requireFields(d.Fields(), "text"))
}

// AboutFromItem decodes the about block.
func AboutFromItem(item ContentItem) AboutDoc {
	return AboutDoc{Text: item.Fields.Get("text")}
}

// ContactDoc holds the institute contact details.
type ContactDoc struct {
	Address           string `json:"address"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	Hours             string `json:"hours"`
	AdmissionFormLink string `json:"admissionFormLink,omitempty"`
}

// Fields encodes the contact block.
func (d ContactDoc) Fields() Fields {
	f := Fields{
		"address": strings.TrimSpace(d.Address),
		"phone":   strings.TrimSpace(d.Phone),
		"email":   strings.TrimSpace(d.Email),
		"hours":   strings.TrimSpace(d.Hours),
	}
	putOptional(f, "admissionFormLink", d.AdmissionFormLink)
	return f
}

// Validate requires the address, phone, email and hours.
func (d ContactDoc) Validate() error {
	problems := requireFields(d.Fields(), "address", "phone", "email", "hours")
	if _, missing := problems["email"]; !missing {
		if _, err := mail.ParseAddress(d.Email); err != nil {
			problems["email"] = "must be a valid email address"
		}
	}
	if d.AdmissionFormLink != "" && !isHTTPURL(d.AdmissionFormLink) {
		problems["admissionFormLink"] = "must be an http(s) URL"
	}
	return NewValidationError(CollectionSiteContent, problems)
}

// ContactFromItem decodes the contact block.
func ContactFromItem(item ContentItem) ContactDoc {
	return ContactDoc{
		Address:           item.Fields.Get("address"),
		Phone:             item.Fields.Get("phone"),
		Email:             item.Fields.Get("email"),
		Hours:             item.Fields.Get("hours"),
		AdmissionFormLink: item.Fields.Get("admissionFormLink"),
	}
}

// UpdatesDoc is the list of news lines shown on the home page.
type UpdatesDoc struct {
	Items []string `json:"items"`
}

// Fields encodes the list as a JSON array under "items".
func (d UpdatesDoc) Fields() Fields {
	items := make([]string, 0, len(d.Items))
	for _, it := range d.Items {
		if it = strings.TrimSpace(it); it != "" {
			items = append(items, it)
		}
	}
	data, _ := json.Marshal(items)
	return Fields{"items": string(data)}
}

// Validate accepts any list, including an empty one.
func (d UpdatesDoc) Validate() error {
	return nil
}

// UpdatesFromItem decodes the updates block. A malformed payload
// decodes to an empty list.
func UpdatesFromItem(item ContentItem) UpdatesDoc {
	var items []string
	if raw := item.Fields.Get("items"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			items = nil
		}
	}
	if items == nil {
		items = []string{}
	}
	return UpdatesDoc{Items: items}
}

// FeedbackDoc is a visitor testimonial.
type FeedbackDoc struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Course  string `json:"course,omitempty"`
	Rating  int    `json:"rating"`
	Message string `json:"message"`
	Date    string `json:"date"`
}

// Fields encodes the testimonial.
func (d FeedbackDoc) Fields() Fields {
	f := Fields{
		"name":    strings.TrimSpace(d.Name),
		"message": strings.TrimSpace(d.Message),
		"rating":  strconv.Itoa(d.Rating),
	}
	putOptional(f, "email", d.Email)
	putOptional(f, "course", d.Course)
	putOptional(f, "date", d.Date)
	return f
}

// Validate requires a name, a message and a rating between 1 and 5.
func (d FeedbackDoc) Validate() error {
	problems := requireFields(d.Fields(), "name", "message")
	if d.Rating < 1 || d.Rating > 5 {
		problems["rating"] = "must be between 1 and 5"
	}
	if d.Email != "" {
		if _, err := mail.ParseAddress(d.Email); err != nil {
			problems["email"] = "must be a valid email address"
		}
	}
	return NewValidationError(CollectionFeedback, problems)
}

// FeedbackFromItem decodes a testimonial.
func FeedbackFromItem(item ContentItem) FeedbackDoc {
	rating, _ := strconv.Atoi(item.Fields.Get("rating"))
	return FeedbackDoc{
		Key:     item.Key,
		Name:    item.Fields.Get("name"),
		Email:   item.Fields.Get("email"),
		Course:  item.Fields.Get("course"),
		Rating:  rating,
		Message: item.Fields.Get("message"),
		Date:    item.Fields.Get("date"),
	}
}

func putOptional(f Fields, name, value string) {
	if v := strings.TrimSpace(value); v != "" {
		f[name] = v
	}
}

func requireFields(f Fields, names ...string) map[string]string {
	problems := make(map[string]string)
	for _, name := range names {
		if strings.TrimSpace(f.Get(name)) == "" {
			problems[name] = "is required"
		}
	}
	return problems
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
