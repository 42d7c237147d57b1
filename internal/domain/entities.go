package domain

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ItemKind distinguishes gallery content types
type ItemKind int

const (
	ItemKindImage ItemKind = iota
	ItemKindVideo
)

// String returns the kind name used in list rows and logs
func (k ItemKind) String() string {
	switch k {
	case ItemKindImage:
		return "image"
	case ItemKindVideo:
		return "video"
	default:
		return "unknown"
	}
}

// Item represents one piece of work in the portfolio gallery
type Item struct {
	ID          string   // Catalog key, e.g. "item-a"
	Title       string   // Display title
	Subtitle    string   // Secondary line, e.g. "3D Animation Project"
	Description []string // Paragraphs
	Tags        []string // Lower-cased, de-duplicated
	Year        int      // 0 if unknown

	// Slides for image items, relative refs already resolved
	Images []string

	// Carousel entries for video items
	Videos []Video

	Tools []Tool
	Specs []Spec
	Meta  VideoMeta
}

// Kind reports whether the item opens as a slide viewer or a video carousel
func (i Item) Kind() ItemKind {
	if len(i.Videos) > 0 {
		return ItemKindVideo
	}
	return ItemKindImage
}

// DisplayTitle falls back to the ID for untitled items
func (i Item) DisplayTitle() string {
	if strings.TrimSpace(i.Title) != "" {
		return i.Title
	}
	return i.ID
}

// SlideCount returns the number of entries the modal will cycle through
func (i Item) SlideCount() int {
	if i.Kind() == ItemKindVideo {
		return len(i.Videos)
	}
	return len(i.Images)
}

// Summary returns secondary info for list rows (e.g. "2024 · 4 images")
func (i Item) Summary() string {
	var parts []string
	if i.Year > 0 {
		parts = append(parts, fmt.Sprintf("%d", i.Year))
	}
	n := i.SlideCount()
	noun := i.Kind().String()
	if n != 1 {
		noun += "s"
	}
	parts = append(parts, fmt.Sprintf("%d %s", n, noun))
	return strings.Join(parts, " · ")
}

// HasTag reports whether the item carries the given tag (case-insensitive)
func (i Item) HasTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Tool is software used to produce an item
type Tool struct {
	Name string
	Icon string // Optional icon ref; empty means use the fallback letter
}

// FallbackLetter returns the upper-cased first rune of the name, or "?"
func (t Tool) FallbackLetter() string {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r))
}

// Spec is a label/value pair shown in the specs grid
type Spec struct {
	Label string
	Value string
}

// Video is a single entry in a video item's carousel
type Video struct {
	ID    string // YouTube video id
	Title string
}

// WatchURL returns the URL handed to the external player
func (v Video) WatchURL() string {
	q := url.Values{}
	q.Set("v", v.ID)
	return "https://www.youtube.com/watch?" + q.Encode()
}

// DisplayTitle falls back to "Video" when untitled
func (v Video) DisplayTitle() string {
	if v.Title == "" {
		return "Video"
	}
	return v.Title
}

// VideoMeta holds platform details shown for video items
type VideoMeta struct {
	Platform string
	Quality  string
}

// PlatformOrDefault returns the platform, defaulting to YouTube
func (m VideoMeta) PlatformOrDefault() string {
	if m.Platform == "" {
		return "YouTube"
	}
	return m.Platform
}

// QualityOrDefault returns the quality, defaulting to HD
func (m VideoMeta) QualityOrDefault() string {
	if m.Quality == "" {
		return "HD"
	}
	return m.Quality
}
