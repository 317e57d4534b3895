// Package model defines the core domain models used throughout the application.
package model

import (
	"regexp"
	"time"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Industry represents a publishable business vertical.
type Industry struct {
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Tagline     string    `json:"tagline"`
	IconName    string    `json:"iconName"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
}

// Summary returns the subset of the industry used for alternate suggestions.
func (i Industry) Summary() IndustrySummary {
	return IndustrySummary{
		Slug:    i.Slug,
		Name:    i.Name,
		Tagline: i.Tagline,
	}
}

// IndustrySummary is the short form of an industry shown as an alternate match.
type IndustrySummary struct {
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	Tagline string `json:"tagline"`
}

// ValidSlug reports whether s is a lowercase, hyphen-separated URL key.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}
