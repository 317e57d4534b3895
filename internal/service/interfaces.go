// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/model"
)

// Catalog is the read side of the industry system of record used by the matcher.
type Catalog interface {
	// ListActiveIndustries returns every active industry ordered by name.
	ListActiveIndustries(ctx context.Context) ([]model.Industry, error)
	// GetIndustryBySlug returns the full industry record, active or not.
	// It returns common.ErrNotFound when no row has the slug.
	GetIndustryBySlug(ctx context.Context, slug string) (*model.Industry, error)
	// GetIndustriesBySlugs returns summaries of the active industries among slugs, in no
	// particular order.
	GetIndustriesBySlugs(ctx context.Context, slugs []string) ([]model.IndustrySummary, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	Catalog

	// Industry administration
	ListIndustries(ctx context.Context) ([]model.Industry, error)
	CreateIndustry(ctx context.Context, industry *model.Industry) error
	UpdateIndustry(ctx context.Context, industry *model.Industry) error
	UpsertIndustry(ctx context.Context, industry *model.Industry) (bool, error)
	SetIndustryActive(ctx context.Context, slug string, active bool) error

	// Database management
	Migrate(ctx context.Context) error
	SchemaVersion(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
	Close() error
}
