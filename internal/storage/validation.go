package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrInvalidSlug     = errors.New("invalid slug")
	ErrInvalidIndustry = errors.New("invalid industry")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateSlug ensures a slug is a lowercase hyphenated key.
func validateSlug(slug string) error {
	if !model.ValidSlug(slug) {
		return fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}
	return nil
}

// validateIndustry validates an industry before it is written.
func validateIndustry(industry *model.Industry) error {
	if industry == nil {
		return fmt.Errorf("%w: industry", ErrNilParameter)
	}
	if err := validateSlug(industry.Slug); err != nil {
		return err
	}
	if strings.TrimSpace(industry.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidIndustry)
	}
	return nil
}
