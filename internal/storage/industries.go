package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/common"
	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/model"
)

const industryColumns = `id, slug, name, tagline, icon_name, description, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIndustry(row rowScanner) (model.Industry, error) {
	var ind model.Industry
	err := row.Scan(
		&ind.ID, &ind.Slug, &ind.Name, &ind.Tagline, &ind.IconName,
		&ind.Description, &ind.IsActive, &ind.CreatedAt, &ind.UpdatedAt,
	)
	return ind, err
}

// ListActiveIndustries returns all active industries ordered by name.
func (s *SQLStorage) ListActiveIndustries(ctx context.Context) ([]model.Industry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := s.rebind(`
		SELECT ` + industryColumns + `
		FROM industries
		WHERE is_active = ?
		ORDER BY name`)

	industries, err := s.queryIndustries(ctx, query, true)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("retrieved active industries", zap.Int("count", len(industries)))
	return industries, nil
}

// ListIndustries returns every industry, active or not, ordered by name.
func (s *SQLStorage) ListIndustries(ctx context.Context) ([]model.Industry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	return s.queryIndustries(ctx, `
		SELECT `+industryColumns+`
		FROM industries
		ORDER BY name`)
}

func (s *SQLStorage) queryIndustries(ctx context.Context, query string, args ...any) ([]model.Industry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query industries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	industries := make([]model.Industry, 0)
	for rows.Next() {
		ind, scanErr := scanIndustry(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan industry: %w", scanErr)
		}
		industries = append(industries, ind)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating industries: %w", err)
	}

	return industries, nil
}

// GetIndustryBySlug returns the industry with the given slug, active or not.
func (s *SQLStorage) GetIndustryBySlug(ctx context.Context, slug string) (*model.Industry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(slug, "slug"); err != nil {
		return nil, err
	}

	query := s.rebind(`
		SELECT ` + industryColumns + `
		FROM industries
		WHERE slug = ?`)

	ind, err := scanIndustry(s.db.QueryRowContext(ctx, query, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("industry %q: %w", slug, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query industry: %w", err)
	}

	return &ind, nil
}

// GetIndustriesBySlugs returns summaries of the active industries among slugs.
// Unknown and inactive slugs are omitted; the result order is unspecified.
func (s *SQLStorage) GetIndustriesBySlugs(ctx context.Context, slugs []string) ([]model.IndustrySummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if len(slugs) == 0 {
		return []model.IndustrySummary{}, nil
	}

	query := s.rebind(`
		SELECT slug, name, tagline
		FROM industries
		WHERE is_active = ? AND slug IN (` + placeholders(len(slugs)) + `)`)

	args := make([]any, 0, len(slugs)+1)
	args = append(args, true)
	for _, slug := range slugs {
		args = append(args, slug)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query industries by slug: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summaries := make([]model.IndustrySummary, 0, len(slugs))
	for rows.Next() {
		var sum model.IndustrySummary
		if scanErr := rows.Scan(&sum.Slug, &sum.Name, &sum.Tagline); scanErr != nil {
			return nil, fmt.Errorf("failed to scan industry summary: %w", scanErr)
		}
		summaries = append(summaries, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating industry summaries: %w", err)
	}

	return summaries, nil
}

// CreateIndustry inserts a new industry. ID and timestamps are assigned when empty.
func (s *SQLStorage) CreateIndustry(ctx context.Context, industry *model.Industry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateIndustry(industry); err != nil {
		return err
	}

	if industry.ID == "" {
		industry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if industry.CreatedAt.IsZero() {
		industry.CreatedAt = now
	}
	industry.UpdatedAt = now

	query := s.rebind(`
		INSERT INTO industries (` + industryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := s.db.ExecContext(ctx, query,
		industry.ID, industry.Slug, industry.Name, industry.Tagline, industry.IconName,
		industry.Description, industry.IsActive, industry.CreatedAt, industry.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("industry %q: %w", industry.Slug, common.ErrDuplicateEntry)
	}
	if err != nil {
		return fmt.Errorf("failed to create industry: %w", err)
	}

	zap.L().Info("created industry", zap.String("slug", industry.Slug), zap.String("id", industry.ID))
	return nil
}

// UpdateIndustry overwrites the descriptive fields and active flag of the industry
// identified by its slug.
func (s *SQLStorage) UpdateIndustry(ctx context.Context, industry *model.Industry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateIndustry(industry); err != nil {
		return err
	}

	industry.UpdatedAt = time.Now().UTC()

	query := s.rebind(`
		UPDATE industries
		SET name = ?, tagline = ?, icon_name = ?, description = ?, is_active = ?, updated_at = ?
		WHERE slug = ?`)

	result, err := s.db.ExecContext(ctx, query,
		industry.Name, industry.Tagline, industry.IconName, industry.Description,
		industry.IsActive, industry.UpdatedAt, industry.Slug,
	)
	if err != nil {
		return fmt.Errorf("failed to update industry: %w", err)
	}

	return requireAffected(result, industry.Slug)
}

// UpsertIndustry creates the industry or updates the existing row with the same slug.
// It reports whether a new row was created.
func (s *SQLStorage) UpsertIndustry(ctx context.Context, industry *model.Industry) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateIndustry(industry); err != nil {
		return false, err
	}

	existing, err := s.GetIndustryBySlug(ctx, industry.Slug)
	switch {
	case errors.Is(err, common.ErrNotFound):
		if createErr := s.CreateIndustry(ctx, industry); createErr != nil {
			return false, createErr
		}
		return true, nil
	case err != nil:
		return false, err
	}

	industry.ID = existing.ID
	industry.CreatedAt = existing.CreatedAt
	if updateErr := s.UpdateIndustry(ctx, industry); updateErr != nil {
		return false, updateErr
	}
	return false, nil
}

// SetIndustryActive activates or deactivates the industry with the given slug.
func (s *SQLStorage) SetIndustryActive(ctx context.Context, slug string, active bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(slug, "slug"); err != nil {
		return err
	}

	query := s.rebind(`UPDATE industries SET is_active = ?, updated_at = ? WHERE slug = ?`)
	result, err := s.db.ExecContext(ctx, query, active, time.Now().UTC(), slug)
	if err != nil {
		return fmt.Errorf("failed to update industry status: %w", err)
	}

	if err := requireAffected(result, slug); err != nil {
		return err
	}

	zap.L().Info("updated industry status", zap.String("slug", slug), zap.Bool("active", active))
	return nil
}

func requireAffected(result sql.Result, slug string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("industry %q: %w", slug, common.ErrNotFound)
	}
	return nil
}
