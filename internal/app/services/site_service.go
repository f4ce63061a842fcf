package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/mertdogan/internhub/internal/app/models"
	"github.com/mertdogan/internhub/internal/db"
	"github.com/mertdogan/internhub/internal/pkg/apperrors"
	"github.com/mertdogan/internhub/internal/pkg/dberrors"
	"github.com/mertdogan/internhub/internal/pkg/validation"
)

// SiteService handles company location rows.
type SiteService struct {
	unit *db.Unit
}

// NewSiteService creates a site service bound to the given unit of work.
func NewSiteService(unit *db.Unit) *SiteService {
	return &SiteService{unit: unit}
}

// Exists reports whether a site with this id exists.
func (s *SiteService) Exists(ctx context.Context, id int64) (bool, error) {
	return existsByID(ctx, s.unit, "site", "id", id)
}

// validateSite checks the fields gin binding tags cannot express: the postal
// code format and the address length bounds.
func validateSite(site *models.Site) error {
	if !validation.NewStringValidation(site.Address).
		WithMinLength(validation.NameMinLength).
		WithMaxLength(validation.NameMaxLength).
		Validate() {
		return fmt.Errorf("%w: address", apperrors.ErrValidationFailed)
	}
	if !validation.CompiledPatterns.PostalCode.MatchString(site.PostalCode) {
		return fmt.Errorf("%w: postal code must be 5 digits", apperrors.ErrValidationFailed)
	}
	return nil
}

// Create inserts a new site and returns its id. The referenced company and
// city must exist.
func (s *SiteService) Create(ctx context.Context, site *models.Site) (int64, error) {
	if err := validateSite(site); err != nil {
		return 0, err
	}

	query := psql.Insert("site").
		Columns("address", "postal_code", "city_id", "company_id").
		Values(site.Address, site.PostalCode, site.CityID, site.CompanyID).
		Suffix("RETURNING id")

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := s.unit.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrInvalidReference
		}
		return 0, fmt.Errorf("error creating site: %w", err)
	}

	return id, nil
}

// GetByID retrieves a site by id.
func (s *SiteService) GetByID(ctx context.Context, id int64) (*models.Site, error) {
	query := psql.Select("id", "address", "postal_code", "city_id", "company_id").
		From("site").
		Where(squirrel.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var site models.Site
	err = s.unit.QueryRow(ctx, sql, args...).Scan(
		&site.ID,
		&site.Address,
		&site.PostalCode,
		&site.CityID,
		&site.CompanyID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSiteNotFound
		}
		return nil, fmt.Errorf("error retrieving site: %w", err)
	}

	return &site, nil
}

// GetByCompany retrieves all sites of a company.
func (s *SiteService) GetByCompany(ctx context.Context, companyID int64) ([]*models.Site, error) {
	query := psql.Select("id", "address", "postal_code", "city_id", "company_id").
		From("site").
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("id")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := s.unit.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sites []*models.Site
	for rows.Next() {
		var site models.Site
		if err := rows.Scan(
			&site.ID,
			&site.Address,
			&site.PostalCode,
			&site.CityID,
			&site.CompanyID,
		); err != nil {
			return nil, err
		}
		sites = append(sites, &site)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sites, nil
}

// Update changes a site's address fields.
func (s *SiteService) Update(ctx context.Context, site *models.Site) error {
	if err := validateSite(site); err != nil {
		return err
	}

	query := psql.Update("site").
		Set("address", site.Address).
		Set("postal_code", site.PostalCode).
		Set("city_id", site.CityID).
		Where(squirrel.Eq{"id": site.ID})

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := s.unit.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrInvalidReference
		}
		return fmt.Errorf("error updating site: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSiteNotFound
	}

	return nil
}

// Delete removes a site after checking it exists.
func (s *SiteService) Delete(ctx context.Context, id int64) error {
	exists, err := s.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrSiteNotFound
	}

	sql, args, err := psql.Delete("site").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := s.unit.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting site: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSiteNotFound
	}

	return nil
}
