package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/mertdogan/internhub/internal/app/models"
	"github.com/mertdogan/internhub/internal/db"
	"github.com/mertdogan/internhub/internal/pkg/apperrors"
	"github.com/mertdogan/internhub/internal/pkg/dberrors"
	"github.com/mertdogan/internhub/internal/pkg/helpers"
	"github.com/mertdogan/internhub/internal/pkg/validation"
)

// CompanyService handles company rows.
type CompanyService struct {
	unit *db.Unit
}

// NewCompanyService creates a company service bound to the given unit of work.
func NewCompanyService(unit *db.Unit) *CompanyService {
	return &CompanyService{unit: unit}
}

const companyColumns = "id, name, email, phone, password_hash, email_verified, email_verified_at, admin_verified, admin_verified_at, logo_path, created_at"

// Exists reports whether a company with this id exists.
func (s *CompanyService) Exists(ctx context.Context, id int64) (bool, error) {
	return existsByID(ctx, s.unit, "company", "id", id)
}

// validateCompany checks the fields gin binding tags cannot express: the name
// length bounds and the phone number format. Phone is optional.
func validateCompany(company *models.Company) error {
	if !validation.NewStringValidation(company.Name).
		WithMinLength(validation.NameMinLength).
		WithMaxLength(validation.NameMaxLength).
		Validate() {
		return fmt.Errorf("%w: name", apperrors.ErrValidationFailed)
	}
	if !validation.NewStringValidation(company.Phone).
		WithRequired(false).
		WithPattern(validation.CompiledPatterns.Phone).
		Validate() {
		return fmt.Errorf("%w: phone", apperrors.ErrValidationFailed)
	}
	return nil
}

// Create inserts a new company and returns its id. The password must already
// be hashed by the caller.
func (s *CompanyService) Create(ctx context.Context, company *models.Company) (int64, error) {
	if err := validateCompany(company); err != nil {
		return 0, err
	}

	query := psql.Insert("company").
		Columns("name", "email", "phone", "password_hash").
		Values(company.Name, company.Email, company.Phone, company.PasswordHash).
		Suffix("RETURNING id")

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := s.unit.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrCompanyAlreadyExists
		}
		return 0, fmt.Errorf("error creating company: %w", err)
	}

	return id, nil
}

// GetByID retrieves a company by id.
func (s *CompanyService) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	return s.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a company by email.
func (s *CompanyService) GetByEmail(ctx context.Context, email string) (*models.Company, error) {
	return s.getOne(ctx, squirrel.Eq{"email": email})
}

func (s *CompanyService) getOne(ctx context.Context, where squirrel.Eq) (*models.Company, error) {
	query := psql.Select(companyColumns).From("company").Where(where)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var company models.Company
	err = s.unit.QueryRow(ctx, sql, args...).Scan(
		&company.ID,
		&company.Name,
		&company.Email,
		&company.Phone,
		&company.PasswordHash,
		&company.EmailVerified,
		&company.EmailVerifiedAt,
		&company.AdminVerified,
		&company.AdminVerifiedAt,
		&company.LogoPath,
		&company.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("error retrieving company: %w", err)
	}

	return &company, nil
}

// Count counts all companies.
func (s *CompanyService) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, s.unit, psql.Select("COUNT(*)").From("company"))
}

// GetAll retrieves a page of companies ordered by name. A non-positive limit
// returns them all.
func (s *CompanyService) GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Company, error) {
	query := paginate(psql.Select(companyColumns).From("company").OrderBy("name"), offset, limit)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := s.unit.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		var company models.Company
		if err := rows.Scan(
			&company.ID,
			&company.Name,
			&company.Email,
			&company.Phone,
			&company.PasswordHash,
			&company.EmailVerified,
			&company.EmailVerifiedAt,
			&company.AdminVerified,
			&company.AdminVerifiedAt,
			&company.LogoPath,
			&company.CreatedAt,
		); err != nil {
			return nil, err
		}
		companies = append(companies, &company)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return companies, nil
}

// Update changes the company's contact fields.
func (s *CompanyService) Update(ctx context.Context, company *models.Company) error {
	if err := validateCompany(company); err != nil {
		return err
	}

	query := psql.Update("company").
		Set("name", company.Name).
		Set("email", company.Email).
		Set("phone", company.Phone).
		Where(squirrel.Eq{"id": company.ID})

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := s.unit.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrCompanyAlreadyExists
		}
		return fmt.Errorf("error updating company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCompanyNotFound
	}

	return nil
}

// SetEmailVerified marks the company's email as verified now.
func (s *CompanyService) SetEmailVerified(ctx context.Context, id int64) error {
	company, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if company.EmailVerified {
		return apperrors.ErrEmailAlreadyVerified
	}

	return s.setVerification(ctx, id, "email_verified", "email_verified_at")
}

// SetAdminVerified marks the company as verified by an administrator. Admin
// verification requires a verified email first.
func (s *CompanyService) SetAdminVerified(ctx context.Context, id int64) error {
	company, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !company.EmailVerified {
		return apperrors.ErrEmailNotVerified
	}

	return s.setVerification(ctx, id, "admin_verified", "admin_verified_at")
}

func (s *CompanyService) setVerification(ctx context.Context, id int64, flagColumn, atColumn string) error {
	query := psql.Update("company").
		Set(flagColumn, true).
		Set(atColumn, time.Now()).
		Where(squirrel.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := s.unit.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating company verification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCompanyNotFound
	}

	return nil
}

// SetLogoPath stores the path of an uploaded company logo. An empty path
// clears the column.
func (s *CompanyService) SetLogoPath(ctx context.Context, id int64, path string) error {
	sql, args, err := psql.Update("company").
		Set("logo_path", helpers.GetContentNullString(path)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := s.unit.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating company logo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCompanyNotFound
	}

	return nil
}

// Delete removes a company after checking it exists. Sites and internships
// hanging off the company go with it via cascading foreign keys.
func (s *CompanyService) Delete(ctx context.Context, id int64) error {
	exists, err := s.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrCompanyNotFound
	}

	sql, args, err := psql.Delete("company").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := s.unit.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCompanyNotFound
	}

	return nil
}
