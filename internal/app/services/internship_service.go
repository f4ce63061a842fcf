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
	"github.com/mertdogan/internhub/internal/pkg/helpers"
)

// InternshipService handles internship listings and their department mapping.
type InternshipService struct {
	unit *db.Unit
}

// NewInternshipService creates an internship service bound to the given unit
// of work.
func NewInternshipService(unit *db.Unit) *InternshipService {
	return &InternshipService{unit: unit}
}

// Exists reports whether an internship with this id exists.
func (s *InternshipService) Exists(ctx context.Context, id int64) (bool, error) {
	return existsByID(ctx, s.unit, "internship", "id", id)
}

// listingQuery builds the joined/aggregated select behind every listing read:
// internship joined to site, company, city, worktype and duration, department
// names gathered into a deduplicated array with NULLs removed, and the view
// count as a subselect.
func listingQuery() squirrel.SelectBuilder {
	return psql.Select(
		"i.id", "i.title", "i.description", "i.salary", "i.application_end",
		"i.minimum_year", "i.site_id", "i.worktype_id", "i.duration_id",
		"i.document_path", "i.click_counter", "i.created_at",
		"c.id AS company_id", "c.name AS company_name", "c.logo_path",
		"s.address", "s.postal_code", "ct.name AS city",
		"w.name AS worktype", "dur.name AS duration",
		"array_remove(array_agg(DISTINCT d.name), NULL) AS category",
		"(SELECT COUNT(*) FROM viewed_internships v WHERE v.internship_id = i.id) AS views",
	).
		From("internship i").
		Join("site s ON s.id = i.site_id").
		Join("company c ON c.id = s.company_id").
		Join("city ct ON ct.id = s.city_id").
		Join("worktype w ON w.id = i.worktype_id").
		Join("internship_duration dur ON dur.id = i.duration_id").
		LeftJoin("internship_department_map m ON m.internship_id = i.id").
		LeftJoin("department d ON d.id = m.department_id").
		GroupBy(
			"i.id", "i.title", "i.description", "i.salary", "i.application_end",
			"i.minimum_year", "i.site_id", "i.worktype_id", "i.duration_id",
			"i.document_path", "i.click_counter", "i.created_at",
			"c.id", "c.name", "c.logo_path",
			"s.address", "s.postal_code", "ct.name", "w.name", "dur.name",
		)
}

func (s *InternshipService) queryListings(ctx context.Context, query squirrel.SelectBuilder) ([]*models.InternshipListing, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := s.unit.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*models.InternshipListing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return listings, nil
}

func scanListing(row pgx.Row) (*models.InternshipListing, error) {
	var listing models.InternshipListing
	err := row.Scan(
		&listing.ID,
		&listing.Title,
		&listing.Description,
		&listing.Salary,
		&listing.ApplicationEnd,
		&listing.MinimumYear,
		&listing.SiteID,
		&listing.WorktypeID,
		&listing.DurationID,
		&listing.DocumentPath,
		&listing.ClickCounter,
		&listing.CreatedAt,
		&listing.CompanyID,
		&listing.CompanyName,
		&listing.CompanyLogo,
		&listing.SiteAddress,
		&listing.PostalCode,
		&listing.City,
		&listing.Worktype,
		&listing.Duration,
		&listing.Category,
		&listing.Views,
	)
	if err != nil {
		return nil, err
	}
	if listing.Category == nil {
		listing.Category = []string{}
	}
	return &listing, nil
}

// Count counts internships, optionally only those whose application deadline
// has not passed.
func (s *InternshipService) Count(ctx context.Context, currentOnly bool) (int64, error) {
	query := psql.Select("COUNT(*)").From("internship")
	if currentOnly {
		query = query.Where("application_end >= CURRENT_DATE")
	}
	return countRows(ctx, s.unit, query)
}

// GetAll retrieves a page of internships in listing shape, newest first. A
// non-positive limit returns them all.
func (s *InternshipService) GetAll(ctx context.Context, offset uint64, limit int) ([]*models.InternshipListing, error) {
	query := paginate(listingQuery().OrderBy("i.created_at DESC"), offset, limit)
	return s.queryListings(ctx, query)
}

// GetAllCurrent retrieves a page of internships whose application deadline
// has not passed yet. Today still counts.
func (s *InternshipService) GetAllCurrent(ctx context.Context, offset uint64, limit int) ([]*models.InternshipListing, error) {
	query := paginate(listingQuery().
		Where("i.application_end >= CURRENT_DATE").
		OrderBy("i.application_end ASC"), offset, limit)
	return s.queryListings(ctx, query)
}

// GetByID retrieves one internship in listing shape.
func (s *InternshipService) GetByID(ctx context.Context, id int64) (*models.InternshipListing, error) {
	query := listingQuery().Where(squirrel.Eq{"i.id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	listing, err := scanListing(s.unit.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInternshipNotFound
		}
		return nil, fmt.Errorf("error retrieving internship: %w", err)
	}

	return listing, nil
}

// Create inserts a new internship after verifying the referenced site,
// worktype and duration exist, then maps its departments. All inside the
// unit's transaction, so a bad department id discards the whole insert.
func (s *InternshipService) Create(ctx context.Context, internship *models.Internship, departmentIDs []int64) (int64, error) {
	if err := s.checkReferences(ctx, internship); err != nil {
		return 0, err
	}

	query := psql.Insert("internship").
		Columns("title", "description", "salary", "application_end", "minimum_year",
			"site_id", "worktype_id", "duration_id").
		Values(internship.Title, internship.Description, internship.Salary,
			internship.ApplicationEnd, internship.MinimumYear,
			internship.SiteID, internship.WorktypeID, internship.DurationID).
		Suffix("RETURNING id")

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := s.unit.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error creating internship: %w", err)
	}

	if err := s.replaceDepartments(ctx, id, departmentIDs); err != nil {
		return 0, err
	}

	return id, nil
}

// Update rewrites an internship and its department mapping.
func (s *InternshipService) Update(ctx context.Context, internship *models.Internship, departmentIDs []int64) error {
	if err := s.checkReferences(ctx, internship); err != nil {
		return err
	}

	query := psql.Update("internship").
		Set("title", internship.Title).
		Set("description", internship.Description).
		Set("salary", internship.Salary).
		Set("application_end", internship.ApplicationEnd).
		Set("minimum_year", internship.MinimumYear).
		Set("site_id", internship.SiteID).
		Set("worktype_id", internship.WorktypeID).
		Set("duration_id", internship.DurationID).
		Where(squirrel.Eq{"id": internship.ID})

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := s.unit.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating internship: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInternshipNotFound
	}

	clearSQL, args, err := psql.Delete("internship_department_map").
		Where(squirrel.Eq{"internship_id": internship.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if _, err := s.unit.Exec(ctx, clearSQL, args...); err != nil {
		return fmt.Errorf("error clearing department mapping: %w", err)
	}

	return s.replaceDepartments(ctx, internship.ID, departmentIDs)
}

// checkReferences validates the foreign keys an internship names. Creation
// must be rejected when any referenced id does not exist.
func (s *InternshipService) checkReferences(ctx context.Context, internship *models.Internship) error {
	checks := []struct {
		table string
		id    int64
	}{
		{"site", internship.SiteID},
		{"worktype", internship.WorktypeID},
		{"internship_duration", internship.DurationID},
	}

	for _, check := range checks {
		exists, err := existsByID(ctx, s.unit, check.table, "id", check.id)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %s %d", apperrors.ErrInvalidReference, check.table, check.id)
		}
	}

	return nil
}

func (s *InternshipService) replaceDepartments(ctx context.Context, internshipID int64, departmentIDs []int64) error {
	if len(departmentIDs) == 0 {
		return nil
	}

	insert := psql.Insert("internship_department_map").
		Columns("internship_id", "department_id")
	for _, departmentID := range departmentIDs {
		insert = insert.Values(internshipID, departmentID)
	}
	// The composite primary key absorbs duplicate ids in the request.
	insert = insert.Suffix("ON CONFLICT (internship_id, department_id) DO NOTHING")

	sql, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := s.unit.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: department", apperrors.ErrInvalidReference)
		}
		return fmt.Errorf("error mapping departments: %w", err)
	}

	return nil
}

// SetDocumentPath stores the path of an uploaded internship PDF. An empty
// path clears the column.
func (s *InternshipService) SetDocumentPath(ctx context.Context, id int64, path string) error {
	sql, args, err := psql.Update("internship").
		Set("document_path", helpers.GetContentNullString(path)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := s.unit.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating internship document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInternshipNotFound
	}

	return nil
}

// IncrementClickCounter bumps the internship's click counter.
func (s *InternshipService) IncrementClickCounter(ctx context.Context, id int64) error {
	sql, args, err := psql.Update("internship").
		Set("click_counter", squirrel.Expr("click_counter + 1")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := s.unit.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error incrementing click counter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInternshipNotFound
	}

	return nil
}

// Delete removes an internship after checking it exists. The department
// mapping and tracking rows cascade.
func (s *InternshipService) Delete(ctx context.Context, id int64) error {
	exists, err := s.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrInternshipNotFound
	}

	sql, args, err := psql.Delete("internship").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := s.unit.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting internship: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInternshipNotFound
	}

	return nil
}

// OwnedByCompany reports whether the internship's site belongs to the given
// company. Used for company-scoped mutations.
func (s *InternshipService) OwnedByCompany(ctx context.Context, internshipID, companyID int64) (bool, error) {
	query := psql.Select("COUNT(*)").
		From("internship i").
		Join("site s ON s.id = i.site_id").
		Where(squirrel.Eq{"i.id": internshipID, "s.company_id": companyID})

	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	var count int64
	if err := s.unit.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("error checking internship ownership: %w", err)
	}

	return count == 1, nil
}
