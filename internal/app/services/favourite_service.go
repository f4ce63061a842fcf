package services

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/mertdogan/internhub/internal/app/models"
	"github.com/mertdogan/internhub/internal/db"
	"github.com/mertdogan/internhub/internal/pkg/apperrors"
	"github.com/mertdogan/internhub/internal/pkg/dberrors"
)

// FavouriteService handles a student's saved internships.
type FavouriteService struct {
	unit *db.Unit
}

// NewFavouriteService creates a favourite service bound to the given unit of
// work.
func NewFavouriteService(unit *db.Unit) *FavouriteService {
	return &FavouriteService{unit: unit}
}

// Exists reports whether the student already favourited the internship.
func (s *FavouriteService) Exists(ctx context.Context, studentID, internshipID int64) (bool, error) {
	query := psql.Select("COUNT(*)").
		From("favourite").
		Where(squirrel.Eq{"student_id": studentID, "internship_id": internshipID})

	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	var count int64
	if err := s.unit.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("error checking favourite existence: %w", err)
	}

	return count == 1, nil
}

// Create writes a favourite for the pair and returns the internship id it
// touched. Both referenced rows must exist; the caller validates that before
// calling. A concurrent duplicate insert is absorbed by the unique pair
// constraint and reported as success, since the desired row exists either way.
func (s *FavouriteService) Create(ctx context.Context, studentID, internshipID int64) (int64, error) {
	query := psql.Insert("favourite").
		Columns("student_id", "internship_id").
		Values(studentID, internshipID).
		Suffix("ON CONFLICT (student_id, internship_id) DO NOTHING")

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := s.unit.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrInvalidReference
		}
		return 0, fmt.Errorf("error creating favourite: %w", err)
	}

	return internshipID, nil
}

// Delete removes the favourite for the pair. It returns the internship id of
// the removed row, or FavouriteNotFound (-1) when no row matched. Callers
// check the sentinel instead of relying on an error.
func (s *FavouriteService) Delete(ctx context.Context, studentID, internshipID int64) (int64, error) {
	query := psql.Delete("favourite").
		Where(squirrel.Eq{"student_id": studentID, "internship_id": internshipID})

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := s.unit.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error deleting favourite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return FavouriteNotFound, nil
	}

	return internshipID, nil
}

// GetByStudent lists a student's favourites, newest first.
func (s *FavouriteService) GetByStudent(ctx context.Context, studentID int64) ([]*models.Favourite, error) {
	query := psql.Select("student_id", "internship_id", "created_at").
		From("favourite").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("created_at DESC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := s.unit.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favourites []*models.Favourite
	for rows.Next() {
		var favourite models.Favourite
		if err := rows.Scan(
			&favourite.StudentID,
			&favourite.InternshipID,
			&favourite.CreatedAt,
		); err != nil {
			return nil, err
		}
		favourites = append(favourites, &favourite)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return favourites, nil
}
