package services

import (
	"context"
	"fmt"

	"github.com/mertdogan/internhub/internal/db"
	"github.com/mertdogan/internhub/internal/pkg/apperrors"
	"github.com/mertdogan/internhub/internal/pkg/dberrors"
)

// LookupRow is one id/name pair from a lookup table.
type LookupRow struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LookupService serves the small id/name lookup tables: worktype,
// internship_duration, department and city.
type LookupService struct {
	unit *db.Unit
}

// NewLookupService creates a lookup service bound to the given unit of work.
func NewLookupService(unit *db.Unit) *LookupService {
	return &LookupService{unit: unit}
}

// Worktypes lists all worktype rows.
func (s *LookupService) Worktypes(ctx context.Context) ([]LookupRow, error) {
	return s.list(ctx, "worktype")
}

// Durations lists all internship duration rows.
func (s *LookupService) Durations(ctx context.Context) ([]LookupRow, error) {
	return s.list(ctx, "internship_duration")
}

// Departments lists all department rows.
func (s *LookupService) Departments(ctx context.Context) ([]LookupRow, error) {
	return s.list(ctx, "department")
}

// Cities lists all city rows.
func (s *LookupService) Cities(ctx context.Context) ([]LookupRow, error) {
	return s.list(ctx, "city")
}

func (s *LookupService) list(ctx context.Context, table string) ([]LookupRow, error) {
	sql, args, err := psql.Select("id", "name").From(table).OrderBy("name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := s.unit.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LookupRow
	for rows.Next() {
		var row LookupRow
		if err := rows.Scan(&row.ID, &row.Name); err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// CreateDepartment inserts a new department lookup row and returns its id.
func (s *LookupService) CreateDepartment(ctx context.Context, name string) (int64, error) {
	query := psql.Insert("department").
		Columns("name").
		Values(name).
		Suffix("RETURNING id")

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := s.unit.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrDepartmentAlreadyExists
		}
		return 0, fmt.Errorf("error creating department: %w", err)
	}

	return id, nil
}

// DepartmentExists reports whether a department with this id exists.
func (s *LookupService) DepartmentExists(ctx context.Context, id int64) (bool, error) {
	return existsByID(ctx, s.unit, "department", "id", id)
}

// WorktypeExists reports whether a worktype with this id exists.
func (s *LookupService) WorktypeExists(ctx context.Context, id int64) (bool, error) {
	return existsByID(ctx, s.unit, "worktype", "id", id)
}

// DurationExists reports whether a duration with this id exists.
func (s *LookupService) DurationExists(ctx context.Context, id int64) (bool, error) {
	return existsByID(ctx, s.unit, "internship_duration", "id", id)
}
