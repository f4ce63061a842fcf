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

// TrackingService handles the viewed and clicked-apply tracking tables. Both
// share the same shape: at most one row per (student, internship) pair, and a
// repeat event refreshes the timestamp instead of adding a row.
type TrackingService struct {
	unit *db.Unit
}

// NewTrackingService creates a tracking service bound to the given unit of
// work.
func NewTrackingService(unit *db.Unit) *TrackingService {
	return &TrackingService{unit: unit}
}

// UpsertViewed records that the student viewed the internship. It returns
// true when a new row was inserted, false when an existing row's timestamp
// was refreshed.
func (s *TrackingService) UpsertViewed(ctx context.Context, studentID, internshipID int64) (bool, error) {
	return s.upsert(ctx, "viewed_internships", studentID, internshipID)
}

// UpsertClicked records that the student clicked apply on the internship.
// Same insert-vs-refresh contract as UpsertViewed.
func (s *TrackingService) UpsertClicked(ctx context.Context, studentID, internshipID int64) (bool, error) {
	return s.upsert(ctx, "clicked_apply_internships", studentID, internshipID)
}

// upsert is a single atomic statement guarded by the unique pair constraint,
// so two concurrent requests for the same pair cannot both insert; the loser
// lands on the DO UPDATE branch. xmax = 0 only holds for a freshly inserted
// row, which is how insert and update are told apart in one round-trip.
func (s *TrackingService) upsert(ctx context.Context, table string, studentID, internshipID int64) (bool, error) {
	query := psql.Insert(table).
		Columns("student_id", "internship_id", "created_at").
		Values(studentID, internshipID, squirrel.Expr("NOW()")).
		Suffix("ON CONFLICT (student_id, internship_id) DO UPDATE SET created_at = EXCLUDED.created_at").
		Suffix("RETURNING (xmax = 0) AS inserted")

	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	var inserted bool
	if err := s.unit.QueryRow(ctx, sql, args...).Scan(&inserted); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return false, apperrors.ErrInvalidReference
		}
		return false, fmt.Errorf("error upserting %s: %w", table, err)
	}

	return inserted, nil
}

// ClickedCountSince counts clicked-apply rows for the internship within the
// trailing number of days.
func (s *TrackingService) ClickedCountSince(ctx context.Context, internshipID int64, days int) (int64, error) {
	query := psql.Select("COUNT(*)").
		From("clicked_apply_internships").
		Where(squirrel.Eq{"internship_id": internshipID}).
		Where(squirrel.Expr("created_at >= NOW() - make_interval(days => ?)", days))

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var count int64
	if err := s.unit.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting clicks: %w", err)
	}

	return count, nil
}

// GetViewedByStudent lists the internships a student viewed, most recent
// first.
func (s *TrackingService) GetViewedByStudent(ctx context.Context, studentID int64, limit int) ([]*models.ViewedInternship, error) {
	query := psql.Select("student_id", "internship_id", "created_at").
		From("viewed_internships").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("created_at DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := s.unit.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []*models.ViewedInternship
	for rows.Next() {
		var view models.ViewedInternship
		if err := rows.Scan(&view.StudentID, &view.InternshipID, &view.CreatedAt); err != nil {
			return nil, err
		}
		views = append(views, &view)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return views, nil
}
