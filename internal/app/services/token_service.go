package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mertdogan/internhub/internal/app/models"
	"github.com/mertdogan/internhub/internal/db"
	"github.com/mertdogan/internhub/internal/pkg/apperrors"
)

// TokenService persists refresh tokens. Access tokens are stateless; refresh
// tokens are stored so they can be revoked and rotated.
type TokenService struct {
	unit *db.Unit
}

// NewTokenService creates a token service bound to the given unit of work.
func NewTokenService(unit *db.Unit) *TokenService {
	return &TokenService{unit: unit}
}

// Store writes a new refresh token row for the subject.
func (s *TokenService) Store(ctx context.Context, subjectType models.SubjectType, subjectID int64, token string, expiresAt time.Time) error {
	query := psql.Insert("refresh_tokens").
		Columns("id", "subject_type", "subject_id", "token", "expires_at").
		Values(uuid.New().String(), string(subjectType), subjectID, token, expiresAt)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := s.unit.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error storing refresh token: %w", err)
	}

	return nil
}

// GetByToken fetches a refresh token row by its token value. Revoked or
// expired tokens are reported as ErrTokenInvalid.
func (s *TokenService) GetByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := psql.Select("id", "subject_type", "subject_id", "token", "revoked", "expires_at", "created_at").
		From("refresh_tokens").
		Where(squirrel.Eq{"token": token})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var row models.RefreshToken
	err = s.unit.QueryRow(ctx, sql, args...).Scan(
		&row.ID,
		&row.SubjectType,
		&row.SubjectID,
		&row.Token,
		&row.Revoked,
		&row.ExpiresAt,
		&row.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, fmt.Errorf("error fetching refresh token: %w", err)
	}

	if row.Revoked || time.Now().After(row.ExpiresAt) {
		return nil, apperrors.ErrTokenInvalid
	}

	return &row, nil
}

// Revoke marks a refresh token as revoked. Used on rotation and logout.
func (s *TokenService) Revoke(ctx context.Context, id string) error {
	query := psql.Update("refresh_tokens").
		Set("revoked", true).
		Where(squirrel.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := s.unit.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error revoking refresh token: %w", err)
	}

	return nil
}

// RevokeAllForSubject revokes every live refresh token of one account.
func (s *TokenService) RevokeAllForSubject(ctx context.Context, subjectType models.SubjectType, subjectID int64) error {
	query := psql.Update("refresh_tokens").
		Set("revoked", true).
		Where(squirrel.Eq{"subject_type": string(subjectType), "subject_id": subjectID, "revoked": false})

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := s.unit.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error revoking refresh tokens: %w", err)
	}

	return nil
}

// DeleteExpired removes rows that can never validate again and returns how
// many were deleted.
func (s *TokenService) DeleteExpired(ctx context.Context) (int64, error) {
	query := psql.Delete("refresh_tokens").
		Where(squirrel.Expr("expires_at < NOW()"))

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := s.unit.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired tokens: %w", err)
	}

	return tag.RowsAffected(), nil
}
