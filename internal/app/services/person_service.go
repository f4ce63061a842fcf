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
)

// PersonService handles person rows (students and admins).
type PersonService struct {
	unit *db.Unit
}

// NewPersonService creates a person service bound to the given unit of work.
func NewPersonService(unit *db.Unit) *PersonService {
	return &PersonService{unit: unit}
}

// StudentExists reports whether a student with this id exists.
func (s *PersonService) StudentExists(ctx context.Context, id int64) (bool, error) {
	query := psql.Select("COUNT(*)").
		From("person").
		Where(squirrel.Eq{"id": id, "person_type": models.PersonTypeStudent})

	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	var count int64
	if err := s.unit.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("error checking student existence: %w", err)
	}

	return count == 1, nil
}

// Create inserts a new person and returns its id.
func (s *PersonService) Create(ctx context.Context, person *models.Person) (int64, error) {
	query := psql.Insert("person").
		Columns("username", "person_type", "password_hash").
		Values(person.Username, person.PersonType, person.PasswordHash).
		Suffix("RETURNING id")

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := s.unit.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrUsernameAlreadyExists
		}
		return 0, fmt.Errorf("error creating person: %w", err)
	}

	return id, nil
}

// GetByID retrieves a person by id.
func (s *PersonService) GetByID(ctx context.Context, id int64) (*models.Person, error) {
	return s.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByUsername retrieves a person by username.
func (s *PersonService) GetByUsername(ctx context.Context, username string) (*models.Person, error) {
	return s.getOne(ctx, squirrel.Eq{"username": username})
}

func (s *PersonService) getOne(ctx context.Context, where squirrel.Eq) (*models.Person, error) {
	query := psql.Select("id", "username", "person_type", "password_hash", "created_at").
		From("person").
		Where(where)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var person models.Person
	err = s.unit.QueryRow(ctx, sql, args...).Scan(
		&person.ID,
		&person.Username,
		&person.PersonType,
		&person.PasswordHash,
		&person.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPersonNotFound
		}
		return nil, fmt.Errorf("error retrieving person: %w", err)
	}

	return &person, nil
}

// Count counts all persons.
func (s *PersonService) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, s.unit, psql.Select("COUNT(*)").From("person"))
}

// GetAll retrieves a page of persons. A non-positive limit returns them all.
func (s *PersonService) GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Person, error) {
	query := paginate(psql.Select("id", "username", "person_type", "password_hash", "created_at").
		From("person").
		OrderBy("id"), offset, limit)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := s.unit.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var persons []*models.Person
	for rows.Next() {
		var person models.Person
		if err := rows.Scan(
			&person.ID,
			&person.Username,
			&person.PersonType,
			&person.PasswordHash,
			&person.CreatedAt,
		); err != nil {
			return nil, err
		}
		persons = append(persons, &person)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return persons, nil
}

// Delete removes a person after checking it exists.
func (s *PersonService) Delete(ctx context.Context, id int64) error {
	exists, err := existsByID(ctx, s.unit, "person", "id", id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrPersonNotFound
	}

	sql, args, err := psql.Delete("person").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := s.unit.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting person: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPersonNotFound
	}

	return nil
}
