package seed

import (
	"context"
	"errors"

	"github.com/mertdogan/internhub/internal/app/models"
	"github.com/mertdogan/internhub/internal/app/services"
	"github.com/mertdogan/internhub/internal/db"
	"github.com/mertdogan/internhub/internal/pkg/apperrors"
	"github.com/mertdogan/internhub/internal/pkg/auth"
	"github.com/rs/zerolog"
)

var defaultWorktypes = []string{"On-site", "Remote", "Hybrid"}

var defaultDurations = []string{"1 month", "2 months", "3 months", "6 months"}

var defaultDepartments = []string{
	"Informatik",
	"Elektronik",
	"Maschinenbau",
	"Wirtschaft",
	"Design",
}

var defaultCities = []string{"Berlin", "Hamburg", "München", "Köln", "Stuttgart"}

// CreateDefaultData seeds the lookup tables and the default admin account.
// Everything is idempotent; rerunning on a populated database is a no-op.
func CreateDefaultData(ctx context.Context, database *db.Postgres, lgr zerolog.Logger) error {
	unit, err := database.NewUnit(ctx, false)
	if err != nil {
		return err
	}
	defer unit.Rollback(ctx)

	lgr.Info().Msg("Checking/Creating default data (lookups, admin)...")
	var finalErr error

	seedLookup := func(table string, names []string) {
		for _, name := range names {
			sql := "INSERT INTO " + table + " (name) VALUES ($1) ON CONFLICT (name) DO NOTHING"
			if _, err := unit.Exec(ctx, sql, name); err != nil {
				lgr.Error().Err(err).Str("table", table).Str("name", name).Msg("Error seeding lookup row")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	seedLookup("worktype", defaultWorktypes)
	seedLookup("internship_duration", defaultDurations)
	seedLookup("department", defaultDepartments)
	seedLookup("city", defaultCities)

	// --- Default admin account --- //
	personService := services.NewPersonService(unit)
	_, err = personService.GetByUsername(ctx, "admin")
	switch {
	case err == nil:
		lgr.Info().Msg("Admin account already exists, skipping creation")
	case errors.Is(err, apperrors.ErrPersonNotFound):
		lgr.Info().Msg("Creating default admin account...")
		hash, hashErr := auth.HashPassword("Admin123!")
		if hashErr != nil {
			lgr.Error().Err(hashErr).Msg("Error hashing admin password")
			finalErr = errors.Join(finalErr, hashErr)
			break
		}
		admin := &models.Person{
			Username:     "admin",
			PersonType:   models.PersonTypeAdmin,
			PasswordHash: hash,
		}
		adminID, createErr := personService.Create(ctx, admin)
		if createErr != nil {
			lgr.Error().Err(createErr).Msg("Error creating admin account")
			finalErr = errors.Join(finalErr, createErr)
		} else {
			lgr.Info().Int64("adminID", adminID).Msg("Default admin account created")
		}
	default:
		lgr.Error().Err(err).Msg("Error checking for admin account")
		finalErr = errors.Join(finalErr, err)
	}

	if finalErr != nil {
		return finalErr
	}

	if err := unit.Commit(ctx); err != nil {
		return err
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return nil
}
