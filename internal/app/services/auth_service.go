package services

import (
	"context"
	"fmt"

	"github.com/mertdogan/internhub/internal/app/models"
	"github.com/mertdogan/internhub/internal/app/models/dto"
	"github.com/mertdogan/internhub/internal/db"
	"github.com/mertdogan/internhub/internal/pkg/apperrors"
	"github.com/mertdogan/internhub/internal/pkg/auth"
)

// AuthService handles registration, login and token refresh for both account
// kinds. It composes the person, company and token services over one shared
// unit of work so a registration and its first token land in the same
// transaction.
type AuthService struct {
	unit       *db.Unit
	jwtService *auth.JWTService
	persons    *PersonService
	companies  *CompanyService
	tokens     *TokenService
}

// NewAuthService creates an auth service bound to the given unit of work.
func NewAuthService(unit *db.Unit, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		unit:       unit,
		jwtService: jwtService,
		persons:    NewPersonService(unit),
		companies:  NewCompanyService(unit),
		tokens:     NewTokenService(unit),
	}
}

// RegisterStudent creates a student account and signs it in.
func (s *AuthService) RegisterStudent(ctx context.Context, req dto.RegisterRequest) (*models.Person, *dto.TokenResponse, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("error hashing password: %w", err)
	}

	person := &models.Person{
		Username:     req.Username,
		PersonType:   models.PersonTypeStudent,
		PasswordHash: hash,
	}
	id, err := s.persons.Create(ctx, person)
	if err != nil {
		return nil, nil, err
	}
	person.ID = id

	tokens, err := s.issueTokens(ctx, models.SubjectPerson, person.ID, person.Username, string(person.PersonType))
	if err != nil {
		return nil, nil, err
	}

	return person, tokens, nil
}

// Login authenticates a person by username and password. Wrong username and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*models.Person, *dto.TokenResponse, error) {
	person, err := s.persons.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == apperrors.ErrPersonNotFound {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !auth.CheckPassword(person.PasswordHash, req.Password) {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, models.SubjectPerson, person.ID, person.Username, string(person.PersonType))
	if err != nil {
		return nil, nil, err
	}

	return person, tokens, nil
}

// RegisterCompany creates a company account and returns it together with an
// email verification token. The company cannot be admin-verified until the
// token is redeemed.
func (s *AuthService) RegisterCompany(ctx context.Context, req dto.CompanyRegisterRequest) (*models.Company, string, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("error hashing password: %w", err)
	}

	company := &models.Company{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
	}
	id, err := s.companies.Create(ctx, company)
	if err != nil {
		return nil, "", err
	}
	company.ID = id

	verifyToken, err := s.jwtService.GenerateEmailVerificationToken(company.ID, company.Email)
	if err != nil {
		return nil, "", fmt.Errorf("error creating verification token: %w", err)
	}

	return company, verifyToken, nil
}

// LoginCompany authenticates a company by email and password.
func (s *AuthService) LoginCompany(ctx context.Context, req dto.CompanyLoginRequest) (*models.Company, *dto.TokenResponse, error) {
	company, err := s.companies.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == apperrors.ErrCompanyNotFound {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !auth.CheckPassword(company.PasswordHash, req.Password) {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, models.SubjectCompany, company.ID, company.Name, "")
	if err != nil {
		return nil, nil, err
	}

	return company, tokens, nil
}

// VerifyCompanyEmail redeems an email verification token.
func (s *AuthService) VerifyCompanyEmail(ctx context.Context, token string) error {
	companyID, err := s.jwtService.ValidateEmailVerificationToken(token)
	if err != nil {
		return apperrors.ErrInvalidEmailToken
	}
	return s.companies.SetEmailVerified(ctx, companyID)
}

// Refresh rotates a refresh token: the presented token is revoked and a fresh
// pair is issued for the same subject. A revoked, expired or unknown token
// fails with ErrTokenInvalid.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	stored, err := s.tokens.GetByToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	var name, role string
	switch stored.SubjectType {
	case models.SubjectPerson:
		person, err := s.persons.GetByID(ctx, stored.SubjectID)
		if err != nil {
			return nil, apperrors.ErrTokenInvalid
		}
		name, role = person.Username, string(person.PersonType)
	case models.SubjectCompany:
		company, err := s.companies.GetByID(ctx, stored.SubjectID)
		if err != nil {
			return nil, apperrors.ErrTokenInvalid
		}
		name = company.Name
	default:
		return nil, apperrors.ErrTokenInvalid
	}

	if err := s.tokens.Revoke(ctx, stored.ID); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, stored.SubjectType, stored.SubjectID, name, role)
}

// Logout revokes every live refresh token of the subject. Already-issued
// access tokens stay valid until they expire.
func (s *AuthService) Logout(ctx context.Context, subjectType models.SubjectType, subjectID int64) error {
	return s.tokens.RevokeAllForSubject(ctx, subjectType, subjectID)
}

// issueTokens generates an access/refresh pair and persists the refresh half.
func (s *AuthService) issueTokens(ctx context.Context, subjectType models.SubjectType, subjectID int64, name, role string) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(subjectID, string(subjectType), name, role)
	if err != nil {
		return nil, fmt.Errorf("error generating tokens: %w", err)
	}

	expiresAt := s.jwtService.GetRefreshTokenExpiry()
	if err := s.tokens.Store(ctx, subjectType, subjectID, refreshToken, expiresAt); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:           accessToken,
		TokenType:             "Bearer",
		ExpiresIn:             int64(expiresIn),
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: int64(refreshExpiresIn),
	}, nil
}
