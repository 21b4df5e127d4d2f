package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blood4life/internal/auth"
	"github.com/spec-kit/blood4life/internal/config"
	"github.com/spec-kit/blood4life/internal/domain"
	"github.com/spec-kit/blood4life/internal/events"
	"github.com/spec-kit/blood4life/internal/repository"
	apperrors "github.com/spec-kit/blood4life/pkg/util"
)

// ErrInvalidCredentials is returned for any login failure; callers must not
// learn whether the account exists.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService coordinates registration and login flows for all three
// principal kinds.
type AuthService struct {
	donors     repository.DonorRepository
	hospitals  repository.HospitalRepository
	admins     repository.AdminRepository
	codec      *auth.TokenCodec
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for the auth service.
type AuthDependencies struct {
	DonorRepo    repository.DonorRepository
	HospitalRepo repository.HospitalRepository
	AdminRepo    repository.AdminRepository
	Dispatcher   events.Dispatcher
}

// NewAuthService builds the service. The token codec it owns is the only
// holder of the signing secret.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		donors:     deps.DonorRepo,
		hospitals:  deps.HospitalRepo,
		admins:     deps.AdminRepo,
		codec:      auth.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenCodec exposes the codec for the authentication gate.
func (s *AuthService) TokenCodec() *auth.TokenCodec {
	return s.codec
}

// DonorRegistration carries the fields needed to create a donor account.
type DonorRegistration struct {
	DNI         string
	FirstName   string
	LastName    string
	Gender      string
	BloodType   string
	Email       string
	PhoneNumber string
	DateOfBirth *time.Time
	Password    string
}

// RegisterDonor creates a donor account and issues a token.
func (s *AuthService) RegisterDonor(ctx context.Context, reg DonorRegistration) (*domain.BloodDonor, string, time.Time, error) {
	if _, err := s.donors.GetByEmail(ctx, reg.Email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(reg.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	donor := &domain.BloodDonor{
		DNI:          reg.DNI,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		Gender:       reg.Gender,
		BloodType:    reg.BloodType,
		Email:        reg.Email,
		PhoneNumber:  reg.PhoneNumber,
		DateOfBirth:  reg.DateOfBirth,
		PasswordHash: hash,
	}
	if err := s.donors.Create(ctx, donor); err != nil {
		return nil, "", time.Time{}, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.NewEvent(events.EventDonorRegistered, events.DonorRegisteredPayload{
			DonorID:   donor.ID,
			FullName:  donor.FullName(),
			BloodType: donor.BloodType,
		}))
	}

	token, exp := s.codec.Issue(donor.ID, domain.PrincipalKindDonor)
	return donor, token, exp, nil
}

// HospitalRegistration carries the fields needed to create a hospital account.
type HospitalRegistration struct {
	Name        string
	Email       string
	Address     string
	City        string
	PhoneNumber string
	Password    string
}

// RegisterHospital creates a hospital account and issues a token.
func (s *AuthService) RegisterHospital(ctx context.Context, reg HospitalRegistration) (*domain.Hospital, string, time.Time, error) {
	if _, err := s.hospitals.GetByEmail(ctx, reg.Email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(reg.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	hospital := &domain.Hospital{
		Name:         reg.Name,
		Email:        reg.Email,
		Address:      reg.Address,
		City:         reg.City,
		PhoneNumber:  reg.PhoneNumber,
		PasswordHash: hash,
	}
	if err := s.hospitals.Create(ctx, hospital); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp := s.codec.Issue(hospital.ID, domain.PrincipalKindHospital)
	return hospital, token, exp, nil
}

// LoginDonor authenticates a donor by email and password.
func (s *AuthService) LoginDonor(ctx context.Context, email, password string) (*domain.BloodDonor, string, time.Time, error) {
	donor, err := s.donors.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}
	if !auth.VerifySecret(password, donor.PasswordHash) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	token, exp := s.codec.Issue(donor.ID, domain.PrincipalKindDonor)
	return donor, token, exp, nil
}

// LoginHospital authenticates a hospital by email and password.
func (s *AuthService) LoginHospital(ctx context.Context, email, password string) (*domain.Hospital, string, time.Time, error) {
	hospital, err := s.hospitals.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}
	if !auth.VerifySecret(password, hospital.PasswordHash) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	token, exp := s.codec.Issue(hospital.ID, domain.PrincipalKindHospital)
	return hospital, token, exp, nil
}

// LoginAdmin authenticates an administrator by username and password.
func (s *AuthService) LoginAdmin(ctx context.Context, username, password string) (*domain.Admin, string, time.Time, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}
	if !auth.VerifySecret(password, admin.PasswordHash) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	token, exp := s.codec.Issue(admin.ID, domain.PrincipalKindAdmin)
	return admin, token, exp, nil
}
