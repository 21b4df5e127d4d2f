package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blood4life/internal/config"
	"github.com/spec-kit/blood4life/internal/domain"
	"github.com/spec-kit/blood4life/internal/events"
)

type memDonorRepo struct {
	nextID int64
	byID   map[int64]*domain.BloodDonor
}

func newMemDonorRepo() *memDonorRepo {
	return &memDonorRepo{nextID: 1, byID: map[int64]*domain.BloodDonor{}}
}

func (r *memDonorRepo) Create(_ context.Context, donor *domain.BloodDonor) error {
	donor.ID = r.nextID
	r.nextID++
	donor.CreatedAt = time.Now()
	donor.UpdatedAt = donor.CreatedAt
	stored := *donor
	r.byID[donor.ID] = &stored
	return nil
}

func (r *memDonorRepo) GetByID(_ context.Context, id int64) (*domain.BloodDonor, error) {
	donor, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return donor, nil
}

func (r *memDonorRepo) GetByEmail(_ context.Context, email string) (*domain.BloodDonor, error) {
	for _, donor := range r.byID {
		if donor.Email == email {
			return donor, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memDonorRepo) Count(context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

type memHospitalRepo struct {
	nextID int64
	byID   map[int64]*domain.Hospital
}

func newMemHospitalRepo() *memHospitalRepo {
	return &memHospitalRepo{nextID: 1, byID: map[int64]*domain.Hospital{}}
}

func (r *memHospitalRepo) Create(_ context.Context, hospital *domain.Hospital) error {
	hospital.ID = r.nextID
	r.nextID++
	stored := *hospital
	r.byID[hospital.ID] = &stored
	return nil
}

func (r *memHospitalRepo) GetByID(_ context.Context, id int64) (*domain.Hospital, error) {
	hospital, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return hospital, nil
}

func (r *memHospitalRepo) GetByEmail(_ context.Context, email string) (*domain.Hospital, error) {
	for _, hospital := range r.byID {
		if hospital.Email == email {
			return hospital, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memAdminRepo struct {
	byID map[int64]*domain.Admin
}

func (r *memAdminRepo) GetByID(_ context.Context, id int64) (*domain.Admin, error) {
	admin, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return admin, nil
}

func (r *memAdminRepo) GetByUsername(_ context.Context, username string) (*domain.Admin, error) {
	for _, admin := range r.byID {
		if admin.Username == username {
			return admin, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func newTestAuthService() (*AuthService, *memDonorRepo) {
	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:     "test-signing-secret",
		TokenTTLHours: 24,
		BcryptCost:    4,
	}}
	donors := newMemDonorRepo()
	return NewAuthService(cfg, AuthDependencies{
		DonorRepo:    donors,
		HospitalRepo: newMemHospitalRepo(),
		AdminRepo:    &memAdminRepo{byID: map[int64]*domain.Admin{}},
		Dispatcher:   events.NewInMemoryDispatcher(),
	}), donors
}

func Test_RegisterDonor_IssuesDecodableToken(t *testing.T) {
	svc, _ := newTestAuthService()

	donor, token, exp, err := svc.RegisterDonor(context.Background(), DonorRegistration{
		DNI:       "12345678A",
		FirstName: "Ana",
		LastName:  "Ruiz",
		Email:     "ana@example.com",
		Password:  "hunter22",
	})
	require.NoError(t, err)
	require.NotNil(t, donor)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp, time.Minute)

	claims, err := svc.TokenCodec().Decode(token)
	require.NoError(t, err)
	assert.Equal(t, donor.ID, claims.SubjectID)
	assert.Equal(t, domain.PrincipalKindDonor, claims.Kind)
}

func Test_RegisterDonor_DuplicateEmailConflicts(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	reg := DonorRegistration{DNI: "1A", FirstName: "Ana", LastName: "Ruiz", Email: "ana@example.com", Password: "pw"}
	_, _, _, err := svc.RegisterDonor(ctx, reg)
	require.NoError(t, err)

	reg.DNI = "2B"
	_, _, _, err = svc.RegisterDonor(ctx, reg)
	require.Error(t, err)
}

func Test_LoginDonor_VerifiesSecret(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, _, _, err := svc.RegisterDonor(ctx, DonorRegistration{
		DNI: "1A", FirstName: "Ana", LastName: "Ruiz", Email: "ana@example.com", Password: "hunter22",
	})
	require.NoError(t, err)

	donor, token, _, err := svc.LoginDonor(ctx, "ana@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", donor.Email)
	assert.NotEmpty(t, token)

	_, _, _, err = svc.LoginDonor(ctx, "ana@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, _, err = svc.LoginDonor(ctx, "nobody@example.com", "hunter22")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func Test_LoginHospital_IssuesHospitalToken(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, _, _, err := svc.RegisterHospital(ctx, HospitalRegistration{
		Name: "General Hospital", Email: "gh@example.com", Password: "secret",
	})
	require.NoError(t, err)

	_, token, _, err := svc.LoginHospital(ctx, "gh@example.com", "secret")
	require.NoError(t, err)

	claims, err := svc.TokenCodec().Decode(token)
	require.NoError(t, err)
	assert.Equal(t, domain.PrincipalKindHospital, claims.Kind)
}
