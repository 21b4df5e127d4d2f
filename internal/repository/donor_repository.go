package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blood4life/internal/domain"
)

// DonorRepository defines persistence access for blood donors.
type DonorRepository interface {
	Create(ctx context.Context, donor *domain.BloodDonor) error
	GetByID(ctx context.Context, id int64) (*domain.BloodDonor, error)
	GetByEmail(ctx context.Context, email string) (*domain.BloodDonor, error)
	Count(ctx context.Context) (int64, error)
}

type donorRepository struct {
	pool *pgxpool.Pool
}

// NewDonorRepository returns a Postgres-backed implementation.
func NewDonorRepository(pool *pgxpool.Pool) DonorRepository {
	return &donorRepository{pool: pool}
}

func (r *donorRepository) Create(ctx context.Context, donor *domain.BloodDonor) error {
	const query = `
        INSERT INTO blood_donors (dni, first_name, last_name, gender, blood_type, email, phone_number, date_of_birth, password_hash)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		donor.DNI,
		donor.FirstName,
		donor.LastName,
		donor.Gender,
		donor.BloodType,
		donor.Email,
		donor.PhoneNumber,
		donor.DateOfBirth,
		donor.PasswordHash,
	).Scan(&donor.ID, &donor.CreatedAt, &donor.UpdatedAt)
}

func (r *donorRepository) GetByID(ctx context.Context, id int64) (*domain.BloodDonor, error) {
	const query = `
        SELECT id, dni, first_name, last_name, gender, blood_type, email, phone_number, date_of_birth, password_hash, created_at, updated_at
        FROM blood_donors WHERE id=$1`

	var donor domain.BloodDonor
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&donor.ID,
		&donor.DNI,
		&donor.FirstName,
		&donor.LastName,
		&donor.Gender,
		&donor.BloodType,
		&donor.Email,
		&donor.PhoneNumber,
		&donor.DateOfBirth,
		&donor.PasswordHash,
		&donor.CreatedAt,
		&donor.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &donor, nil
}

func (r *donorRepository) GetByEmail(ctx context.Context, email string) (*domain.BloodDonor, error) {
	const query = `
        SELECT id, dni, first_name, last_name, gender, blood_type, email, phone_number, date_of_birth, password_hash, created_at, updated_at
        FROM blood_donors WHERE email=$1`

	var donor domain.BloodDonor
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&donor.ID,
		&donor.DNI,
		&donor.FirstName,
		&donor.LastName,
		&donor.Gender,
		&donor.BloodType,
		&donor.Email,
		&donor.PhoneNumber,
		&donor.DateOfBirth,
		&donor.PasswordHash,
		&donor.CreatedAt,
		&donor.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &donor, nil
}

func (r *donorRepository) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM blood_donors`

	var count int64
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
