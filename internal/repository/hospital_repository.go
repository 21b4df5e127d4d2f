package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blood4life/internal/domain"
)

// HospitalRepository defines persistence access for hospitals.
type HospitalRepository interface {
	Create(ctx context.Context, hospital *domain.Hospital) error
	GetByID(ctx context.Context, id int64) (*domain.Hospital, error)
	GetByEmail(ctx context.Context, email string) (*domain.Hospital, error)
}

type hospitalRepository struct {
	pool *pgxpool.Pool
}

// NewHospitalRepository returns a Postgres-backed implementation.
func NewHospitalRepository(pool *pgxpool.Pool) HospitalRepository {
	return &hospitalRepository{pool: pool}
}

func (r *hospitalRepository) Create(ctx context.Context, hospital *domain.Hospital) error {
	const query = `
        INSERT INTO hospitals (name, email, address, city, phone_number, password_hash)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		hospital.Name,
		hospital.Email,
		hospital.Address,
		hospital.City,
		hospital.PhoneNumber,
		hospital.PasswordHash,
	).Scan(&hospital.ID, &hospital.CreatedAt, &hospital.UpdatedAt)
}

func (r *hospitalRepository) GetByID(ctx context.Context, id int64) (*domain.Hospital, error) {
	const query = `
        SELECT id, name, email, address, city, phone_number, password_hash, created_at, updated_at
        FROM hospitals WHERE id=$1`

	var hospital domain.Hospital
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&hospital.ID,
		&hospital.Name,
		&hospital.Email,
		&hospital.Address,
		&hospital.City,
		&hospital.PhoneNumber,
		&hospital.PasswordHash,
		&hospital.CreatedAt,
		&hospital.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &hospital, nil
}

func (r *hospitalRepository) GetByEmail(ctx context.Context, email string) (*domain.Hospital, error) {
	const query = `
        SELECT id, name, email, address, city, phone_number, password_hash, created_at, updated_at
        FROM hospitals WHERE email=$1`

	var hospital domain.Hospital
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&hospital.ID,
		&hospital.Name,
		&hospital.Email,
		&hospital.Address,
		&hospital.City,
		&hospital.PhoneNumber,
		&hospital.PasswordHash,
		&hospital.CreatedAt,
		&hospital.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &hospital, nil
}
