package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blood4life/internal/domain"
)

// DonorStore is the lookup capability for donor principals.
type DonorStore interface {
	GetByID(ctx context.Context, id int64) (*domain.BloodDonor, error)
}

// HospitalStore is the lookup capability for hospital principals.
type HospitalStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Hospital, error)
}

// AdminStore is the lookup capability for admin principals.
type AdminStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Admin, error)
}

// Principal is the tagged variant over the three principal kinds. Exactly one
// of Donor/Hospital/Admin is set, matching Kind.
type Principal struct {
	Kind     domain.PrincipalKind
	Donor    *domain.BloodDonor
	Hospital *domain.Hospital
	Admin    *domain.Admin
}

// ID returns the numeric identity of the underlying principal.
func (p *Principal) ID() int64 {
	switch p.Kind {
	case domain.PrincipalKindDonor:
		return p.Donor.ID
	case domain.PrincipalKindHospital:
		return p.Hospital.ID
	case domain.PrincipalKindAdmin:
		return p.Admin.ID
	}
	return 0
}

// DisplayName returns a human-readable identity for the principal.
func (p *Principal) DisplayName() string {
	switch p.Kind {
	case domain.PrincipalKindDonor:
		return p.Donor.FullName()
	case domain.PrincipalKindHospital:
		return p.Hospital.Name
	case domain.PrincipalKindAdmin:
		return p.Admin.Username
	}
	return ""
}

// PrincipalResolver dispatches a kind tag and numeric id to the backing store
// for that kind.
type PrincipalResolver struct {
	donors    DonorStore
	hospitals HospitalStore
	admins    AdminStore
}

// NewPrincipalResolver wires the three lookup capabilities.
func NewPrincipalResolver(donors DonorStore, hospitals HospitalStore, admins AdminStore) *PrincipalResolver {
	return &PrincipalResolver{donors: donors, hospitals: hospitals, admins: admins}
}

// Resolve fetches the principal for (kind, id). A missing record returns
// (nil, nil): a principal deleted after its token was issued is expected, not
// an error. Unknown kinds also resolve to nil.
func (r *PrincipalResolver) Resolve(ctx context.Context, kind domain.PrincipalKind, id int64) (*Principal, error) {
	switch kind {
	case domain.PrincipalKindDonor:
		donor, err := r.donors.GetByID(ctx, id)
		if err != nil {
			return nil, noRowsAsAbsent(err)
		}
		if donor == nil {
			return nil, nil
		}
		return &Principal{Kind: kind, Donor: donor}, nil
	case domain.PrincipalKindHospital:
		hospital, err := r.hospitals.GetByID(ctx, id)
		if err != nil {
			return nil, noRowsAsAbsent(err)
		}
		if hospital == nil {
			return nil, nil
		}
		return &Principal{Kind: kind, Hospital: hospital}, nil
	case domain.PrincipalKindAdmin:
		admin, err := r.admins.GetByID(ctx, id)
		if err != nil {
			return nil, noRowsAsAbsent(err)
		}
		if admin == nil {
			return nil, nil
		}
		return &Principal{Kind: kind, Admin: admin}, nil
	default:
		return nil, nil
	}
}

func noRowsAsAbsent(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}
