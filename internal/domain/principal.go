package domain

// PrincipalKind tags the three supported principal variants. The tag is closed:
// adding a kind means adding a dispatch arm in the resolver and an authority here.
type PrincipalKind string

const (
	PrincipalKindDonor    PrincipalKind = "bloodDonor"
	PrincipalKindHospital PrincipalKind = "hospital"
	PrincipalKindAdmin    PrincipalKind = "admin"
)

// Authority is the coarse role label attached to an authenticated identity.
type Authority string

const (
	AuthorityDonor    Authority = "ROLE_BLOODDONOR"
	AuthorityHospital Authority = "ROLE_HOSPITAL"
	AuthorityAdmin    Authority = "ROLE_ADMIN"
)

// AuthorityFor maps a principal kind to its authority label. The second return
// is false for kinds outside the closed set.
func AuthorityFor(kind PrincipalKind) (Authority, bool) {
	switch kind {
	case PrincipalKindDonor:
		return AuthorityDonor, true
	case PrincipalKindHospital:
		return AuthorityHospital, true
	case PrincipalKindAdmin:
		return AuthorityAdmin, true
	default:
		return "", false
	}
}
