package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_AuthorityFor_ClosedSet(t *testing.T) {
	authority, ok := AuthorityFor(PrincipalKindDonor)
	assert.True(t, ok)
	assert.Equal(t, AuthorityDonor, authority)

	authority, ok = AuthorityFor(PrincipalKindHospital)
	assert.True(t, ok)
	assert.Equal(t, AuthorityHospital, authority)

	authority, ok = AuthorityFor(PrincipalKindAdmin)
	assert.True(t, ok)
	assert.Equal(t, AuthorityAdmin, authority)

	_, ok = AuthorityFor(PrincipalKind("satellite"))
	assert.False(t, ok)
}

func Test_ValidRecipientKind(t *testing.T) {
	assert.True(t, ValidRecipientKind(RecipientKindDonor))
	assert.True(t, ValidRecipientKind(RecipientKindHospital))
	assert.False(t, ValidRecipientKind(RecipientKind("admin")))
}
