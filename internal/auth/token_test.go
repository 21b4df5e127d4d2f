package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blood4life/internal/domain"
)

func newTestCodec() *TokenCodec {
	return NewTokenCodec("test-signing-secret", 24*time.Hour)
}

func Test_IssueDecode_RoundTrip(t *testing.T) {
	codec := newTestCodec()

	token, expiresAt := codec.Issue(42, domain.PrincipalKindDonor)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	claims, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.SubjectID)
	assert.Equal(t, domain.PrincipalKindDonor, claims.Kind)
	assert.False(t, codec.IsExpired(claims))
}

func Test_Decode_RejectsEveryFlippedByte(t *testing.T) {
	codec := newTestCodec()
	token, _ := codec.Issue(7, domain.PrincipalKindHospital)

	for i := 0; i < len(token); i++ {
		mutated := []byte(token)
		mutated[i] ^= 0x01

		_, err := codec.Decode(string(mutated))
		require.ErrorIs(t, err, ErrDecode, "byte %d", i)
	}
}

func Test_Decode_RejectsForeignSecret(t *testing.T) {
	other := NewTokenCodec("another-secret", 24*time.Hour)
	token, _ := other.Issue(7, domain.PrincipalKindDonor)

	_, err := newTestCodec().Decode(token)
	require.ErrorIs(t, err, ErrDecode)
}

func Test_Decode_RejectsGarbage(t *testing.T) {
	codec := newTestCodec()

	for _, token := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		_, err := codec.Decode(token)
		require.ErrorIs(t, err, ErrDecode)
	}
}

// An expired token still decodes structurally; staleness is the separate
// explicit check the gate performs after Decode.
func Test_Decode_ExpiredTokenStillDecodes(t *testing.T) {
	codec := newTestCodec()
	codec.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	token, _ := codec.Issue(9, domain.PrincipalKindAdmin)

	codec.now = time.Now
	claims, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, int64(9), claims.SubjectID)
	assert.True(t, codec.IsExpired(claims))
}

func Test_IsExpired_LifetimeBoundary(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := newTestCodec()
	codec.now = func() time.Time { return issuedAt }

	token, expiresAt := codec.Issue(3, domain.PrincipalKindHospital)
	assert.Equal(t, issuedAt.Add(24*time.Hour), expiresAt)

	claims, err := codec.Decode(token)
	require.NoError(t, err)

	codec.now = func() time.Time { return issuedAt.Add(23*time.Hour + 59*time.Minute) }
	assert.False(t, codec.IsExpired(claims))

	codec.now = func() time.Time { return issuedAt.Add(24*time.Hour + time.Minute) }
	assert.True(t, codec.IsExpired(claims))
}
