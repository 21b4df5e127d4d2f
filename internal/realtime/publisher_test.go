package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/blood4life/internal/domain"
)

func Test_NotificationChannel_OnePerRecipient(t *testing.T) {
	assert.Equal(t, "notifications:bloodDonor:42", NotificationChannel(domain.RecipientKindDonor, 42))
	assert.Equal(t, "notifications:hospital:3", NotificationChannel(domain.RecipientKindHospital, 3))
	assert.NotEqual(t,
		NotificationChannel(domain.RecipientKindDonor, 1),
		NotificationChannel(domain.RecipientKindHospital, 1))
}
