package domain

import "time"

// RecipientKind identifies which principal variant a notification is addressed
// to. Admins do not receive notifications.
type RecipientKind string

const (
	RecipientKindDonor    RecipientKind = "bloodDonor"
	RecipientKindHospital RecipientKind = "hospital"
)

// ValidRecipientKind reports whether the kind is one of the addressable variants.
func ValidRecipientKind(kind RecipientKind) bool {
	return kind == RecipientKindDonor || kind == RecipientKindHospital
}

// Notification is a durable message addressed to exactly one recipient. Read is
// monotonic: it only ever transitions false -> true.
type Notification struct {
	ID            int64         `json:"id"`
	RecipientKind RecipientKind `json:"recipient_kind"`
	RecipientID   int64         `json:"recipient_id"`
	Message       string        `json:"message"`
	Read          bool          `json:"read"`
	CreatedAt     time.Time     `json:"created_at"`
}
