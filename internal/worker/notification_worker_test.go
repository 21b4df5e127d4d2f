package worker

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/blood4life/internal/domain"
	"github.com/spec-kit/blood4life/internal/events"
	"github.com/spec-kit/blood4life/internal/realtime"
	"github.com/spec-kit/blood4life/internal/service"
)

type memRepo struct {
	nextID int64
	rows   []*domain.Notification
}

func (r *memRepo) Create(_ context.Context, notification *domain.Notification) error {
	r.nextID++
	notification.ID = r.nextID
	notification.CreatedAt = time.Now()
	stored := *notification
	r.rows = append(r.rows, &stored)
	return nil
}

func (r *memRepo) ListForRecipient(_ context.Context, kind domain.RecipientKind, recipientID int64) ([]domain.Notification, error) {
	out := make([]domain.Notification, 0)
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].RecipientKind == kind && r.rows[i].RecipientID == recipientID {
			out = append(out, *r.rows[i])
		}
	}
	return out, nil
}

func (r *memRepo) ListUnreadForRecipient(ctx context.Context, kind domain.RecipientKind, recipientID int64) ([]domain.Notification, error) {
	return r.ListForRecipient(ctx, kind, recipientID)
}

func (r *memRepo) CountUnreadForRecipient(_ context.Context, kind domain.RecipientKind, recipientID int64) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if row.RecipientKind == kind && row.RecipientID == recipientID && !row.Read {
			count++
		}
	}
	return count, nil
}

func (r *memRepo) MarkRead(_ context.Context, id int64) (*domain.Notification, error) {
	for _, row := range r.rows {
		if row.ID == id {
			row.Read = true
			out := *row
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memRepo) MarkAllRead(_ context.Context, kind domain.RecipientKind, recipientID int64) error {
	for _, row := range r.rows {
		if row.RecipientKind == kind && row.RecipientID == recipientID {
			row.Read = true
		}
	}
	return nil
}

type recordingPublisher struct {
	notifications []domain.Notification
	broadcasts    []string
}

func (p *recordingPublisher) PublishNotification(_ context.Context, notification *domain.Notification) error {
	p.notifications = append(p.notifications, *notification)
	return nil
}

func (p *recordingPublisher) Broadcast(_ context.Context, topic string, _ any) error {
	p.broadcasts = append(p.broadcasts, topic)
	return nil
}

type countingDonorRepo struct {
	total int64
}

func (r *countingDonorRepo) Create(context.Context, *domain.BloodDonor) error { return nil }
func (r *countingDonorRepo) GetByID(context.Context, int64) (*domain.BloodDonor, error) {
	return nil, pgx.ErrNoRows
}
func (r *countingDonorRepo) GetByEmail(context.Context, string) (*domain.BloodDonor, error) {
	return nil, pgx.ErrNoRows
}
func (r *countingDonorRepo) Count(context.Context) (int64, error) { return r.total, nil }

func newTestWorker() (events.Dispatcher, *memRepo, *recordingPublisher) {
	logger := zap.NewNop()
	repo := &memRepo{}
	publisher := &recordingPublisher{}

	notifications := service.NewNotificationService(repo, publisher, logger)
	stats := service.NewStatsService(&countingDonorRepo{total: 12}, publisher, logger)

	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationWorker(notifications, stats, logger).Register(dispatcher)
	return dispatcher, repo, publisher
}

func Test_DonorRegistered_WelcomesAndBroadcastsCount(t *testing.T) {
	dispatcher, repo, publisher := newTestWorker()
	ctx := context.Background()

	err := dispatcher.Publish(ctx, events.NewEvent(events.EventDonorRegistered, events.DonorRegisteredPayload{
		DonorID:  7,
		FullName: "Ana Ruiz",
	}))
	require.NoError(t, err)

	list, err := repo.ListForRecipient(ctx, domain.RecipientKindDonor, 7)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Contains(t, list[0].Message, "Ana Ruiz")

	assert.Equal(t, []string{realtime.TopicTotalDonors}, publisher.broadcasts)
}

func Test_AppointmentBooked_NotifiesBothParties(t *testing.T) {
	dispatcher, repo, publisher := newTestWorker()
	ctx := context.Background()

	err := dispatcher.Publish(ctx, events.NewEvent(events.EventAppointmentBooked, events.AppointmentBookedPayload{
		DonorID:     7,
		DonorName:   "Ana Ruiz",
		HospitalID:  3,
		ScheduledAt: time.Date(2025, 6, 10, 10, 30, 0, 0, time.UTC),
	}))
	require.NoError(t, err)

	hospitalList, err := repo.ListForRecipient(ctx, domain.RecipientKindHospital, 3)
	require.NoError(t, err)
	require.Len(t, hospitalList, 1)
	assert.Contains(t, hospitalList[0].Message, "Ana Ruiz")

	donorList, err := repo.ListForRecipient(ctx, domain.RecipientKindDonor, 7)
	require.NoError(t, err)
	require.Len(t, donorList, 1)

	assert.Len(t, publisher.notifications, 2)
}

func Test_AppointmentCancelled_NotifiesHospital(t *testing.T) {
	dispatcher, repo, _ := newTestWorker()
	ctx := context.Background()

	err := dispatcher.Publish(ctx, events.NewEvent(events.EventAppointmentCancelled, events.AppointmentCancelledPayload{
		DonorID:     7,
		DonorName:   "Ana Ruiz",
		HospitalID:  3,
		ScheduledAt: time.Date(2025, 6, 10, 10, 30, 0, 0, time.UTC),
	}))
	require.NoError(t, err)

	list, err := repo.ListForRecipient(ctx, domain.RecipientKindHospital, 3)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Contains(t, list[0].Message, "cancelled")
}

func Test_UnexpectedPayload_IsIgnored(t *testing.T) {
	dispatcher, repo, _ := newTestWorker()

	err := dispatcher.Publish(context.Background(), events.NewEvent(events.EventDonorRegistered, "not-a-payload"))
	require.NoError(t, err)
	assert.Empty(t, repo.rows)
}
