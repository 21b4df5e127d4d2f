package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/blood4life/internal/domain"
	apperrors "github.com/spec-kit/blood4life/pkg/util"
)

// memNotificationRepo is an in-memory stand-in for the Postgres repository.
type memNotificationRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   []*domain.Notification
	log    *[]string
}

func newMemNotificationRepo(log *[]string) *memNotificationRepo {
	return &memNotificationRepo{nextID: 1, log: log}
}

func (r *memNotificationRepo) Create(_ context.Context, notification *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification.ID = r.nextID
	r.nextID++
	notification.Read = false
	notification.CreatedAt = time.Now()
	stored := *notification
	r.rows = append(r.rows, &stored)
	if r.log != nil {
		*r.log = append(*r.log, "store")
	}
	return nil
}

func (r *memNotificationRepo) ListForRecipient(_ context.Context, kind domain.RecipientKind, recipientID int64) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Notification, 0)
	for i := len(r.rows) - 1; i >= 0; i-- {
		row := r.rows[i]
		if row.RecipientKind == kind && row.RecipientID == recipientID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *memNotificationRepo) ListUnreadForRecipient(_ context.Context, kind domain.RecipientKind, recipientID int64) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Notification, 0)
	for i := len(r.rows) - 1; i >= 0; i-- {
		row := r.rows[i]
		if row.RecipientKind == kind && row.RecipientID == recipientID && !row.Read {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *memNotificationRepo) CountUnreadForRecipient(_ context.Context, kind domain.RecipientKind, recipientID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, row := range r.rows {
		if row.RecipientKind == kind && row.RecipientID == recipientID && !row.Read {
			count++
		}
	}
	return count, nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, id int64) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == id {
			row.Read = true
			out := *row
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memNotificationRepo) MarkAllRead(_ context.Context, kind domain.RecipientKind, recipientID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.RecipientKind == kind && row.RecipientID == recipientID {
			row.Read = true
		}
	}
	return nil
}

// stubPublisher records publishes so ordering against the store is observable.
type stubPublisher struct {
	mu         sync.Mutex
	log        *[]string
	published  []domain.Notification
	broadcasts []string
	err        error
}

func (p *stubPublisher) PublishNotification(_ context.Context, notification *domain.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.log != nil {
		*p.log = append(*p.log, "publish")
	}
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, *notification)
	return nil
}

func (p *stubPublisher) Broadcast(_ context.Context, topic string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.broadcasts = append(p.broadcasts, topic)
	return nil
}

func newTestNotificationService(log *[]string) (*NotificationService, *memNotificationRepo, *stubPublisher) {
	repo := newMemNotificationRepo(log)
	publisher := &stubPublisher{log: log}
	return NewNotificationService(repo, publisher, zap.NewNop()), repo, publisher
}

func Test_Create_StoresBeforePublishing(t *testing.T) {
	var log []string
	svc, _, publisher := newTestNotificationService(&log)

	notification, err := svc.Create(context.Background(), domain.RecipientKindDonor, 42, "donation booked")
	require.NoError(t, err)
	require.NotZero(t, notification.ID)
	assert.False(t, notification.Read)

	require.Equal(t, []string{"store", "publish"}, log)
	require.Len(t, publisher.published, 1)
	assert.Equal(t, notification.ID, publisher.published[0].ID)
}

// The push channel is best-effort; a failed publish never fails Create. The
// durable row is what lets the subscriber recover on reconnect.
func Test_Create_PublishFailureIsSwallowed(t *testing.T) {
	var log []string
	svc, repo, publisher := newTestNotificationService(&log)
	publisher.err = assert.AnError

	notification, err := svc.Create(context.Background(), domain.RecipientKindHospital, 3, "new appointment")
	require.NoError(t, err)
	require.NotNil(t, notification)

	count, err := repo.CountUnreadForRecipient(context.Background(), domain.RecipientKindHospital, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func Test_Create_RejectsUnsupportedRecipientKind(t *testing.T) {
	var log []string
	svc, _, _ := newTestNotificationService(&log)

	_, err := svc.Create(context.Background(), domain.RecipientKind("admin"), 1, "nope")
	require.Error(t, err)
	assert.Empty(t, log, "nothing stored or published")
}

func Test_Create_RejectsEmptyMessage(t *testing.T) {
	svc, _, _ := newTestNotificationService(nil)

	_, err := svc.Create(context.Background(), domain.RecipientKindDonor, 42, "   ")
	require.Error(t, err)
}

func Test_UnreadCount_IncrementsByOnePerCreate(t *testing.T) {
	svc, _, _ := newTestNotificationService(nil)
	ctx := context.Background()

	before, err := svc.UnreadCountFor(ctx, domain.RecipientKindDonor, 42)
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.RecipientKindDonor, 42, "msg")
	require.NoError(t, err)

	after, err := svc.UnreadCountFor(ctx, domain.RecipientKindDonor, 42)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)
}

func Test_ListFor_NewestFirstAndScopedToRecipient(t *testing.T) {
	svc, _, _ := newTestNotificationService(nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, domain.RecipientKindDonor, 42, "first")
	require.NoError(t, err)
	second, err := svc.Create(ctx, domain.RecipientKindDonor, 42, "second")
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.RecipientKindDonor, 99, "other donor")
	require.NoError(t, err)

	list, err := svc.ListFor(ctx, domain.RecipientKindDonor, 42)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func Test_MarkRead_IsIdempotent(t *testing.T) {
	svc, _, _ := newTestNotificationService(nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.RecipientKindDonor, 42, "msg")
	require.NoError(t, err)

	once, err := svc.MarkRead(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, once.Read)

	twice, err := svc.MarkRead(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, twice.Read)
}

func Test_MarkRead_UnknownIDIsNotFound(t *testing.T) {
	svc, _, _ := newTestNotificationService(nil)

	_, err := svc.MarkRead(context.Background(), 12345)
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func Test_MarkAllRead_ConvergesAndStaysConverged(t *testing.T) {
	svc, _, _ := newTestNotificationService(nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, domain.RecipientKindHospital, 3, "msg")
		require.NoError(t, err)
	}

	require.NoError(t, svc.MarkAllRead(ctx, domain.RecipientKindHospital, 3))
	count, err := svc.UnreadCountFor(ctx, domain.RecipientKindHospital, 3)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Redundant call is safe.
	require.NoError(t, svc.MarkAllRead(ctx, domain.RecipientKindHospital, 3))
	count, err = svc.UnreadCountFor(ctx, domain.RecipientKindHospital, 3)
	require.NoError(t, err)
	assert.Zero(t, count)
}
