package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/blood4life/internal/domain"
	"github.com/spec-kit/blood4life/internal/events"
	"github.com/spec-kit/blood4life/internal/service"
)

// NotificationWorker turns domain events into stored, pushed notifications and
// broadcast updates.
type NotificationWorker struct {
	notifications *service.NotificationService
	stats         *service.StatsService
	logger        *zap.Logger
}

// NewNotificationWorker creates the worker.
func NewNotificationWorker(notifications *service.NotificationService, stats *service.StatsService, logger *zap.Logger) *NotificationWorker {
	return &NotificationWorker{notifications: notifications, stats: stats, logger: logger}
}

// Register subscribes the worker's handlers on the dispatcher.
func (w *NotificationWorker) Register(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventDonorRegistered, w.handleDonorRegistered)
	dispatcher.Subscribe(events.EventAppointmentBooked, w.handleAppointmentBooked)
	dispatcher.Subscribe(events.EventAppointmentCancelled, w.handleAppointmentCancelled)
}

func (w *NotificationWorker) handleDonorRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.DonorRegisteredPayload)
	if !ok {
		w.logger.Warn("unexpected payload", zap.String("event_type", string(event.Type)))
		return nil
	}

	message := fmt.Sprintf("Welcome %s! Your donor account is ready.", payload.FullName)
	if _, err := w.notifications.Create(ctx, domain.RecipientKindDonor, payload.DonorID, message); err != nil {
		w.logger.Error("welcome notification failed", zap.Int64("donor_id", payload.DonorID), zap.Error(err))
	}

	if err := w.stats.BroadcastTotalDonors(ctx); err != nil {
		w.logger.Warn("donor count broadcast failed", zap.Error(err))
	}
	return nil
}

func (w *NotificationWorker) handleAppointmentBooked(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AppointmentBookedPayload)
	if !ok {
		w.logger.Warn("unexpected payload", zap.String("event_type", string(event.Type)))
		return nil
	}

	hospitalMsg := fmt.Sprintf("%s booked a donation appointment for %s.",
		payload.DonorName, payload.ScheduledAt.Format("2006-01-02 15:04"))
	if _, err := w.notifications.Create(ctx, domain.RecipientKindHospital, payload.HospitalID, hospitalMsg); err != nil {
		w.logger.Error("appointment notification failed", zap.Int64("hospital_id", payload.HospitalID), zap.Error(err))
	}

	donorMsg := fmt.Sprintf("Your appointment for %s is confirmed.",
		payload.ScheduledAt.Format("2006-01-02 15:04"))
	if _, err := w.notifications.Create(ctx, domain.RecipientKindDonor, payload.DonorID, donorMsg); err != nil {
		w.logger.Error("appointment notification failed", zap.Int64("donor_id", payload.DonorID), zap.Error(err))
	}
	return nil
}

func (w *NotificationWorker) handleAppointmentCancelled(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AppointmentCancelledPayload)
	if !ok {
		w.logger.Warn("unexpected payload", zap.String("event_type", string(event.Type)))
		return nil
	}

	message := fmt.Sprintf("%s cancelled the appointment scheduled for %s.",
		payload.DonorName, payload.ScheduledAt.Format("2006-01-02 15:04"))
	if _, err := w.notifications.Create(ctx, domain.RecipientKindHospital, payload.HospitalID, message); err != nil {
		w.logger.Error("cancellation notification failed", zap.Int64("hospital_id", payload.HospitalID), zap.Error(err))
	}
	return nil
}
