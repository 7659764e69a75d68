package telegram

import (
	"MasarWeb/internal/core/domain"
	"MasarWeb/internal/core/ports"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Relay forwards selected bus events to a Notifier.
type Relay struct {
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewRelay(notifier ports.Notifier, baseLogger *zerolog.Logger) *Relay {
	return &Relay{
		notifier: notifier,
		log:      baseLogger.With().Str("component", "tg_relay").Logger(),
	}
}

// Subscribe registers the relay's handlers on the bus.
func (r *Relay) Subscribe(bus ports.EventBus) {
	bus.Subscribe(ports.TopicRegistrationCompleted, r.handleRegistration)
	bus.Subscribe(ports.TopicAcceptanceRequested, r.handleAcceptance)
	r.log.Info().Msg("Subscribed to registration and acceptance topics")
}

func (r *Relay) handleRegistration(ctx context.Context, event ports.Event) error {
	e, ok := event.Data.(ports.RegistrationCompleted)
	if !ok {
		r.log.Error().Str("topic", event.Topic).Msg("Received bad registration event from bus")
		return nil
	}
	return r.notifier.Notify(ctx, FormatRegistration(e))
}

func (r *Relay) handleAcceptance(ctx context.Context, event ports.Event) error {
	e, ok := event.Data.(ports.AcceptanceRequested)
	if !ok {
		r.log.Error().Str("topic", event.Topic).Msg("Received bad acceptance event from bus")
		return nil
	}
	return r.notifier.Notify(ctx, FormatAcceptance(e))
}

// FormatRegistration renders the admin notice for a new account.
func FormatRegistration(e ports.RegistrationCompleted) string {
	kind := "معلم"
	if e.UserType == domain.UserTypeSchool {
		kind = "مدرسة"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "تسجيل جديد: %s\n", kind)
	fmt.Fprintf(&b, "الاسم: %s\n", e.Name)
	if e.Contact != "" {
		fmt.Fprintf(&b, "التواصل: %s\n", e.Contact)
	}
	fmt.Fprintf(&b, "UserID: %s", e.UserID)
	return b.String()
}

// FormatAcceptance renders the admin notice for a new acceptance request.
func FormatAcceptance(e ports.AcceptanceRequested) string {
	school := e.SchoolName
	if school == "" {
		school = e.SchoolUserID
	}
	return fmt.Sprintf("طلب قبول جديد\nالمدرسة: %s\nTeacherID: %s\nAcceptanceID: %s", school, e.TeacherID, e.AcceptanceID)
}
