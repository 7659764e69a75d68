package ports

import (
	"MasarWeb/internal/core/domain"
	"context"
	"errors"
)

// ErrDraftNotFound is returned when no live draft exists for a wizard id.
var ErrDraftNotFound = errors.New("registration draft not found")

// DraftRepository persists wizard state between requests.
type DraftRepository interface {
	// Load returns ErrDraftNotFound for unknown or expired ids.
	Load(ctx context.Context, wizardID string) (*domain.RegistrationSession, error)

	// Save writes the draft and refreshes its expiry.
	Save(ctx context.Context, wizardID string, s *domain.RegistrationSession) error

	// Delete is a no-op for unknown ids.
	Delete(ctx context.Context, wizardID string) error
}
