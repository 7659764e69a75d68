package drafts

import (
	"MasarWeb/internal/core/domain"
	"MasarWeb/internal/core/ports"
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var _ ports.DraftRepository = (*MemoryRepository)(nil)

type memoryEntry struct {
	session   *domain.RegistrationSession
	expiresAt time.Time
}

// MemoryRepository keeps drafts in process. Drafts are lost on restart.
type MemoryRepository struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	ttl   time.Duration
	now   func() time.Time
	log   zerolog.Logger
}

func NewMemoryRepository(ttl time.Duration, baseLogger *zerolog.Logger) *MemoryRepository {
	return &MemoryRepository{
		items: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
		log:   baseLogger.With().Str("component", "memory_drafts").Logger(),
	}
}

func (r *MemoryRepository) Load(ctx context.Context, wizardID string) (*domain.RegistrationSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.items[wizardID]
	if !ok {
		return nil, ports.ErrDraftNotFound
	}
	if !r.now().Before(e.expiresAt) {
		delete(r.items, wizardID)
		return nil, ports.ErrDraftNotFound
	}
	return e.session.Clone(), nil
}

func (r *MemoryRepository) Save(ctx context.Context, wizardID string, s *domain.RegistrationSession) error {
	now := r.now()
	stored := s.Clone()
	stored.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[wizardID] = memoryEntry{session: stored, expiresAt: now.Add(r.ttl)}
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, wizardID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, wizardID)
	return nil
}

// Sweep drops expired drafts and returns how many were removed.
func (r *MemoryRepository) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, e := range r.items {
		if !now.Before(e.expiresAt) {
			delete(r.items, id)
			removed++
		}
	}
	return removed
}

// Run sweeps on every tick until ctx is done.
func (r *MemoryRepository) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.log.Debug().Int("removed", n).Msg("Swept expired drafts")
			}
		}
	}
}
