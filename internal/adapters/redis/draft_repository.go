package redis

import (
	"MasarWeb/internal/adapters/drafts"
	"MasarWeb/internal/core/domain"
	"MasarWeb/internal/core/ports"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultKeyPrefix namespaces wizard drafts.
const DefaultKeyPrefix = "wizard"

var _ ports.DraftRepository = (*DraftRepository)(nil)

// DraftRepository stores each draft as one string key with a TTL.
type DraftRepository struct {
	client *red.Client
	codec  *drafts.Codec
	prefix string
	ttl    time.Duration
	log    zerolog.Logger
}

func NewDraftRepository(client *red.Client, codec *drafts.Codec, prefix string, ttl time.Duration, baseLogger *zerolog.Logger) *DraftRepository {
	prefix = strings.TrimRight(prefix, ":")
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &DraftRepository{
		client: client,
		codec:  codec,
		prefix: prefix,
		ttl:    ttl,
		log:    baseLogger.With().Str("component", "redis_drafts").Logger(),
	}
}

func (r *DraftRepository) key(wizardID string) string {
	return fmt.Sprintf("%s:%s", r.prefix, wizardID)
}

func (r *DraftRepository) Load(ctx context.Context, wizardID string) (*domain.RegistrationSession, error) {
	b, err := r.client.Get(ctx, r.key(wizardID)).Bytes()
	if errors.Is(err, red.Nil) {
		return nil, ports.ErrDraftNotFound
	}
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to load draft")
		return nil, fmt.Errorf("redis get draft: %w", err)
	}

	s, err := r.codec.Decode(b)
	if err != nil {
		// An unreadable draft is as good as none; drop it so the wizard restarts.
		r.log.Warn().Err(err).Msg("Discarding undecodable draft")
		_ = r.client.Del(ctx, r.key(wizardID)).Err()
		return nil, ports.ErrDraftNotFound
	}
	return s, nil
}

func (r *DraftRepository) Save(ctx context.Context, wizardID string, s *domain.RegistrationSession) error {
	stored := s.Clone()
	stored.UpdatedAt = time.Now().UTC()

	b, err := r.codec.Encode(stored)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(wizardID), b, r.ttl).Err(); err != nil {
		r.log.Error().Err(err).Msg("Failed to save draft")
		return fmt.Errorf("redis set draft: %w", err)
	}
	return nil
}

func (r *DraftRepository) Delete(ctx context.Context, wizardID string) error {
	if err := r.client.Del(ctx, r.key(wizardID)).Err(); err != nil {
		return fmt.Errorf("redis del draft: %w", err)
	}
	return nil
}
