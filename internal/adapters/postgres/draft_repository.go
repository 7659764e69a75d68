package postgres

import (
	"MasarWeb/internal/adapters/drafts"
	"MasarWeb/internal/core/domain"
	"MasarWeb/internal/core/ports"
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

const draftsTable = "registration_drafts"

const createDraftsTable = `
CREATE TABLE IF NOT EXISTS registration_drafts (
	wizard_id  TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS registration_drafts_expires_at_idx ON registration_drafts (expires_at);`

// executor is satisfied by *pgxpool.Pool and by pgxmock pools.
type executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ ports.DraftRepository = (*DraftRepository)(nil)

// DraftRepository keeps wizard drafts in a jsonb column with an expiry.
type DraftRepository struct {
	exec    executor
	codec   *drafts.Codec
	ttl     time.Duration
	now     func() time.Time
	builder sq.StatementBuilderType
	log     zerolog.Logger
}

func NewDraftRepository(exec executor, codec *drafts.Codec, ttl time.Duration, baseLogger *zerolog.Logger) *DraftRepository {
	return &DraftRepository{
		exec:    exec,
		codec:   codec,
		ttl:     ttl,
		now:     func() time.Time { return time.Now().UTC() },
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		log:     baseLogger.With().Str("component", "postgres_drafts").Logger(),
	}
}

// Migrate creates the drafts table if it does not exist.
func (r *DraftRepository) Migrate(ctx context.Context) error {
	if _, err := r.exec.Exec(ctx, createDraftsTable); err != nil {
		return fmt.Errorf("create %s: %w", draftsTable, err)
	}
	return nil
}

func (r *DraftRepository) Load(ctx context.Context, wizardID string) (*domain.RegistrationSession, error) {
	query, args, err := r.builder.
		Select("payload").
		From(draftsTable).
		Where(sq.Eq{"wizard_id": wizardID}).
		Where(sq.Gt{"expires_at": r.now()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load draft: %w", err)
	}

	var payload []byte
	if err := r.exec.QueryRow(ctx, query, args...).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrDraftNotFound
		}
		r.log.Error().Err(err).Msg("Failed to load draft")
		return nil, fmt.Errorf("load draft: %w", err)
	}

	s, err := r.codec.Decode(payload)
	if err != nil {
		r.log.Warn().Err(err).Msg("Undecodable draft treated as missing")
		return nil, ports.ErrDraftNotFound
	}
	return s, nil
}

func (r *DraftRepository) Save(ctx context.Context, wizardID string, s *domain.RegistrationSession) error {
	now := r.now()
	stored := s.Clone()
	stored.UpdatedAt = now

	payload, err := r.codec.Encode(stored)
	if err != nil {
		return err
	}

	query, args, err := r.builder.
		Insert(draftsTable).
		Columns("wizard_id", "payload", "expires_at", "updated_at").
		Values(wizardID, payload, now.Add(r.ttl), now).
		Suffix("ON CONFLICT (wizard_id) DO UPDATE SET payload = EXCLUDED.payload, expires_at = EXCLUDED.expires_at, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build save draft: %w", err)
	}

	if _, err := r.exec.Exec(ctx, query, args...); err != nil {
		r.log.Error().Err(err).Msg("Failed to save draft")
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (r *DraftRepository) Delete(ctx context.Context, wizardID string) error {
	query, args, err := r.builder.
		Delete(draftsTable).
		Where(sq.Eq{"wizard_id": wizardID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete draft: %w", err)
	}
	if _, err := r.exec.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// PurgeExpired removes expired rows and returns how many were deleted.
func (r *DraftRepository) PurgeExpired(ctx context.Context) (int64, error) {
	query, args, err := r.builder.
		Delete(draftsTable).
		Where(sq.LtOrEq{"expires_at": r.now()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build purge drafts: %w", err)
	}
	tag, err := r.exec.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("purge drafts: %w", err)
	}
	return tag.RowsAffected(), nil
}

// RunPurger calls PurgeExpired on every tick until ctx is done.
func (r *DraftRepository) RunPurger(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.PurgeExpired(ctx)
			if err != nil {
				r.log.Error().Err(err).Msg("Failed to purge expired drafts")
				continue
			}
			if n > 0 {
				r.log.Debug().Int64("removed", n).Msg("Purged expired drafts")
			}
		}
	}
}
