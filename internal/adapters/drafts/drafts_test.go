package drafts

import (
	"MasarWeb/internal/adapters/security"
	"MasarWeb/internal/core/domain"
	"MasarWeb/internal/core/ports"
	"context"
	"crypto/rand"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDraft() *domain.RegistrationSession {
	s := domain.NewRegistrationSession()
	s.UserType = domain.UserTypeTeacher
	s.CurrentStep = 2
	s.Teacher.FullName = "Fatma"
	s.Teacher.Password = "secret1"
	s.Teacher.Specialties = []string{"sp-1"}
	s.Teacher.WorkedInOmanBefore = domain.Yes
	s.School.Password = "school-pass"
	return s
}

func newSealer(t *testing.T) ports.SecurityPort {
	t.Helper()
	nopLogger := zerolog.Nop()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	svc, err := security.NewAESService(key, &nopLogger)
	require.NoError(t, err)
	return svc
}

func TestCodec_SealsPasswords(t *testing.T) {
	codec := NewCodec(newSealer(t))
	in := sampleDraft()

	b, err := codec.Encode(in)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(b), "secret1"))
	assert.False(t, strings.Contains(string(b), "school-pass"))
	assert.True(t, strings.Contains(string(b), "Fatma"))
	assert.Equal(t, "secret1", in.Teacher.Password, "input is not mutated")

	out, err := codec.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestCodec_PlainAndEmpty(t *testing.T) {
	codec := NewCodec(nil)
	in := domain.NewRegistrationSession()

	b, err := codec.Encode(in)
	require.NoError(t, err)
	out, err := codec.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = codec.Decode([]byte("{broken"))
	assert.Error(t, err)
}

func TestCodec_WrongKeyFails(t *testing.T) {
	b, err := NewCodec(newSealer(t)).Encode(sampleDraft())
	require.NoError(t, err)

	_, err = NewCodec(newSealer(t)).Decode(b)
	assert.Error(t, err)
}

func newTestMemoryRepo(ttl time.Duration) (*MemoryRepository, *time.Time) {
	nopLogger := zerolog.Nop()
	r := NewMemoryRepository(ttl, &nopLogger)
	clock := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return clock }
	return r, &clock
}

func TestMemoryRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	r, clock := newTestMemoryRepo(time.Hour)

	_, err := r.Load(ctx, "w1")
	assert.ErrorIs(t, err, ports.ErrDraftNotFound)

	in := sampleDraft()
	require.NoError(t, r.Save(ctx, "w1", in))

	in.Teacher.FullName = "mutated after save"
	got, err := r.Load(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, "Fatma", got.Teacher.FullName)
	assert.Equal(t, *clock, got.UpdatedAt)

	require.NoError(t, r.Delete(ctx, "w1"))
	require.NoError(t, r.Delete(ctx, "w1"), "delete is idempotent")
	_, err = r.Load(ctx, "w1")
	assert.ErrorIs(t, err, ports.ErrDraftNotFound)
}

func TestMemoryRepository_Expiry(t *testing.T) {
	ctx := context.Background()
	r, clock := newTestMemoryRepo(time.Hour)

	require.NoError(t, r.Save(ctx, "old", sampleDraft()))
	*clock = clock.Add(30 * time.Minute)
	require.NoError(t, r.Save(ctx, "fresh", sampleDraft()))

	*clock = clock.Add(45 * time.Minute)
	_, err := r.Load(ctx, "old")
	assert.ErrorIs(t, err, ports.ErrDraftNotFound)

	_, err = r.Load(ctx, "fresh")
	assert.NoError(t, err)

	*clock = clock.Add(time.Hour)
	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 0, r.Sweep())
}
