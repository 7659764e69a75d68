// Package mocks provides testify mocks of the core ports for package tests.
package mocks

import (
	"MasarWeb/internal/core/domain"
	"MasarWeb/internal/core/ports"
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

var (
	_ ports.AuthAPI         = (*AuthAPI)(nil)
	_ ports.MarketplaceAPI  = (*MarketplaceAPI)(nil)
	_ ports.EventBus        = (*EventBus)(nil)
	_ ports.DraftRepository = (*DraftRepository)(nil)
	_ ports.Notifier        = (*Notifier)(nil)
)

// --- AuthAPI ---

type AuthAPI struct {
	mock.Mock
}

func authResult(args mock.Arguments) (*ports.AuthResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.AuthResult), args.Error(1)
}

func (m *AuthAPI) RegisterTeacher(ctx context.Context, in ports.TeacherRegistration) (*ports.AuthResult, error) {
	return authResult(m.Called(ctx, in))
}

func (m *AuthAPI) RegisterSchool(ctx context.Context, in ports.SchoolRegistration) (*ports.AuthResult, error) {
	return authResult(m.Called(ctx, in))
}

func (m *AuthAPI) LoginTeacher(ctx context.Context, in ports.Credentials) (*ports.AuthResult, error) {
	return authResult(m.Called(ctx, in))
}

func (m *AuthAPI) LoginSchool(ctx context.Context, in ports.Credentials) (*ports.AuthResult, error) {
	return authResult(m.Called(ctx, in))
}

func (m *AuthAPI) LoginAdmin(ctx context.Context, in ports.AdminCredentials) (*ports.AuthResult, error) {
	return authResult(m.Called(ctx, in))
}

// --- MarketplaceAPI ---

type MarketplaceAPI struct {
	mock.Mock
}

func ptrResult[T any](args mock.Arguments) (*T, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func sliceResult[T any](args mock.Arguments) ([]T, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MarketplaceAPI) ListSpecialties(ctx context.Context) ([]domain.Specialty, error) {
	return sliceResult[domain.Specialty](m.Called(ctx))
}

func (m *MarketplaceAPI) GetSpecialty(ctx context.Context, id string) (*domain.Specialty, error) {
	return ptrResult[domain.Specialty](m.Called(ctx, id))
}

func (m *MarketplaceAPI) CreateSpecialty(ctx context.Context, in domain.SpecialtyInput) (*domain.Specialty, error) {
	return ptrResult[domain.Specialty](m.Called(ctx, in))
}

func (m *MarketplaceAPI) UpdateSpecialty(ctx context.Context, id string, in domain.SpecialtyInput) (*domain.Specialty, error) {
	return ptrResult[domain.Specialty](m.Called(ctx, id, in))
}

func (m *MarketplaceAPI) DeleteSpecialty(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MarketplaceAPI) ListTeachers(ctx context.Context, specialtyID string) ([]domain.Teacher, error) {
	return sliceResult[domain.Teacher](m.Called(ctx, specialtyID))
}

func (m *MarketplaceAPI) GetTeacher(ctx context.Context, id string) (*domain.Teacher, error) {
	return ptrResult[domain.Teacher](m.Called(ctx, id))
}

func (m *MarketplaceAPI) GetMyTeacherProfile(ctx context.Context) (*domain.Teacher, error) {
	return ptrResult[domain.Teacher](m.Called(ctx))
}

func (m *MarketplaceAPI) UpdateTeacher(ctx context.Context, id string, fields map[string]any) (*domain.Teacher, error) {
	return ptrResult[domain.Teacher](m.Called(ctx, id, fields))
}

func (m *MarketplaceAPI) DeleteTeacher(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MarketplaceAPI) ListSchools(ctx context.Context) ([]domain.School, error) {
	return sliceResult[domain.School](m.Called(ctx))
}

func (m *MarketplaceAPI) GetSchool(ctx context.Context, id string) (*domain.School, error) {
	return ptrResult[domain.School](m.Called(ctx, id))
}

func (m *MarketplaceAPI) UpdateSchool(ctx context.Context, id string, fields map[string]any) (*domain.School, error) {
	return ptrResult[domain.School](m.Called(ctx, id, fields))
}

func (m *MarketplaceAPI) DeleteSchool(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MarketplaceAPI) UploadVideo(ctx context.Context, in ports.VideoUpload) (*domain.Video, error) {
	return ptrResult[domain.Video](m.Called(ctx, in))
}

func (m *MarketplaceAPI) ListVideos(ctx context.Context) ([]domain.Video, error) {
	return sliceResult[domain.Video](m.Called(ctx))
}

func (m *MarketplaceAPI) GetVideo(ctx context.Context, id string) (*domain.Video, error) {
	return ptrResult[domain.Video](m.Called(ctx, id))
}

func (m *MarketplaceAPI) ListVideosBySpecialty(ctx context.Context, specialtyID string) ([]domain.Video, error) {
	return sliceResult[domain.Video](m.Called(ctx, specialtyID))
}

func (m *MarketplaceAPI) DeleteVideo(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MarketplaceAPI) AcceptTeacher(ctx context.Context, in ports.AcceptRequest) (*domain.Acceptance, error) {
	return ptrResult[domain.Acceptance](m.Called(ctx, in))
}

func (m *MarketplaceAPI) ListSchoolAcceptances(ctx context.Context) ([]domain.Acceptance, error) {
	return sliceResult[domain.Acceptance](m.Called(ctx))
}

func (m *MarketplaceAPI) ListAllAcceptances(ctx context.Context) ([]domain.Acceptance, error) {
	return sliceResult[domain.Acceptance](m.Called(ctx))
}

func (m *MarketplaceAPI) UpdateAcceptanceStatus(ctx context.Context, id string, in ports.AcceptanceStatusUpdate) (*domain.Acceptance, error) {
	return ptrResult[domain.Acceptance](m.Called(ctx, id, in))
}

func (m *MarketplaceAPI) DeleteAcceptance(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// --- EventBus ---

// EventBus records publishes synchronously; Subscribe is a no-op.
type EventBus struct {
	mu     sync.Mutex
	Events []ports.Event
}

func (b *EventBus) Publish(ctx context.Context, topic string, data interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Events = append(b.Events, ports.Event{Topic: topic, Data: data})
	return nil
}

func (b *EventBus) Subscribe(topic string, handler ports.EventHandler) {}

// Topics returns the published topics in order.
func (b *EventBus) Topics() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	topics := make([]string, len(b.Events))
	for i, e := range b.Events {
		topics[i] = e.Topic
	}
	return topics
}

// --- DraftRepository ---

type DraftRepository struct {
	mock.Mock
}

func (m *DraftRepository) Load(ctx context.Context, wizardID string) (*domain.RegistrationSession, error) {
	return ptrResult[domain.RegistrationSession](m.Called(ctx, wizardID))
}

func (m *DraftRepository) Save(ctx context.Context, wizardID string, s *domain.RegistrationSession) error {
	return m.Called(ctx, wizardID, s).Error(0)
}

func (m *DraftRepository) Delete(ctx context.Context, wizardID string) error {
	return m.Called(ctx, wizardID).Error(0)
}

// --- Notifier ---

type Notifier struct {
	mock.Mock
}

func (m *Notifier) Notify(ctx context.Context, text string) error {
	return m.Called(ctx, text).Error(0)
}
