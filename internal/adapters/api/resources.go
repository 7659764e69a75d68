package api

import (
	"MasarWeb/internal/core/domain"
	"MasarWeb/internal/core/ports"
	"context"
	"net/http"
	"net/url"
)

// List endpoints wrap their items under a named key.
type (
	teacherList struct {
		Teachers []domain.Teacher `json:"teachers" validate:"dive"`
	}
	schoolList struct {
		Schools []domain.School `json:"schools" validate:"dive"`
	}
	videoList struct {
		Videos []domain.Video `json:"videos" validate:"dive"`
	}
	acceptanceList struct {
		Acceptances []domain.Acceptance `json:"acceptances" validate:"dive"`
	}
)

func one[T any](ctx context.Context, c *Client, method, path string, in any) (*T, error) {
	env, err := call[T](ctx, c, method, path, in)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// --- Specialties ---

func (c *Client) ListSpecialties(ctx context.Context) ([]domain.Specialty, error) {
	env, err := call[[]domain.Specialty](ctx, c, http.MethodGet, "/specialties", nil)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) GetSpecialty(ctx context.Context, id string) (*domain.Specialty, error) {
	return one[domain.Specialty](ctx, c, http.MethodGet, "/specialties/"+url.PathEscape(id), nil)
}

func (c *Client) CreateSpecialty(ctx context.Context, in domain.SpecialtyInput) (*domain.Specialty, error) {
	return one[domain.Specialty](ctx, c, http.MethodPost, "/specialties", in)
}

func (c *Client) UpdateSpecialty(ctx context.Context, id string, in domain.SpecialtyInput) (*domain.Specialty, error) {
	return one[domain.Specialty](ctx, c, http.MethodPut, "/specialties/"+url.PathEscape(id), in)
}

func (c *Client) DeleteSpecialty(ctx context.Context, id string) error {
	return c.discard(ctx, http.MethodDelete, "/specialties/"+url.PathEscape(id))
}

// --- Teachers ---

// ListTeachers filters by specialty when specialtyID is set.
func (c *Client) ListTeachers(ctx context.Context, specialtyID string) ([]domain.Teacher, error) {
	path := "/teachers"
	if specialtyID != "" {
		path += "?" + url.Values{"specialty": {specialtyID}}.Encode()
	}
	env, err := call[teacherList](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return env.Data.Teachers, nil
}

func (c *Client) GetTeacher(ctx context.Context, id string) (*domain.Teacher, error) {
	return one[domain.Teacher](ctx, c, http.MethodGet, "/teachers/"+url.PathEscape(id), nil)
}

func (c *Client) GetMyTeacherProfile(ctx context.Context) (*domain.Teacher, error) {
	return one[domain.Teacher](ctx, c, http.MethodGet, "/teachers/me", nil)
}

func (c *Client) UpdateTeacher(ctx context.Context, id string, fields map[string]any) (*domain.Teacher, error) {
	return one[domain.Teacher](ctx, c, http.MethodPut, "/teachers/"+url.PathEscape(id), fields)
}

func (c *Client) DeleteTeacher(ctx context.Context, id string) error {
	return c.discard(ctx, http.MethodDelete, "/teachers/"+url.PathEscape(id))
}

// --- Schools ---

func (c *Client) ListSchools(ctx context.Context) ([]domain.School, error) {
	env, err := call[schoolList](ctx, c, http.MethodGet, "/schools", nil)
	if err != nil {
		return nil, err
	}
	return env.Data.Schools, nil
}

func (c *Client) GetSchool(ctx context.Context, id string) (*domain.School, error) {
	return one[domain.School](ctx, c, http.MethodGet, "/schools/"+url.PathEscape(id), nil)
}

func (c *Client) UpdateSchool(ctx context.Context, id string, fields map[string]any) (*domain.School, error) {
	return one[domain.School](ctx, c, http.MethodPut, "/schools/"+url.PathEscape(id), fields)
}

func (c *Client) DeleteSchool(ctx context.Context, id string) error {
	return c.discard(ctx, http.MethodDelete, "/schools/"+url.PathEscape(id))
}

// --- Videos (upload lives in videos.go) ---

func (c *Client) ListVideos(ctx context.Context) ([]domain.Video, error) {
	env, err := call[videoList](ctx, c, http.MethodGet, "/videos", nil)
	if err != nil {
		return nil, err
	}
	return env.Data.Videos, nil
}

func (c *Client) GetVideo(ctx context.Context, id string) (*domain.Video, error) {
	return one[domain.Video](ctx, c, http.MethodGet, "/videos/"+url.PathEscape(id), nil)
}

func (c *Client) ListVideosBySpecialty(ctx context.Context, specialtyID string) ([]domain.Video, error) {
	env, err := call[videoList](ctx, c, http.MethodGet, "/videos/specialty/"+url.PathEscape(specialtyID), nil)
	if err != nil {
		return nil, err
	}
	return env.Data.Videos, nil
}

func (c *Client) DeleteVideo(ctx context.Context, id string) error {
	return c.discard(ctx, http.MethodDelete, "/videos/"+url.PathEscape(id))
}

// --- Acceptances ---

func (c *Client) AcceptTeacher(ctx context.Context, in ports.AcceptRequest) (*domain.Acceptance, error) {
	return one[domain.Acceptance](ctx, c, http.MethodPost, "/acceptance/accept", in)
}

func (c *Client) ListSchoolAcceptances(ctx context.Context) ([]domain.Acceptance, error) {
	return c.listAcceptances(ctx, "/acceptance/school")
}

func (c *Client) ListAllAcceptances(ctx context.Context) ([]domain.Acceptance, error) {
	return c.listAcceptances(ctx, "/acceptance/all")
}

func (c *Client) listAcceptances(ctx context.Context, path string) ([]domain.Acceptance, error) {
	env, err := call[acceptanceList](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return env.Data.Acceptances, nil
}

func (c *Client) UpdateAcceptanceStatus(ctx context.Context, id string, in ports.AcceptanceStatusUpdate) (*domain.Acceptance, error) {
	return one[domain.Acceptance](ctx, c, http.MethodPut, "/acceptance/"+url.PathEscape(id)+"/status", in)
}

func (c *Client) DeleteAcceptance(ctx context.Context, id string) error {
	return c.discard(ctx, http.MethodDelete, "/acceptance/"+url.PathEscape(id))
}
