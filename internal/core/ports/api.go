package ports

import (
	"MasarWeb/internal/core/domain"
	"context"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrUnauthorized is returned for any upstream 401. The session is void.
	ErrUnauthorized = errors.New("upstream rejected the access token")

	// ErrUnexpectedResponse means the upstream body did not match the expected shape.
	ErrUnexpectedResponse = errors.New("unexpected upstream response")
)

// APIError is a non-2xx upstream response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned status %d", e.Status)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.Status, e.Message)
}

// Is lets errors.Is(err, ErrUnauthorized) match any 401.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == 401
}

// ErrorMessage extracts the upstream's own message, or returns fallback.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

type accessTokenKey struct{}

// WithAccessToken attaches the caller's bearer token to ctx.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

// AccessTokenFrom returns the token set by WithAccessToken, or "".
func AccessTokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey{}).(string)
	return token
}

// TeacherRegistration is the payload for POST /auth/register/teacher.
type TeacherRegistration struct {
	FullName              string   `json:"fullName"`
	Password              string   `json:"password"`
	PhoneNumber           string   `json:"phoneNumber"`
	NationalID            string   `json:"nationalID"`
	Gender                string   `json:"gender"`
	Age                   int      `json:"age"`
	Address               string   `json:"address"`
	AcademicQualification string   `json:"academicQualification"`
	Diploma               string   `json:"diploma"`
	Courses               []string `json:"courses"`
	Specialties           []string `json:"specialties"`
	TaughtStages          []string `json:"taughtStages"`
	WorkedInOmanBefore    bool     `json:"workedInOmanBefore"`
}

// SchoolRegistration is the payload for POST /auth/register/school.
type SchoolRegistration struct {
	ManagerName          string   `json:"managerName"`
	Email                string   `json:"email"`
	Password             string   `json:"password"`
	WhatsappPhone        string   `json:"whatsappPhone"`
	SchoolName           string   `json:"schoolName"`
	SchoolLocation       string   `json:"schoolLocation"`
	StagesNeeded         []string `json:"stagesNeeded"`
	SpecialtiesNeeded    []string `json:"specialtiesNeeded"`
	ExpectedSalaryRange  string   `json:"expectedSalaryRange"`
	HousingProvided      bool     `json:"housingProvided"`
	HousingAllowance     string   `json:"housingAllowance"`
	FlightTicketProvided string   `json:"flightTicketProvided"`
}

type Credentials struct {
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

type AdminCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthUser is the user object returned by the auth endpoints.
type AuthUser struct {
	ID          string `json:"_id" validate:"required"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	ManagerName string `json:"managerName"`
	Name        string `json:"name"`
	Role        string `json:"role"`
}

// ToUser maps the API user onto the cookie identity. The display name falls
// back from fullName to managerName to name; an empty role takes fallback.
func (u AuthUser) ToUser(fallback domain.Role) domain.User {
	name := u.FullName
	if name == "" {
		name = u.ManagerName
	}
	if name == "" {
		name = u.Name
	}
	role := u.Role
	if role == "" {
		role = string(fallback)
	}
	return domain.User{ID: u.ID, Email: u.Email, Name: name, Role: role}
}

// AuthResult is the data of a successful login or registration.
type AuthResult struct {
	AccessToken string   `json:"accessToken" validate:"required"`
	User        AuthUser `json:"user"`
	Message     string   `json:"-"`
}

// AuthAPI covers registration and login.
type AuthAPI interface {
	RegisterTeacher(ctx context.Context, in TeacherRegistration) (*AuthResult, error)
	RegisterSchool(ctx context.Context, in SchoolRegistration) (*AuthResult, error)
	LoginTeacher(ctx context.Context, in Credentials) (*AuthResult, error)
	LoginSchool(ctx context.Context, in Credentials) (*AuthResult, error)
	LoginAdmin(ctx context.Context, in AdminCredentials) (*AuthResult, error)
}

// VideoUpload is a multipart video upload forwarded to the API.
type VideoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	Title       string
	SpecialtyID string
}

// AcceptRequest is a school's request to hire a teacher.
type AcceptRequest struct {
	TeacherID string `json:"teacherId"`
	Notes     string `json:"notes,omitempty"`
}

type AcceptanceStatusUpdate struct {
	Status     domain.AcceptanceStatus `json:"status"`
	AdminNotes string                  `json:"adminNotes,omitempty"`
}

type SpecialtyAPI interface {
	ListSpecialties(ctx context.Context) ([]domain.Specialty, error)
	GetSpecialty(ctx context.Context, id string) (*domain.Specialty, error)
	CreateSpecialty(ctx context.Context, in domain.SpecialtyInput) (*domain.Specialty, error)
	UpdateSpecialty(ctx context.Context, id string, in domain.SpecialtyInput) (*domain.Specialty, error)
	DeleteSpecialty(ctx context.Context, id string) error
}

type TeacherAPI interface {
	ListTeachers(ctx context.Context, specialtyID string) ([]domain.Teacher, error)
	GetTeacher(ctx context.Context, id string) (*domain.Teacher, error)
	GetMyTeacherProfile(ctx context.Context) (*domain.Teacher, error)
	UpdateTeacher(ctx context.Context, id string, fields map[string]any) (*domain.Teacher, error)
	DeleteTeacher(ctx context.Context, id string) error
}

type SchoolAPI interface {
	ListSchools(ctx context.Context) ([]domain.School, error)
	GetSchool(ctx context.Context, id string) (*domain.School, error)
	UpdateSchool(ctx context.Context, id string, fields map[string]any) (*domain.School, error)
	DeleteSchool(ctx context.Context, id string) error
}

type VideoAPI interface {
	UploadVideo(ctx context.Context, in VideoUpload) (*domain.Video, error)
	ListVideos(ctx context.Context) ([]domain.Video, error)
	GetVideo(ctx context.Context, id string) (*domain.Video, error)
	ListVideosBySpecialty(ctx context.Context, specialtyID string) ([]domain.Video, error)
	DeleteVideo(ctx context.Context, id string) error
}

type AcceptanceAPI interface {
	AcceptTeacher(ctx context.Context, in AcceptRequest) (*domain.Acceptance, error)
	ListSchoolAcceptances(ctx context.Context) ([]domain.Acceptance, error)
	ListAllAcceptances(ctx context.Context) ([]domain.Acceptance, error)
	UpdateAcceptanceStatus(ctx context.Context, id string, in AcceptanceStatusUpdate) (*domain.Acceptance, error)
	DeleteAcceptance(ctx context.Context, id string) error
}

// MarketplaceAPI is every authenticated resource endpoint.
type MarketplaceAPI interface {
	SpecialtyAPI
	TeacherAPI
	SchoolAPI
	VideoAPI
	AcceptanceAPI
}
