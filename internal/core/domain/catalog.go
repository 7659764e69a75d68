package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Ref is a reference to another record. The API sends either the bare id
// or the populated object; both decode, and the object is kept verbatim.
type Ref struct {
	ID  string
	Raw json.RawMessage
}

func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*r = Ref{}
		return nil
	}
	if b[0] == '"' {
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}
	var obj struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("reference must be an id or an object: %w", err)
	}
	*r = Ref{ID: obj.ID, Raw: append(json.RawMessage{}, b...)}
	return nil
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if len(r.Raw) > 0 {
		return r.Raw, nil
	}
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

// RefIDs flattens a list of references into ids, skipping empty ones.
func RefIDs(refs []Ref) []string {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		if r.ID != "" {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

type Specialty struct {
	ID          string `json:"_id" validate:"required"`
	Name        string `json:"name,omitempty"`
	NameAr      string `json:"nameAr,omitempty"`
	NameEn      string `json:"nameEn,omitempty"`
	Description string `json:"description,omitempty"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// DisplayName prefers the Arabic name.
func (s Specialty) DisplayName() string {
	for _, n := range []string{s.NameAr, s.Name, s.NameEn} {
		if n != "" {
			return n
		}
	}
	return s.ID
}

// SpecialtyInput is the admin create/update payload.
type SpecialtyInput struct {
	Name        string `json:"name,omitempty"`
	NameAr      string `json:"nameAr,omitempty"`
	NameEn      string `json:"nameEn,omitempty"`
	Description string `json:"description,omitempty"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

type Teacher struct {
	ID                    string     `json:"_id" validate:"required"`
	FullName              string     `json:"fullName"`
	Email                 string     `json:"email,omitempty"`
	PhoneNumber           string     `json:"phoneNumber"`
	NationalID            string     `json:"nationalID,omitempty"`
	Gender                string     `json:"gender,omitempty"`
	Age                   int        `json:"age,omitempty"`
	Address               string     `json:"address,omitempty"`
	AcademicQualification string     `json:"academicQualification,omitempty"`
	Diploma               string     `json:"diploma,omitempty"`
	Courses               []string   `json:"courses,omitempty"`
	Specialties           []Ref      `json:"specialties"`
	TaughtStages          []string   `json:"taughtStages,omitempty"`
	WorkedInOmanBefore    *bool      `json:"workedInOmanBefore,omitempty"`
	Videos                []Ref      `json:"videos,omitempty"`
	CreatedAt             *time.Time `json:"createdAt,omitempty"`
	UpdatedAt             *time.Time `json:"updatedAt,omitempty"`
}

type School struct {
	ID                   string     `json:"_id" validate:"required"`
	ManagerName          string     `json:"managerName"`
	Email                string     `json:"email"`
	WhatsappPhone        string     `json:"whatsappPhone"`
	SchoolName           string     `json:"schoolName"`
	SchoolLocation       string     `json:"schoolLocation"`
	StagesNeeded         []string   `json:"stagesNeeded,omitempty"`
	SpecialtiesNeeded    []Ref      `json:"specialtiesNeeded,omitempty"`
	ExpectedSalaryRange  string     `json:"expectedSalaryRange,omitempty"`
	HousingProvided      *bool      `json:"housingProvided,omitempty"`
	HousingAllowance     string     `json:"housingAllowance,omitempty"`
	FlightTicketProvided string     `json:"flightTicketProvided,omitempty"`
	CreatedAt            *time.Time `json:"createdAt,omitempty"`
}

type Video struct {
	ID         string     `json:"_id" validate:"required"`
	Title      string     `json:"title"`
	VideoURL   string     `json:"videoUrl"`
	Teacher    Ref        `json:"teacher"`
	Specialty  Ref        `json:"specialty"`
	UploadedAt *time.Time `json:"uploadedAt,omitempty"`
}

type AcceptanceStatus string

const (
	AcceptancePending  AcceptanceStatus = "pending"
	AcceptanceApproved AcceptanceStatus = "approved"
	AcceptanceRejected AcceptanceStatus = "rejected"
)

func (s AcceptanceStatus) Valid() bool {
	switch s {
	case AcceptancePending, AcceptanceApproved, AcceptanceRejected:
		return true
	}
	return false
}

// Acceptance is a school's request to hire a teacher.
type Acceptance struct {
	ID         string           `json:"_id" validate:"required"`
	Teacher    TeacherRef       `json:"teacher"`
	School     Ref              `json:"school"`
	Status     AcceptanceStatus `json:"status"`
	Notes      string           `json:"notes,omitempty"`
	AdminNotes string           `json:"adminNotes,omitempty"`
	CreatedAt  *time.Time       `json:"createdAt,omitempty"`
}

// TeacherRef is an acceptance's teacher, either a bare id or populated.
type TeacherRef struct {
	ID      string
	Teacher *Teacher
}

func (r *TeacherRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*r = TeacherRef{}
		return nil
	}
	if b[0] == '"' {
		*r = TeacherRef{}
		return json.Unmarshal(b, &r.ID)
	}
	var t Teacher
	if err := json.Unmarshal(b, &t); err != nil {
		return fmt.Errorf("teacher must be an id or an object: %w", err)
	}
	*r = TeacherRef{ID: t.ID, Teacher: &t}
	return nil
}

func (r TeacherRef) MarshalJSON() ([]byte, error) {
	if r.Teacher != nil {
		return json.Marshal(r.Teacher)
	}
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

// DashboardStats are the admin dashboard counters.
type DashboardStats struct {
	Teachers    int `json:"teachers"`
	Schools     int `json:"schools"`
	Specialties int `json:"specialties"`
}

// ResolveMediaURL turns a stored video path into an absolute URL.
// Absolute http(s) URLs are returned trimmed and unchanged.
func ResolveMediaURL(raw, mediaBase string) string {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return ""
	}
	if strings.HasPrefix(clean, "http://") || strings.HasPrefix(clean, "https://") {
		return clean
	}
	if !strings.HasPrefix(clean, "/") {
		clean = "/" + clean
	}
	return strings.TrimRight(mediaBase, "/") + clean
}
