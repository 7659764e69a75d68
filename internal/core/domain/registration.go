package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// TotalSteps is the number of wizard steps for either user type.
const TotalSteps = 4

// UserType selects which registration branch the wizard runs.
type UserType string

const (
	UserTypeNone    UserType = ""
	UserTypeTeacher UserType = "teacher"
	UserTypeSchool  UserType = "school"
)

// ParseUserType accepts "teacher", "school" or "" (no selection).
func ParseUserType(s string) (UserType, error) {
	switch t := UserType(s); t {
	case UserTypeNone, UserTypeTeacher, UserTypeSchool:
		return t, nil
	default:
		return UserTypeNone, fmt.Errorf("unknown user type %q", s)
	}
}

// Role maps a registration branch onto the session role it produces.
func (t UserType) Role() Role {
	switch t {
	case UserTypeTeacher:
		return RoleTeacher
	case UserTypeSchool:
		return RoleSchool
	default:
		return RoleNone
	}
}

// MarshalJSON renders the unselected type as null.
func (t UserType) MarshalJSON() ([]byte, error) {
	if t == UserTypeNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}

func (t *UserType) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = UserTypeNone
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseUserType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type Gender string

const (
	GenderUnset  Gender = ""
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender accepts "male", "female" or "" (not chosen yet).
func ParseGender(s string) (Gender, error) {
	switch g := Gender(s); g {
	case GenderUnset, GenderMale, GenderFemale:
		return g, nil
	default:
		return GenderUnset, fmt.Errorf("unknown gender %q", s)
	}
}

func (g *Gender) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, g, ParseGender)
}

// TeachingStage is a stage a teacher has taught.
type TeachingStage string

const (
	TeachingKindergarten TeachingStage = "kindergarten"
	TeachingPrimary      TeachingStage = "primary"
	TeachingPreparatory  TeachingStage = "preparatory"
	TeachingSecondary    TeachingStage = "secondary"
)

func ParseTeachingStage(s string) (TeachingStage, error) {
	switch st := TeachingStage(s); st {
	case TeachingKindergarten, TeachingPrimary, TeachingPreparatory, TeachingSecondary:
		return st, nil
	default:
		return "", fmt.Errorf("unknown teaching stage %q", s)
	}
}

func (st *TeachingStage) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, st, ParseTeachingStage)
}

// SchoolStage is a stage a school is hiring for.
type SchoolStage string

const (
	SchoolKindergarten SchoolStage = "kindergarten"
	SchoolStageOne     SchoolStage = "stageOne"
	SchoolStageTwo     SchoolStage = "stageTwo"
	SchoolGrade10to12  SchoolStage = "grade10to12"
)

func ParseSchoolStage(s string) (SchoolStage, error) {
	switch st := SchoolStage(s); st {
	case SchoolKindergarten, SchoolStageOne, SchoolStageTwo, SchoolGrade10to12:
		return st, nil
	default:
		return "", fmt.Errorf("unknown school stage %q", s)
	}
}

func (st *SchoolStage) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, st, ParseSchoolStage)
}

type FlightTicket string

const (
	FlightTicketUnset FlightTicket = ""
	FlightTicketFull  FlightTicket = "full"
	FlightTicketHalf  FlightTicket = "half"
	FlightTicketNone  FlightTicket = "none"
)

// ParseFlightTicket accepts "full", "half", "none" or "" (not chosen yet).
func ParseFlightTicket(s string) (FlightTicket, error) {
	switch f := FlightTicket(s); f {
	case FlightTicketUnset, FlightTicketFull, FlightTicketHalf, FlightTicketNone:
		return f, nil
	default:
		return FlightTicketUnset, fmt.Errorf("unknown flight ticket option %q", s)
	}
}

func (f *FlightTicket) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, f, ParseFlightTicket)
}

// unmarshalEnum decodes a JSON string through parse. null leaves dst as is.
func unmarshalEnum[T ~string](b []byte, dst *T, parse func(string) (T, error)) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := parse(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// TriState is a yes/no answer that may not have been given yet.
type TriState int

const (
	Unanswered TriState = iota
	Yes
	No
)

// TriStateOf converts a plain boolean answer.
func TriStateOf(b bool) TriState {
	if b {
		return Yes
	}
	return No
}

// Answered reports whether the user picked yes or no.
func (t TriState) Answered() bool {
	return t == Yes || t == No
}

// Bool returns the answer; ok is false while unanswered.
func (t TriState) Bool() (value, ok bool) {
	return t == Yes, t.Answered()
}

func (t TriState) MarshalJSON() ([]byte, error) {
	switch t {
	case Yes:
		return []byte("true"), nil
	case No:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

func (t *TriState) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case "null":
		*t = Unanswered
	case "true":
		*t = Yes
	case "false":
		*t = No
	default:
		return fmt.Errorf("tri-state answer must be true, false or null, got %s", b)
	}
	return nil
}

// TriStateUpdate is a patch field for a TriState. An absent key leaves Set
// false; null sets it back to Unanswered.
type TriStateUpdate struct {
	Set   bool
	Value TriState
}

// SetTriState returns an update that writes v.
func SetTriState(v TriState) TriStateUpdate {
	return TriStateUpdate{Set: true, Value: v}
}

func (u *TriStateUpdate) UnmarshalJSON(b []byte) error {
	if err := u.Value.UnmarshalJSON(b); err != nil {
		return err
	}
	u.Set = true
	return nil
}

func (u TriStateUpdate) apply(dst *TriState) {
	if u.Set {
		*dst = u.Value
	}
}

// TeacherDraft is the in-progress teacher registration.
type TeacherDraft struct {
	FullName              string          `json:"fullName"`
	Password              string          `json:"password"`
	PhoneNumber           string          `json:"phoneNumber"`
	NationalID            string          `json:"nationalID"`
	Gender                Gender          `json:"gender"`
	Age                   string          `json:"age"`
	Address               string          `json:"address"`
	AcademicQualification string          `json:"academicQualification"`
	Diploma               string          `json:"diploma"`
	Courses               []string        `json:"courses"`
	Specialties           []string        `json:"specialties"`
	TaughtStages          []TeachingStage `json:"taughtStages"`
	WorkedInOmanBefore    TriState        `json:"workedInOmanBefore"`
}

// NewTeacherDraft returns the blank draft with empty, non-nil lists.
func NewTeacherDraft() TeacherDraft {
	return TeacherDraft{
		Courses:      []string{},
		Specialties:  []string{},
		TaughtStages: []TeachingStage{},
	}
}

func (d TeacherDraft) clone() TeacherDraft {
	d.Courses = append([]string{}, d.Courses...)
	d.Specialties = append([]string{}, d.Specialties...)
	d.TaughtStages = append([]TeachingStage{}, d.TaughtStages...)
	return d
}

// TeacherPatch is a partial update. Nil fields are left untouched.
type TeacherPatch struct {
	FullName              *string          `json:"fullName,omitempty"`
	Password              *string          `json:"password,omitempty"`
	PhoneNumber           *string          `json:"phoneNumber,omitempty"`
	NationalID            *string          `json:"nationalID,omitempty"`
	Gender                *Gender          `json:"gender,omitempty"`
	Age                   *string          `json:"age,omitempty"`
	Address               *string          `json:"address,omitempty"`
	AcademicQualification *string          `json:"academicQualification,omitempty"`
	Diploma               *string          `json:"diploma,omitempty"`
	Courses               *[]string        `json:"courses,omitempty"`
	Specialties           *[]string        `json:"specialties,omitempty"`
	TaughtStages          *[]TeachingStage `json:"taughtStages,omitempty"`
	WorkedInOmanBefore    TriStateUpdate   `json:"workedInOmanBefore"`
}

// Apply merges the patch into d.
func (p TeacherPatch) Apply(d *TeacherDraft) {
	setString(&d.FullName, p.FullName)
	setString(&d.Password, p.Password)
	setString(&d.PhoneNumber, p.PhoneNumber)
	setString(&d.NationalID, p.NationalID)
	if p.Gender != nil {
		d.Gender = *p.Gender
	}
	setString(&d.Age, p.Age)
	setString(&d.Address, p.Address)
	setString(&d.AcademicQualification, p.AcademicQualification)
	setString(&d.Diploma, p.Diploma)
	if p.Courses != nil {
		d.Courses = append([]string{}, (*p.Courses)...)
	}
	if p.Specialties != nil {
		d.Specialties = append([]string{}, (*p.Specialties)...)
	}
	if p.TaughtStages != nil {
		d.TaughtStages = append([]TeachingStage{}, (*p.TaughtStages)...)
	}
	p.WorkedInOmanBefore.apply(&d.WorkedInOmanBefore)
}

// SchoolDraft is the in-progress school registration.
type SchoolDraft struct {
	ManagerName          string        `json:"managerName"`
	Email                string        `json:"email"`
	Password             string        `json:"password"`
	WhatsappPhone        string        `json:"whatsappPhone"`
	SchoolName           string        `json:"schoolName"`
	SchoolLocation       string        `json:"schoolLocation"`
	StagesNeeded         []SchoolStage `json:"stagesNeeded"`
	SpecialtiesNeeded    []string      `json:"specialtiesNeeded"`
	ExpectedSalaryRange  string        `json:"expectedSalaryRange"`
	HousingProvided      TriState      `json:"housingProvided"`
	HousingAllowance     string        `json:"housingAllowance"`
	FlightTicketProvided FlightTicket  `json:"flightTicketProvided"`
}

func NewSchoolDraft() SchoolDraft {
	return SchoolDraft{
		StagesNeeded:      []SchoolStage{},
		SpecialtiesNeeded: []string{},
	}
}

func (d SchoolDraft) clone() SchoolDraft {
	d.StagesNeeded = append([]SchoolStage{}, d.StagesNeeded...)
	d.SpecialtiesNeeded = append([]string{}, d.SpecialtiesNeeded...)
	return d
}

type SchoolPatch struct {
	ManagerName          *string        `json:"managerName,omitempty"`
	Email                *string        `json:"email,omitempty"`
	Password             *string        `json:"password,omitempty"`
	WhatsappPhone        *string        `json:"whatsappPhone,omitempty"`
	SchoolName           *string        `json:"schoolName,omitempty"`
	SchoolLocation       *string        `json:"schoolLocation,omitempty"`
	StagesNeeded         *[]SchoolStage `json:"stagesNeeded,omitempty"`
	SpecialtiesNeeded    *[]string      `json:"specialtiesNeeded,omitempty"`
	ExpectedSalaryRange  *string        `json:"expectedSalaryRange,omitempty"`
	HousingProvided      TriStateUpdate `json:"housingProvided"`
	HousingAllowance     *string        `json:"housingAllowance,omitempty"`
	FlightTicketProvided *FlightTicket  `json:"flightTicketProvided,omitempty"`
}

func (p SchoolPatch) Apply(d *SchoolDraft) {
	setString(&d.ManagerName, p.ManagerName)
	setString(&d.Email, p.Email)
	setString(&d.Password, p.Password)
	setString(&d.WhatsappPhone, p.WhatsappPhone)
	setString(&d.SchoolName, p.SchoolName)
	setString(&d.SchoolLocation, p.SchoolLocation)
	if p.StagesNeeded != nil {
		d.StagesNeeded = append([]SchoolStage{}, (*p.StagesNeeded)...)
	}
	if p.SpecialtiesNeeded != nil {
		d.SpecialtiesNeeded = append([]string{}, (*p.SpecialtiesNeeded)...)
	}
	setString(&d.ExpectedSalaryRange, p.ExpectedSalaryRange)
	p.HousingProvided.apply(&d.HousingProvided)
	setString(&d.HousingAllowance, p.HousingAllowance)
	if p.FlightTicketProvided != nil {
		d.FlightTicketProvided = *p.FlightTicketProvided
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// RegistrationSession is the whole wizard state for one browser.
type RegistrationSession struct {
	UserType    UserType     `json:"userType"`
	CurrentStep int          `json:"currentStep"`
	TotalSteps  int          `json:"totalSteps"`
	Teacher     TeacherDraft `json:"teacherData"`
	School      SchoolDraft  `json:"schoolData"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// NewRegistrationSession returns the initial wizard state (no type, step 0).
func NewRegistrationSession() *RegistrationSession {
	return &RegistrationSession{
		UserType:   UserTypeNone,
		TotalSteps: TotalSteps,
		Teacher:    NewTeacherDraft(),
		School:     NewSchoolDraft(),
	}
}

// Clone returns a deep copy.
func (s *RegistrationSession) Clone() *RegistrationSession {
	c := *s
	c.Teacher = s.Teacher.clone()
	c.School = s.School.clone()
	return &c
}

// Redacted returns a copy with passwords blanked, for echoing back to the browser.
func (s *RegistrationSession) Redacted() *RegistrationSession {
	c := s.Clone()
	c.Teacher.Password = ""
	c.School.Password = ""
	return c
}
