package registration

import (
	"MasarWeb/internal/core/domain"
	"MasarWeb/internal/core/ports"
	"MasarWeb/internal/core/validation"
	"MasarWeb/internal/shared/logger"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// User-facing messages.
const (
	MsgStepSaved    = "تم حفظ البيانات بنجاح"
	MsgRegistered   = "تم التسجيل بنجاح! جاري التحويل..."
	MsgSubmitFailed = "فشل التسجيل. يرجى المحاولة مرة أخرى أو التواصل مع الدعم."
)

var (
	ErrNoUserType  = errors.New("registration: no user type selected")
	ErrInvalidStep = errors.New("registration: only earlier steps can be edited")
)

// StepError is a validation failure that keeps the wizard on Step.
type StepError struct {
	Step    int
	Field   string
	Message string
}

func (e *StepError) Error() string {
	return e.Message
}

// SubmitError is a rejected final submission. Message is what the user sees;
// Err keeps the upstream cause so callers can detect ports.ErrUnauthorized.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	return e.Message
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// SessionWriter receives the credentials of a successful registration.
type SessionWriter interface {
	SetAuth(token string, user domain.User, role domain.Role) error
}

// Outcome describes what a wizard action did.
type Outcome struct {
	Step          int           `json:"step"`
	Advanced      bool          `json:"advanced"`
	Submitted     bool          `json:"submitted"`
	Message       string        `json:"message,omitempty"`
	Redirect      string        `json:"redirect,omitempty"`
	RedirectAfter time.Duration `json:"-"`
	User          *domain.User  `json:"user,omitempty"`
}

// Flow drives a Store through the wizard: it validates before advancing
// and submits the finished draft to the registration API.
type Flow struct {
	auth         ports.AuthAPI
	bus          ports.EventBus
	log          zerolog.Logger
	successDelay time.Duration
}

func NewFlow(auth ports.AuthAPI, bus ports.EventBus, successDelay time.Duration, baseLogger *zerolog.Logger) *Flow {
	return &Flow{
		auth:         auth,
		bus:          bus,
		log:          baseLogger.With().Str("component", "registration_flow").Logger(),
		successDelay: successDelay,
	}
}

// SelectType starts (or restarts) the wizard for t. Drafts are kept.
func (f *Flow) SelectType(st *Store, t domain.UserType) {
	st.SetUserType(t)
}

// Next validates the current step and advances. On the last step it submits.
func (f *Flow) Next(ctx context.Context, st *Store, sess SessionWriter) (*Outcome, error) {
	if st.UserType() == domain.UserTypeNone || st.CurrentStep() == 0 {
		return nil, ErrNoUserType
	}

	step := st.CurrentStep()
	if err := checkStep(st, step); err != nil {
		return nil, err
	}

	if step < st.TotalSteps() {
		st.NextStep()
		return &Outcome{Step: st.CurrentStep(), Advanced: true, Message: MsgStepSaved}, nil
	}

	// Earlier answers can be patched after their step passed, so the whole
	// draft is checked again before it leaves. The wizard moves back to the
	// first step that no longer holds.
	for earlier := 1; earlier < step; earlier++ {
		if err := checkStep(st, earlier); err != nil {
			st.GoToStep(earlier)
			return nil, err
		}
	}
	return f.Submit(ctx, st, sess)
}

func checkStep(st *Store, step int) error {
	err := validation.ValidateStep(st.s, step)
	if err == nil {
		return nil
	}
	var vErr *validation.Error
	if errors.As(err, &vErr) {
		return &StepError{Step: step, Field: vErr.Field, Message: vErr.Message}
	}
	return err
}

// Back steps back. Leaving step 1 discards both drafts.
func (f *Flow) Back(st *Store) {
	if st.CurrentStep() <= 1 {
		st.Reset()
		return
	}
	st.PrevStep()
}

// Edit jumps back to an earlier step, as the review page's edit links do.
func (f *Flow) Edit(st *Store, step int) error {
	if step < 1 || step >= st.CurrentStep() {
		return fmt.Errorf("%w: step %d from step %d", ErrInvalidStep, step, st.CurrentStep())
	}
	st.GoToStep(step)
	return nil
}

// Submit sends the active draft to the registration endpoint for its type.
// On failure the store is left untouched so the user can retry.
func (f *Flow) Submit(ctx context.Context, st *Store, sess SessionWriter) (*Outcome, error) {
	snap := st.Snapshot()

	var (
		res     *ports.AuthResult
		err     error
		contact string
	)
	switch snap.UserType {
	case domain.UserTypeTeacher:
		var payload ports.TeacherRegistration
		payload, err = teacherPayload(snap.Teacher)
		if err != nil {
			return nil, &SubmitError{Message: MsgSubmitFailed, Err: err}
		}
		contact = logger.MaskPhone(payload.PhoneNumber)
		res, err = f.auth.RegisterTeacher(ctx, payload)
	case domain.UserTypeSchool:
		payload := schoolPayload(snap.School)
		contact = logger.MaskEmail(payload.Email)
		res, err = f.auth.RegisterSchool(ctx, payload)
	default:
		return nil, ErrNoUserType
	}

	if err != nil {
		f.log.Warn().Err(err).
			Str("user_type", string(snap.UserType)).
			Str("contact", contact).
			Msg("Registration rejected")
		return nil, &SubmitError{Message: ports.ErrorMessage(err, MsgSubmitFailed), Err: err}
	}

	role := snap.UserType.Role()
	user := res.User.ToUser(role)
	if err := sess.SetAuth(res.AccessToken, user, role); err != nil {
		return nil, &SubmitError{Message: MsgSubmitFailed, Err: err}
	}

	f.log.Info().
		Str("user_type", string(snap.UserType)).
		Str("user_id", user.ID).
		Str("contact", contact).
		Msg("Registration completed")

	if f.bus != nil {
		event := ports.RegistrationCompleted{
			UserType: snap.UserType,
			UserID:   user.ID,
			Name:     user.Name,
			Contact:  contact,
		}
		if err := f.bus.Publish(ctx, ports.TopicRegistrationCompleted, event); err != nil {
			f.log.Error().Err(err).Msg("Failed to publish registration event")
		}
	}

	return &Outcome{
		Step:          snap.CurrentStep,
		Submitted:     true,
		Message:       MsgRegistered,
		Redirect:      domain.LandingPath(role),
		RedirectAfter: f.successDelay,
		User:          &user,
	}, nil
}

func teacherPayload(d domain.TeacherDraft) (ports.TeacherRegistration, error) {
	age, err := strconv.Atoi(strings.TrimSpace(d.Age))
	if err != nil {
		return ports.TeacherRegistration{}, fmt.Errorf("age %q is not a number: %w", d.Age, err)
	}
	worked, _ := d.WorkedInOmanBefore.Bool()

	stages := make([]string, len(d.TaughtStages))
	for i, s := range d.TaughtStages {
		stages[i] = string(s)
	}

	return ports.TeacherRegistration{
		FullName:              d.FullName,
		Password:              d.Password,
		PhoneNumber:           d.PhoneNumber,
		NationalID:            d.NationalID,
		Gender:                string(d.Gender),
		Age:                   age,
		Address:               d.Address,
		AcademicQualification: d.AcademicQualification,
		Diploma:               d.Diploma,
		Courses:               append([]string{}, d.Courses...),
		Specialties:           append([]string{}, d.Specialties...),
		TaughtStages:          stages,
		WorkedInOmanBefore:    worked,
	}, nil
}

func schoolPayload(d domain.SchoolDraft) ports.SchoolRegistration {
	housing, _ := d.HousingProvided.Bool()

	stages := make([]string, len(d.StagesNeeded))
	for i, s := range d.StagesNeeded {
		stages[i] = string(s)
	}

	return ports.SchoolRegistration{
		ManagerName:          d.ManagerName,
		Email:                d.Email,
		Password:             d.Password,
		WhatsappPhone:        d.WhatsappPhone,
		SchoolName:           d.SchoolName,
		SchoolLocation:       d.SchoolLocation,
		StagesNeeded:         stages,
		SpecialtiesNeeded:    append([]string{}, d.SpecialtiesNeeded...),
		ExpectedSalaryRange:  d.ExpectedSalaryRange,
		HousingProvided:      housing,
		HousingAllowance:     d.HousingAllowance,
		FlightTicketProvided: string(d.FlightTicketProvided),
	}
}
