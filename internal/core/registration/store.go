// Package registration implements the multi-step sign-up wizard for
// teachers and schools.
package registration

import (
	"MasarWeb/internal/core/domain"
)

// Store is the wizard state container. It performs no validation;
// Flow gates transitions with the step validators.
type Store struct {
	s *domain.RegistrationSession
}

// NewStore returns a store in the initial state: no user type, step 0.
func NewStore() *Store {
	return &Store{s: domain.NewRegistrationSession()}
}

// Restore wraps previously persisted state. A nil session starts fresh.
func Restore(s *domain.RegistrationSession) *Store {
	if s == nil {
		return NewStore()
	}
	return &Store{s: s.Clone()}
}

// Snapshot returns a deep copy of the current state.
func (st *Store) Snapshot() *domain.RegistrationSession {
	return st.s.Clone()
}

func (st *Store) UserType() domain.UserType { return st.s.UserType }
func (st *Store) CurrentStep() int          { return st.s.CurrentStep }
func (st *Store) TotalSteps() int           { return st.s.TotalSteps }

// SetUserType picks the branch. Choosing a type moves to step 1; clearing it
// returns to step 0.
func (st *Store) SetUserType(t domain.UserType) {
	st.s.UserType = t
	st.s.TotalSteps = domain.TotalSteps
	if t == domain.UserTypeNone {
		st.s.CurrentStep = 0
	} else {
		st.s.CurrentStep = 1
	}
}

// NextStep advances, never past TotalSteps.
func (st *Store) NextStep() {
	st.s.CurrentStep = min(st.s.CurrentStep+1, st.s.TotalSteps)
}

// PrevStep steps back, never below 0.
func (st *Store) PrevStep() {
	st.s.CurrentStep = max(st.s.CurrentStep-1, 0)
}

// GoToStep jumps directly, clamped to [0, TotalSteps].
func (st *Store) GoToStep(step int) {
	st.s.CurrentStep = min(max(step, 0), st.s.TotalSteps)
}

func (st *Store) UpdateTeacherData(p domain.TeacherPatch) {
	p.Apply(&st.s.Teacher)
}

func (st *Store) UpdateSchoolData(p domain.SchoolPatch) {
	p.Apply(&st.s.School)
}

// Reset discards both drafts and the user type.
func (st *Store) Reset() {
	st.s = domain.NewRegistrationSession()
}

// AddCourse appends a trimmed course tag to the teacher draft.
// Empty values and exact duplicates are ignored.
func (st *Store) AddCourse(course string) {
	st.s.Teacher.Courses = AddCourse(st.s.Teacher.Courses, course)
}

func (st *Store) RemoveCourse(course string) {
	st.s.Teacher.Courses = RemoveCourse(st.s.Teacher.Courses, course)
}
