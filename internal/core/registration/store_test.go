package registration

import (
	"MasarWeb/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_InitialState(t *testing.T) {
	st := NewStore()
	assert.Equal(t, domain.UserTypeNone, st.UserType())
	assert.Equal(t, 0, st.CurrentStep())
	assert.Equal(t, 4, st.TotalSteps())
}

func TestStore_SetUserType(t *testing.T) {
	st := NewStore()
	name := "Ahmed"
	st.UpdateTeacherData(domain.TeacherPatch{FullName: &name})

	st.SetUserType(domain.UserTypeTeacher)
	assert.Equal(t, 1, st.CurrentStep())

	st.NextStep()
	st.SetUserType(domain.UserTypeSchool)
	assert.Equal(t, 1, st.CurrentStep(), "selecting a type restarts at step 1")

	st.SetUserType(domain.UserTypeNone)
	assert.Equal(t, 0, st.CurrentStep())
	assert.Equal(t, "Ahmed", st.Snapshot().Teacher.FullName, "drafts survive type switches")
}

func TestStore_StepClamping(t *testing.T) {
	st := NewStore()
	st.PrevStep()
	assert.Equal(t, 0, st.CurrentStep())

	for i := 0; i < 10; i++ {
		st.NextStep()
	}
	assert.Equal(t, 4, st.CurrentStep())

	testCases := []struct {
		name string
		to   int
		want int
	}{
		{"in range", 2, 2},
		{"negative", -3, 0},
		{"past the end", 9, 4},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			st.GoToStep(tc.to)
			assert.Equal(t, tc.want, st.CurrentStep())
		})
	}
}

func TestStore_ResetRestoresDefaults(t *testing.T) {
	st := NewStore()
	st.SetUserType(domain.UserTypeSchool)
	email := "a@b.co"
	st.UpdateSchoolData(domain.SchoolPatch{Email: &email})
	st.AddCourse("TESOL")

	st.Reset()
	snap := st.Snapshot()
	assert.Equal(t, domain.UserTypeNone, snap.UserType)
	assert.Equal(t, 0, snap.CurrentStep)
	assert.Empty(t, snap.School.Email)
	assert.Equal(t, []string{}, snap.Teacher.Courses)
}

func TestStore_ResetIsIdempotent(t *testing.T) {
	once := NewStore()
	once.SetUserType(domain.UserTypeTeacher)
	once.AddCourse("CELTA")
	once.Reset()

	twice := NewStore()
	twice.SetUserType(domain.UserTypeTeacher)
	twice.AddCourse("CELTA")
	twice.Reset()
	twice.Reset()

	assert.Equal(t, once.Snapshot(), twice.Snapshot())
	assert.Equal(t, NewStore().Snapshot(), twice.Snapshot())
}

func TestStore_RestoreIsIsolated(t *testing.T) {
	saved := domain.NewRegistrationSession()
	saved.UserType = domain.UserTypeTeacher
	saved.CurrentStep = 3

	st := Restore(saved)
	st.NextStep()
	assert.Equal(t, 4, st.CurrentStep())
	assert.Equal(t, 3, saved.CurrentStep)

	assert.Equal(t, 0, Restore(nil).CurrentStep())
}

func TestCourses(t *testing.T) {
	tags := AddCourse([]string{}, "  TESOL ")
	tags = AddCourse(tags, "CELTA")
	tags = AddCourse(tags, "TESOL")
	tags = AddCourse(tags, "   ")
	tags = AddCourse(tags, "tesol")
	assert.Equal(t, []string{"TESOL", "CELTA", "tesol"}, tags)

	tags = RemoveCourse(tags, "CELTA")
	assert.Equal(t, []string{"TESOL", "tesol"}, tags)

	tags = RemoveCourse(tags, "missing")
	assert.Equal(t, []string{"TESOL", "tesol"}, tags)
}
