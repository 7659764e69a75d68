// Package validation holds the per-step checks of the registration wizard.
// Every check is pure and reports only the first failing field.
package validation

import (
	"MasarWeb/internal/core/domain"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	phoneRegex = regexp.MustCompile(`^[+]?[\d\s-]{8,}$`)
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const (
	minNameLength     = 3
	minPasswordLength = 6
	minAge            = 18
	maxAge            = 100
)

// Error is a failed step check. Error() is the localized message shown to the user.
type Error struct {
	Step    int
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func fail(step int, field, msg string) *Error {
	return &Error{Step: step, Field: field, Message: msg}
}

// ValidateTeacherStep checks the fields owned by one teacher step.
// Step 4 and unknown steps always pass.
func ValidateTeacherStep(step int, d domain.TeacherDraft) error {
	var err *Error
	switch step {
	case 1:
		err = teacherStep1(d)
	case 2:
		err = teacherStep2(d)
	case 3:
		err = teacherStep3(d)
	}
	if err != nil {
		return err
	}
	return nil
}

// ValidateSchoolStep checks the fields owned by one school step.
func ValidateSchoolStep(step int, d domain.SchoolDraft) error {
	var err *Error
	switch step {
	case 1:
		err = schoolStep1(d)
	case 2:
		err = schoolStep2(d)
	case 3:
		err = schoolStep3(d)
	}
	if err != nil {
		return err
	}
	return nil
}

// ValidateStep dispatches on the session's user type.
func ValidateStep(s *domain.RegistrationSession, step int) error {
	switch s.UserType {
	case domain.UserTypeTeacher:
		return ValidateTeacherStep(step, s.Teacher)
	case domain.UserTypeSchool:
		return ValidateSchoolStep(step, s.School)
	default:
		return nil
	}
}

func teacherStep1(d domain.TeacherDraft) *Error {
	const step = 1
	name := strings.TrimSpace(d.FullName)
	if name == "" {
		return fail(step, "fullName", "الاسم الكامل مطلوب")
	}
	if utf8.RuneCountInString(name) < minNameLength {
		return fail(step, "fullName", "الاسم يجب أن يكون 3 أحرف على الأقل")
	}
	if e := checkPassword(step, d.Password); e != nil {
		return e
	}
	if strings.TrimSpace(d.PhoneNumber) == "" {
		return fail(step, "phoneNumber", "رقم الهاتف مطلوب")
	}
	if !phoneRegex.MatchString(d.PhoneNumber) {
		return fail(step, "phoneNumber", "رقم الهاتف غير صحيح")
	}
	if strings.TrimSpace(d.NationalID) == "" {
		return fail(step, "nationalID", "الرقم الوطني مطلوب")
	}
	if d.Gender == domain.GenderUnset {
		return fail(step, "gender", "الجنس مطلوب")
	}
	if e := checkAge(step, d.Age); e != nil {
		return e
	}
	if strings.TrimSpace(d.Address) == "" {
		return fail(step, "address", "العنوان مطلوب")
	}
	return nil
}

// checkAge requires a whole number in [18, 100].
func checkAge(step int, raw string) *Error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fail(step, "age", "العمر يجب أن يكون 18 سنة أو أكثر")
	}
	age, err := strconv.Atoi(raw)
	if err != nil {
		return fail(step, "age", "العمر غير صحيح")
	}
	if age < minAge {
		return fail(step, "age", "العمر يجب أن يكون 18 سنة أو أكثر")
	}
	if age > maxAge {
		return fail(step, "age", "العمر غير صحيح")
	}
	return nil
}

func checkPassword(step int, password string) *Error {
	if password == "" {
		return fail(step, "password", "كلمة المرور مطلوبة")
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return fail(step, "password", "كلمة المرور يجب أن تكون 6 أحرف على الأقل")
	}
	return nil
}

func teacherStep2(d domain.TeacherDraft) *Error {
	if strings.TrimSpace(d.AcademicQualification) == "" {
		return fail(2, "academicQualification", "المؤهل الأكاديمي مطلوب")
	}
	// diploma and courses are optional
	if len(d.Specialties) == 0 {
		return fail(2, "specialties", "يجب اختيار تخصص واحد على الأقل")
	}
	return nil
}

func teacherStep3(d domain.TeacherDraft) *Error {
	if len(d.TaughtStages) == 0 {
		return fail(3, "taughtStages", "يجب اختيار مرحلة تدريسية واحدة على الأقل")
	}
	if !d.WorkedInOmanBefore.Answered() {
		return fail(3, "workedInOmanBefore", "يجب الإجابة على سؤال العمل في عمان")
	}
	return nil
}

func schoolStep1(d domain.SchoolDraft) *Error {
	const step = 1
	name := strings.TrimSpace(d.ManagerName)
	if name == "" {
		return fail(step, "managerName", "اسم المدير مطلوب")
	}
	if utf8.RuneCountInString(name) < minNameLength {
		return fail(step, "managerName", "اسم المدير يجب أن يكون 3 أحرف على الأقل")
	}
	if strings.TrimSpace(d.Email) == "" {
		return fail(step, "email", "البريد الإلكتروني مطلوب")
	}
	if !emailRegex.MatchString(d.Email) {
		return fail(step, "email", "البريد الإلكتروني غير صحيح")
	}
	if e := checkPassword(step, d.Password); e != nil {
		return e
	}
	if strings.TrimSpace(d.WhatsappPhone) == "" {
		return fail(step, "whatsappPhone", "رقم الواتساب مطلوب")
	}
	if !phoneRegex.MatchString(d.WhatsappPhone) {
		return fail(step, "whatsappPhone", "رقم الواتساب غير صحيح")
	}
	if strings.TrimSpace(d.SchoolName) == "" {
		return fail(step, "schoolName", "اسم المدرسة مطلوب")
	}
	if strings.TrimSpace(d.SchoolLocation) == "" {
		return fail(step, "schoolLocation", "موقع المدرسة مطلوب")
	}
	return nil
}

func schoolStep2(d domain.SchoolDraft) *Error {
	if len(d.StagesNeeded) == 0 {
		return fail(2, "stagesNeeded", "يجب اختيار مرحلة دراسية واحدة على الأقل")
	}
	if len(d.SpecialtiesNeeded) == 0 {
		return fail(2, "specialtiesNeeded", "يجب اختيار تخصص واحد على الأقل")
	}
	return nil
}

func schoolStep3(d domain.SchoolDraft) *Error {
	if strings.TrimSpace(d.ExpectedSalaryRange) == "" {
		return fail(3, "expectedSalaryRange", "نطاق الراتب المتوقع مطلوب")
	}
	if d.FlightTicketProvided == domain.FlightTicketUnset {
		return fail(3, "flightTicketProvided", "يجب تحديد خيار تذكرة الطيران")
	}
	// housingAllowance is optional
	if !d.HousingProvided.Answered() {
		return fail(3, "housingProvided", "يجب تحديد خيار السكن")
	}
	return nil
}

// CheckLogin runs the local checks of the phone login form.
func CheckLogin(phone, password string) error {
	if strings.TrimSpace(phone) == "" {
		return fail(0, "phoneNumber", "رقم الهاتف مطلوب")
	}
	if password == "" {
		return fail(0, "password", "كلمة المرور مطلوبة")
	}
	return nil
}

// CheckAdminLogin runs the local checks of the admin login form.
func CheckAdminLogin(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return fail(0, "email", "البريد الإلكتروني مطلوب")
	}
	if password == "" {
		return fail(0, "password", "كلمة المرور مطلوبة")
	}
	return nil
}

// CheckUpload enforces the video size limit and a video/* content type.
func CheckUpload(size int64, contentType string, maxMB int64) error {
	if size > maxMB*1024*1024 {
		return fail(0, "video", fmt.Sprintf("حجم الملف يجب أن يكون أقل من %d ميجابايت", maxMB))
	}
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "video/") {
		return fail(0, "video", "نوع الملف غير مدعوم. يرجى رفع ملف فيديو")
	}
	return nil
}
