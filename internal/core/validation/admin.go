package validation

import (
	"MasarWeb/internal/core/domain"
	"strings"
)

const msgRequiredFields = "الرجاء ملء جميع الحقول المطلوبة"

// CheckSpecialty requires at least one non-blank name.
func CheckSpecialty(in domain.SpecialtyInput) error {
	for _, n := range []string{in.Name, in.NameAr, in.NameEn} {
		if strings.TrimSpace(n) != "" {
			return nil
		}
	}
	return fail(0, "name", "اسم التخصص مطلوب")
}

// CheckTeacherUpdate runs the admin edit-teacher form checks.
func CheckTeacherUpdate(fields map[string]any) error {
	if blank(fields, "fullName") {
		return fail(0, "fullName", "اسم المعلم مطلوب")
	}
	if blank(fields, "phoneNumber") {
		return fail(0, "phoneNumber", "رقم الهاتف مطلوب")
	}
	return nil
}

// CheckSchoolUpdate runs the admin edit-school form checks.
func CheckSchoolUpdate(fields map[string]any) error {
	for _, key := range []string{"schoolName", "managerName", "whatsappPhone"} {
		if blank(fields, key) {
			return fail(0, key, msgRequiredFields)
		}
	}
	return nil
}

// CheckAcceptanceStatus rejects statuses the API does not know.
func CheckAcceptanceStatus(s domain.AcceptanceStatus) error {
	if !s.Valid() {
		return fail(0, "status", "حالة الطلب غير صحيحة")
	}
	return nil
}

func blank(fields map[string]any, key string) bool {
	s, ok := fields[key].(string)
	return !ok || strings.TrimSpace(s) == ""
}
