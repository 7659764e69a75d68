package domain

import "encoding/json"

// Role is the authenticated user's area of the app.
type Role string

const (
	RoleNone    Role = ""
	RoleTeacher Role = "teacher"
	RoleSchool  Role = "school"
	RoleAdmin   Role = "admin"
)

// ParseRole returns RoleNone for anything unrecognised.
func ParseRole(s string) Role {
	switch r := Role(s); r {
	case RoleTeacher, RoleSchool, RoleAdmin:
		return r
	default:
		return RoleNone
	}
}

// MarshalJSON renders the missing role as null.
func (r Role) MarshalJSON() ([]byte, error) {
	if r == RoleNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(r))
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil {
		*r = RoleNone
		return nil
	}
	*r = ParseRole(*s)
	return nil
}

// LandingPath is where a freshly authenticated user of this role is sent.
func LandingPath(r Role) string {
	switch r {
	case RoleTeacher:
		return "/teacher/profile"
	case RoleSchool:
		return "/school/home"
	case RoleAdmin:
		return "/admin/dashboard"
	default:
		return "/"
	}
}

// User is the display identity kept in the user cookie.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// UserPatch updates a subset of the stored user.
type UserPatch struct {
	Email *string `json:"email,omitempty"`
	Name  *string `json:"name,omitempty"`
	Role  *string `json:"role,omitempty"`
}

func (p UserPatch) Apply(u *User) {
	setString(&u.Email, p.Email)
	setString(&u.Name, p.Name)
	setString(&u.Role, p.Role)
}

// Session is the authentication view for the current request.
type Session struct {
	Token           string `json:"-"`
	User            *User  `json:"user"`
	Role            Role   `json:"userRole"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}
