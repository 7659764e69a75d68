package session

import (
	"MasarWeb/internal/core/domain"
	"MasarWeb/internal/core/ports"
	"MasarWeb/internal/mocks"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAuthenticator(api ports.AuthAPI) *Authenticator {
	nopLogger := zerolog.Nop()
	return NewAuthenticator(api, 500*time.Millisecond, &nopLogger)
}

func TestAuthenticator_LocalChecksSkipTheAPI(t *testing.T) {
	api := new(mocks.AuthAPI)
	a := newTestAuthenticator(api)
	s, _ := newTestStore()

	_, err := a.Login(context.Background(), s, domain.UserTypeTeacher, ports.Credentials{PhoneNumber: " ", Password: "x"})
	var loginErr *LoginError
	require.ErrorAs(t, err, &loginErr)
	assert.Equal(t, "رقم الهاتف مطلوب", loginErr.Message)

	_, err = a.LoginAdmin(context.Background(), s, ports.AdminCredentials{Email: "a@b.c"})
	require.ErrorAs(t, err, &loginErr)
	assert.Equal(t, "كلمة المرور مطلوبة", loginErr.Message)

	api.AssertNotCalled(t, "LoginTeacher", mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "LoginAdmin", mock.Anything, mock.Anything)
}

func TestAuthenticator_LoginByUserType(t *testing.T) {
	testCases := []struct {
		name     string
		userType domain.UserType
		method   string
		user     ports.AuthUser
		wantName string
		wantPath string
	}{
		{
			name:     "teacher",
			userType: domain.UserTypeTeacher,
			method:   "LoginTeacher",
			user:     ports.AuthUser{ID: "t1", FullName: "Fatma", Role: "teacher"},
			wantName: "Fatma",
			wantPath: "/teacher/profile",
		},
		{
			name:     "school",
			userType: domain.UserTypeSchool,
			method:   "LoginSchool",
			user:     ports.AuthUser{ID: "s1", ManagerName: "Salim", Role: "school"},
			wantName: "Salim",
			wantPath: "/school/home",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			api := new(mocks.AuthAPI)
			a := newTestAuthenticator(api)
			s, jar := newTestStore()
			creds := ports.Credentials{PhoneNumber: "91234567", Password: "secret1"}

			api.On(tc.method, mock.Anything, creds).
				Return(&ports.AuthResult{AccessToken: "a.b.c", User: tc.user}, nil).Once()

			res, err := a.Login(context.Background(), s, tc.userType, creds)
			require.NoError(t, err)

			assert.Equal(t, tc.wantName, res.User.Name)
			assert.Equal(t, tc.wantPath, res.Redirect)
			assert.Equal(t, 500*time.Millisecond, res.RedirectAfter)
			assert.Equal(t, MsgLoginSuccess, res.Message)
			assert.Equal(t, string(tc.userType), jar.Entries[CookieUserRole].Value)
			api.AssertExpectations(t)
		})
	}
}

func TestAuthenticator_LoginRejectsAdminType(t *testing.T) {
	a := newTestAuthenticator(new(mocks.AuthAPI))
	s, _ := newTestStore()
	_, err := a.Login(context.Background(), s, domain.UserTypeNone, ports.Credentials{PhoneNumber: "9", Password: "x"})
	assert.ErrorIs(t, err, ErrUnsupportedUserType)
}

func TestAuthenticator_AdminLogin(t *testing.T) {
	api := new(mocks.AuthAPI)
	a := newTestAuthenticator(api)
	s, jar := newTestStore()
	creds := ports.AdminCredentials{Email: "root@masar.work", Password: "pw"}

	api.On("LoginAdmin", mock.Anything, creds).Return(&ports.AuthResult{
		AccessToken: "a.b.c",
		User:        ports.AuthUser{ID: "a1", Email: "root@masar.work", Name: "Root", Role: "admin"},
	}, nil)

	res, err := a.LoginAdmin(context.Background(), s, creds)
	require.NoError(t, err)
	assert.Equal(t, "/admin/dashboard", res.Redirect)
	assert.Equal(t, "Root", res.User.Name)
	assert.Equal(t, "admin", jar.Entries[CookieUserRole].Value)
}

func TestAuthenticator_Failure(t *testing.T) {
	testCases := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"backend message", &ports.APIError{Status: 401, Message: "بيانات الدخول غير صحيحة"}, "بيانات الدخول غير صحيحة"},
		{"fallback", errors.New("timeout"), MsgLoginFailed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			api := new(mocks.AuthAPI)
			a := newTestAuthenticator(api)
			s, jar := newTestStore()

			api.On("LoginSchool", mock.Anything, mock.Anything).Return(nil, tc.err)

			_, err := a.Login(context.Background(), s, domain.UserTypeSchool, ports.Credentials{PhoneNumber: "91234567", Password: "pw"})
			var loginErr *LoginError
			require.ErrorAs(t, err, &loginErr)
			assert.Equal(t, tc.wantMsg, loginErr.Message)
			assert.Empty(t, jar.Entries)
		})
	}
}
