package session

import (
	"MasarWeb/internal/core/domain"
	"MasarWeb/internal/core/ports"
	"MasarWeb/internal/core/validation"
	"MasarWeb/internal/shared/logger"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	MsgLoginSuccess = "تم تسجيل الدخول بنجاح!"
	MsgLoginFailed  = "فشل تسجيل الدخول. تحقق من البيانات المدخلة"
)

// ErrUnsupportedUserType is returned for phone logins that are not teacher or school.
var ErrUnsupportedUserType = errors.New("session: login supports teacher or school only")

// LoginError is a rejected login. Message is user-facing.
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string { return e.Message }
func (e *LoginError) Unwrap() error { return e.Err }

// LoginResult is a successful login with where to go next.
type LoginResult struct {
	User          domain.User   `json:"user"`
	Role          domain.Role   `json:"userRole"`
	Message       string        `json:"message"`
	Redirect      string        `json:"redirect"`
	RedirectAfter time.Duration `json:"-"`
}

// Authenticator runs the login forms against the auth API.
type Authenticator struct {
	auth  ports.AuthAPI
	log   zerolog.Logger
	delay time.Duration
}

func NewAuthenticator(auth ports.AuthAPI, redirectDelay time.Duration, baseLogger *zerolog.Logger) *Authenticator {
	return &Authenticator{
		auth:  auth,
		log:   baseLogger.With().Str("component", "authenticator").Logger(),
		delay: redirectDelay,
	}
}

// Login signs a teacher or school in by phone number.
func (a *Authenticator) Login(ctx context.Context, s *Store, userType domain.UserType, creds ports.Credentials) (*LoginResult, error) {
	if err := validation.CheckLogin(creds.PhoneNumber, creds.Password); err != nil {
		return nil, &LoginError{Message: err.Error(), Err: err}
	}

	var (
		res *ports.AuthResult
		err error
	)
	switch userType {
	case domain.UserTypeTeacher:
		res, err = a.auth.LoginTeacher(ctx, creds)
	case domain.UserTypeSchool:
		res, err = a.auth.LoginSchool(ctx, creds)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedUserType, userType)
	}

	return a.finish(s, userType.Role(), logger.MaskPhone(creds.PhoneNumber), res, err)
}

// LoginAdmin signs an administrator in by e-mail.
func (a *Authenticator) LoginAdmin(ctx context.Context, s *Store, creds ports.AdminCredentials) (*LoginResult, error) {
	if err := validation.CheckAdminLogin(creds.Email, creds.Password); err != nil {
		return nil, &LoginError{Message: err.Error(), Err: err}
	}
	res, err := a.auth.LoginAdmin(ctx, creds)
	return a.finish(s, domain.RoleAdmin, logger.MaskEmail(creds.Email), res, err)
}

func (a *Authenticator) finish(s *Store, role domain.Role, who string, res *ports.AuthResult, err error) (*LoginResult, error) {
	if err != nil {
		a.log.Warn().Err(err).Str("role", string(role)).Str("login", who).Msg("Login rejected")
		return nil, &LoginError{Message: ports.ErrorMessage(err, MsgLoginFailed), Err: err}
	}

	user := res.User.ToUser(role)
	if err := s.SetAuth(res.AccessToken, user, role); err != nil {
		return nil, &LoginError{Message: MsgLoginFailed, Err: err}
	}

	a.log.Info().Str("role", string(role)).Str("user_id", user.ID).Msg("Login succeeded")
	return &LoginResult{
		User:          user,
		Role:          role,
		Message:       MsgLoginSuccess,
		Redirect:      domain.LandingPath(role),
		RedirectAfter: a.delay,
	}, nil
}
