package web

import (
	"MasarWeb/internal/core/domain"
	"MasarWeb/internal/core/ports"
	"MasarWeb/internal/core/session"
	"MasarWeb/internal/core/validation"
	"errors"
	"net/http"
)

type loginRequest struct {
	UserType    string `json:"userType"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginPage struct {
	Page      string            `json:"page"`
	UserTypes []domain.UserType `json:"userTypes,omitempty"`
}

func (s *Server) handleLoginPage(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, loginPage{Page: "login", UserTypes: []domain.UserType{domain.UserTypeTeacher, domain.UserTypeSchool}})
}

func (s *Server) handleAdminLoginPage(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, loginPage{Page: "admin_login"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	userType, err := domain.ParseUserType(req.UserType)
	if err != nil || userType == domain.UserTypeNone {
		writeError(w, http.StatusBadRequest, session.ErrUnsupportedUserType.Error(), nil)
		return
	}

	res, err := s.authn.Login(r.Context(), s.sessionStore(w, r), userType, ports.Credentials{
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	s.writeLogin(w, res, err)
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	res, err := s.authn.LoginAdmin(r.Context(), s.sessionStore(w, r), ports.AdminCredentials{
		Email:    req.Email,
		Password: req.Password,
	})
	s.writeLogin(w, res, err)
}

func (s *Server) writeLogin(w http.ResponseWriter, res *session.LoginResult, err error) {
	if err != nil {
		var (
			loginErr *session.LoginError
			vErr     *validation.Error
			apiErr   *ports.APIError
		)
		switch {
		case errors.As(err, &vErr):
			writeInvalid(w, vErr, toastLoginInvalid)
		case errors.As(err, &loginErr):
			status := http.StatusBadGateway
			if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
				status = apiErr.Status
			}
			writeError(w, status, loginErr.Message, errorToast(loginErr.Message, toastErrorDuration))
		case errors.Is(err, session.ErrUnsupportedUserType):
			writeError(w, http.StatusBadRequest, err.Error(), nil)
		default:
			s.log.Error().Err(err).Msg("Login failed")
			writeError(w, http.StatusInternalServerError, session.MsgLoginFailed, nil)
		}
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Status:          "success",
		Data:            res,
		Message:         res.Message,
		Redirect:        res.Redirect,
		RedirectAfterMS: redirectAfter(res.RedirectAfter),
		Toast:           successToast(res.Message),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	target := s.sessionStore(w, r).Logout()
	writeJSON(w, http.StatusOK, envelope{Status: "success", Redirect: target})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeOK(w, s.sessionStore(w, r).InitializeAuth())
}
