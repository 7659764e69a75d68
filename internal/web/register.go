package web

import (
	"MasarWeb/internal/core/domain"
	"MasarWeb/internal/core/ports"
	"MasarWeb/internal/core/registration"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CookieWizard identifies the browser's registration draft.
const CookieWizard = "wizardId"

const msgSpecialtiesFailed = "فشل تحميل التخصصات"

// wizard is one request's view of a persisted draft.
type wizard struct {
	id    string
	store *registration.Store
}

// loadWizard restores the draft named by the wizard cookie. A missing or
// expired draft starts a fresh wizard under a new id.
func (s *Server) loadWizard(w http.ResponseWriter, r *http.Request) (*wizard, error) {
	id, ok := s.jar(w, r).Get(CookieWizard)
	if !ok || id == "" {
		return &wizard{id: uuid.NewString(), store: registration.NewStore()}, nil
	}

	draft, err := s.drafts.Load(r.Context(), id)
	if errors.Is(err, ports.ErrDraftNotFound) {
		return &wizard{id: uuid.NewString(), store: registration.NewStore()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	return &wizard{id: id, store: registration.Restore(draft)}, nil
}

func (s *Server) saveWizard(ctx context.Context, w http.ResponseWriter, r *http.Request, wz *wizard) error {
	if err := s.drafts.Save(ctx, wz.id, wz.store.Snapshot()); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	s.jar(w, r).Set(CookieWizard, wz.id, s.cfg.Drafts.TTL, true)
	return nil
}

func (s *Server) discardWizard(ctx context.Context, w http.ResponseWriter, r *http.Request, wz *wizard) {
	if err := s.drafts.Delete(ctx, wz.id); err != nil {
		s.log.Warn().Err(err).Str("wizard_id", wz.id).Msg("Failed to delete draft")
	}
	s.jar(w, r).Remove(CookieWizard)
}

func (s *Server) draftFailure(w http.ResponseWriter, err error) {
	s.log.Error().Err(err).Msg("Draft store failure")
	writeError(w, http.StatusInternalServerError, registration.MsgSubmitFailed, nil)
}

// mutateWizard loads the draft, applies fn, saves, and echoes the state.
func (s *Server) mutateWizard(w http.ResponseWriter, r *http.Request, fn func(st *registration.Store)) {
	wz, err := s.loadWizard(w, r)
	if err != nil {
		s.draftFailure(w, err)
		return
	}
	fn(wz.store)
	if err := s.saveWizard(r.Context(), w, r, wz); err != nil {
		s.draftFailure(w, err)
		return
	}
	writeOK(w, wz.store.Snapshot().Redacted())
}

func (s *Server) handleGetWizard(w http.ResponseWriter, r *http.Request) {
	wz, err := s.loadWizard(w, r)
	if err != nil {
		s.draftFailure(w, err)
		return
	}
	writeOK(w, wz.store.Snapshot().Redacted())
}

func (s *Server) handleResetWizard(w http.ResponseWriter, r *http.Request) {
	s.mutateWizard(w, r, func(st *registration.Store) { st.Reset() })
}

type selectTypeRequest struct {
	UserType string `json:"userType"`
}

func (s *Server) handleSelectType(w http.ResponseWriter, r *http.Request) {
	var req selectTypeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	t, err := domain.ParseUserType(req.UserType)
	if err != nil {
		badRequest(w, err)
		return
	}
	s.mutateWizard(w, r, func(st *registration.Store) { s.flow.SelectType(st, t) })
}

func (s *Server) handleUpdateTeacher(w http.ResponseWriter, r *http.Request) {
	var patch domain.TeacherPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		badRequest(w, err)
		return
	}
	s.mutateWizard(w, r, func(st *registration.Store) { st.UpdateTeacherData(patch) })
}

func (s *Server) handleUpdateSchool(w http.ResponseWriter, r *http.Request) {
	var patch domain.SchoolPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		badRequest(w, err)
		return
	}
	s.mutateWizard(w, r, func(st *registration.Store) { st.UpdateSchoolData(patch) })
}

type courseRequest struct {
	Course string `json:"course"`
}

func (s *Server) handleAddCourse(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	s.mutateWizard(w, r, func(st *registration.Store) { st.AddCourse(req.Course) })
}

func (s *Server) handleRemoveCourse(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	s.mutateWizard(w, r, func(st *registration.Store) { st.RemoveCourse(req.Course) })
}

type wizardResponse struct {
	Outcome *registration.Outcome       `json:"outcome"`
	Wizard  *domain.RegistrationSession `json:"wizard,omitempty"`
}

// handleNext validates the current step and advances, submitting on the
// review step.
func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	wz, err := s.loadWizard(w, r)
	if err != nil {
		s.draftFailure(w, err)
		return
	}
	userType := string(wz.store.UserType())
	step := wz.store.CurrentStep()

	out, err := s.flow.Next(r.Context(), wz.store, s.sessionStore(w, r))
	if err != nil {
		var (
			stepErr   *registration.StepError
			submitErr *registration.SubmitError
		)
		switch {
		case errors.As(err, &stepErr):
			s.metrics.wizard(userType, wizardRejected)
			if stepErr.Step != step {
				if err := s.saveWizard(r.Context(), w, r, wz); err != nil {
					s.draftFailure(w, err)
					return
				}
			}
			writeJSON(w, http.StatusUnprocessableEntity, envelope{
				Status:  "error",
				Message: stepErr.Message,
				Field:   stepErr.Field,
				Data:    map[string]int{"step": stepErr.Step},
				Toast:   errorToast(stepErr.Message, toastErrorDuration),
			})
		case errors.Is(err, registration.ErrNoUserType):
			writeError(w, http.StatusConflict, err.Error(), nil)
		case errors.As(err, &submitErr):
			s.metrics.wizard(userType, wizardFailed)
			if errors.Is(err, ports.ErrUnauthorized) {
				s.upstreamError(w, r, err, submitErr.Message)
				return
			}
			writeError(w, submitStatus(err), submitErr.Message, errorToast(submitErr.Message, toastSubmitFailure))
		default:
			s.draftFailure(w, err)
		}
		return
	}

	if out.Submitted {
		s.metrics.wizard(userType, wizardSubmitted)
		s.discardWizard(r.Context(), w, r, wz)
		writeJSON(w, http.StatusOK, envelope{
			Status:          "success",
			Data:            wizardResponse{Outcome: out},
			Message:         out.Message,
			Redirect:        out.Redirect,
			RedirectAfterMS: redirectAfter(out.RedirectAfter),
			Toast:           successToast(out.Message),
		})
		return
	}

	s.metrics.wizard(userType, wizardAdvanced)
	if err := s.saveWizard(r.Context(), w, r, wz); err != nil {
		s.draftFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Status:  "success",
		Data:    wizardResponse{Outcome: out, Wizard: wz.store.Snapshot().Redacted()},
		Message: out.Message,
		Toast:   successToast(out.Message),
	})
}

// submitStatus maps a rejected submission onto a response status.
func submitStatus(err error) int {
	var apiErr *ports.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return apiErr.Status
	}
	if errors.As(err, &apiErr) {
		return http.StatusBadGateway
	}
	return http.StatusUnprocessableEntity
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	s.mutateWizard(w, r, func(st *registration.Store) { s.flow.Back(st) })
}

func (s *Server) handleEditStep(w http.ResponseWriter, r *http.Request) {
	step, err := strconv.Atoi(chi.URLParam(r, "step"))
	if err != nil {
		badRequest(w, fmt.Errorf("step must be a number: %w", err))
		return
	}

	wz, err := s.loadWizard(w, r)
	if err != nil {
		s.draftFailure(w, err)
		return
	}
	if err := s.flow.Edit(wz.store, step); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err := s.saveWizard(r.Context(), w, r, wz); err != nil {
		s.draftFailure(w, err)
		return
	}
	writeOK(w, wz.store.Snapshot().Redacted())
}

func (s *Server) handleWizardSpecialties(w http.ResponseWriter, r *http.Request) {
	list, err := s.market.ListSpecialties(r.Context())
	if err != nil {
		s.upstreamError(w, r, err, msgSpecialtiesFailed)
		return
	}
	writeOK(w, list)
}
