package web

import (
	"MasarWeb/internal/core/domain"
	"MasarWeb/internal/core/ports"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

const (
	msgSchoolDataFailed  = "فشل تحميل البيانات. حاول مرة أخرى"
	msgAcceptFailed      = "فشل إرسال طلب القبول. حاول مرة أخرى"
	msgAcceptSent        = "تم إرسال طلب القبول بنجاح"
	msgAcceptancesFailed = "فشل في تحميل الطلبات"
	msgNoTeacher         = "يرجى اختيار المعلم"

	msgAcceptDetails = "تم إرسال طلب القبول بنجاح! سيتم مراجعة الطلب وسنرسل لك رسالة عبر الواتساب. للاستفسارات يمكنك التواصل معنا على: +968 91944943"
)

func (s *Server) handleSchoolHome(w http.ResponseWriter, r *http.Request) {
	list, err := s.market.ListSpecialties(r.Context())
	if err != nil {
		s.upstreamError(w, r, err, msgSpecialtiesFailed)
		return
	}
	writeOK(w, nonNil(list))
}

type specialtyPage struct {
	Specialty *domain.Specialty `json:"specialty"`
	Videos    []domain.Video    `json:"videos"`
}

// handleSchoolSpecialty loads a specialty and its teacher videos together;
// either failing fails the page.
func (s *Server) handleSchoolSpecialty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var page specialtyPage
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		sp, err := s.market.GetSpecialty(gctx, id)
		page.Specialty = sp
		return err
	})
	g.Go(func() error {
		videos, err := s.market.ListVideosBySpecialty(gctx, id)
		page.Videos = videos
		return err
	})
	if err := g.Wait(); err != nil {
		s.upstreamError(w, r, err, msgSchoolDataFailed)
		return
	}

	for i := range page.Videos {
		page.Videos[i].VideoURL = domain.ResolveMediaURL(page.Videos[i].VideoURL, s.cfg.API.MediaBaseURL)
	}
	page.Videos = nonNil(page.Videos)
	writeOK(w, page)
}

type acceptRequest struct {
	TeacherID string `json:"teacherId"`
}

func (s *Server) handleAcceptTeacher(w http.ResponseWriter, r *http.Request) {
	var req acceptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if strings.TrimSpace(req.TeacherID) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, envelope{
			Status:  "error",
			Message: msgNoTeacher,
			Field:   "teacherId",
			Toast:   errorToast(msgNoTeacher, toastErrorDuration),
		})
		return
	}

	sp, err := s.market.GetSpecialty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.upstreamError(w, r, err, msgAcceptFailed)
		return
	}

	acceptance, err := s.market.AcceptTeacher(r.Context(), ports.AcceptRequest{
		TeacherID: req.TeacherID,
		Notes:     fmt.Sprintf("طلب قبول من تخصص %s", sp.DisplayName()),
	})
	if err != nil {
		s.upstreamError(w, r, err, msgAcceptFailed)
		return
	}

	event := ports.AcceptanceRequested{AcceptanceID: acceptance.ID, TeacherID: req.TeacherID}
	if user := s.currentUser(w, r); user != nil {
		event.SchoolUserID = user.ID
		event.SchoolName = user.Name
	}
	s.publish(r.Context(), ports.TopicAcceptanceRequested, event)

	writeJSON(w, http.StatusOK, envelope{
		Status:  "success",
		Data:    acceptance,
		Message: msgAcceptDetails,
		Toast:   successToast(msgAcceptSent),
	})
}

type acceptancesPage struct {
	Acceptances []domain.Acceptance `json:"acceptances"`
	// SpecialtyNames maps a teacher id to the names of their specialties.
	SpecialtyNames map[string][]string `json:"specialtyNames"`
}

// handleSchoolAcceptances lists the school's requests. Specialty names of
// populated teachers are resolved best-effort.
func (s *Server) handleSchoolAcceptances(w http.ResponseWriter, r *http.Request) {
	list, err := s.market.ListSchoolAcceptances(r.Context())
	if err != nil {
		s.upstreamError(w, r, err, msgAcceptancesFailed)
		return
	}
	list = nonNil(list)

	page := acceptancesPage{Acceptances: list, SpecialtyNames: map[string][]string{}}
	for _, a := range list {
		t := a.Teacher.Teacher
		if t == nil || t.ID == "" {
			continue
		}
		if _, done := page.SpecialtyNames[t.ID]; done {
			continue
		}
		profile := s.enrichTeacher(r.Context(), &domain.Teacher{ID: t.ID, Specialties: t.Specialties})
		names := make([]string, 0, len(profile.Specialties))
		for _, sp := range profile.Specialties {
			names = append(names, sp.DisplayName())
		}
		page.SpecialtyNames[t.ID] = names
	}
	writeOK(w, page)
}
