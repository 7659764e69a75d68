package web

import (
	"MasarWeb/internal/core/domain"
	"MasarWeb/internal/core/ports"
	"MasarWeb/internal/core/validation"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

const (
	msgTeachersFailed      = "فشل تحميل المعلمين"
	msgTeacherFailed       = "فشل تحميل بيانات المعلم"
	msgTeacherUpdated      = "تم تحديث بيانات المعلم بنجاح"
	msgTeacherUpdateFailed = "فشل حفظ البيانات"
	msgTeacherDeleted      = "تم حذف المعلم بنجاح"
	msgTeacherDeleteFailed = "فشل حذف المعلم"

	msgSchoolsFailed      = "فشل في تحميل المدارس"
	msgSchoolFailed       = "فشل في تحميل تفاصيل المدرسة"
	msgSchoolUpdated      = "تم تحديث المدرسة بنجاح"
	msgSchoolUpdateFailed = "فشل في تحديث المدرسة"
	msgSchoolDeleted      = "تم حذف المدرسة بنجاح"
	msgSchoolDeleteFailed = "فشل في حذف المدرسة"

	msgSpecialtyCreated      = "تم إضافة التخصص بنجاح"
	msgSpecialtyUpdated      = "تم تحديث التخصص بنجاح"
	msgSpecialtySaveFailed   = "فشل حفظ التخصص"
	msgSpecialtyDeleted      = "تم حذف التخصص بنجاح"
	msgSpecialtyDeleteFailed = "فشل حذف التخصص"

	msgAcceptanceUpdated      = "تم تحديث حالة الطلب بنجاح"
	msgAcceptanceUpdateFailed = "فشل تحديث حالة الطلب"
	msgAcceptanceDeleted      = "تم حذف الطلب بنجاح"
	msgAcceptanceDeleteFailed = "فشل حذف الطلب"

	msgVideosFailed      = "فشل تحميل الفيديوهات"
	msgVideoDeleted      = "تم حذف الفيديو بنجاح"
	msgVideoDeleteFailed = "فشل حذف الفيديو"
)

// handleDashboard counts teachers, schools and specialties. Apart from an
// expired session, failures show zero counts rather than an error page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var stats domain.DashboardStats

	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		list, err := s.market.ListTeachers(gctx, "")
		stats.Teachers = len(list)
		return err
	})
	g.Go(func() error {
		list, err := s.market.ListSchools(gctx)
		stats.Schools = len(list)
		return err
	})
	g.Go(func() error {
		list, err := s.market.ListSpecialties(gctx)
		stats.Specialties = len(list)
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, ports.ErrUnauthorized) {
			s.upstreamError(w, r, err, "")
			return
		}
		s.log.Warn().Err(err).Msg("Dashboard counts unavailable")
		stats = domain.DashboardStats{}
	}
	writeOK(w, stats)
}

// writeDone answers a successful admin mutation.
func writeDone(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusOK, envelope{
		Status:  "success",
		Data:    data,
		Message: message,
		Toast:   successToast(message),
	})
}

func (s *Server) handleAdminListTeachers(w http.ResponseWriter, r *http.Request) {
	list, err := s.market.ListTeachers(r.Context(), r.URL.Query().Get("specialty"))
	if err != nil {
		s.upstreamError(w, r, err, msgTeachersFailed)
		return
	}
	writeOK(w, nonNil(list))
}

func (s *Server) handleAdminGetTeacher(w http.ResponseWriter, r *http.Request) {
	t, err := s.market.GetTeacher(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.upstreamError(w, r, err, msgTeacherFailed)
		return
	}
	writeOK(w, s.enrichTeacher(r.Context(), t))
}

func (s *Server) handleAdminUpdateTeacher(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := decodeJSON(w, r, &fields); err != nil {
		badRequest(w, err)
		return
	}
	if err := validation.CheckTeacherUpdate(fields); err != nil {
		writeInvalid(w, err, toastErrorDuration)
		return
	}
	t, err := s.market.UpdateTeacher(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		s.upstreamError(w, r, err, msgTeacherUpdateFailed)
		return
	}
	writeDone(w, t, msgTeacherUpdated)
}

func (s *Server) handleAdminDeleteTeacher(w http.ResponseWriter, r *http.Request) {
	if err := s.market.DeleteTeacher(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.upstreamError(w, r, err, msgTeacherDeleteFailed)
		return
	}
	writeDone(w, nil, msgTeacherDeleted)
}

func (s *Server) handleAdminListSchools(w http.ResponseWriter, r *http.Request) {
	list, err := s.market.ListSchools(r.Context())
	if err != nil {
		s.upstreamError(w, r, err, msgSchoolsFailed)
		return
	}
	writeOK(w, nonNil(list))
}

func (s *Server) handleAdminGetSchool(w http.ResponseWriter, r *http.Request) {
	school, err := s.market.GetSchool(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.upstreamError(w, r, err, msgSchoolFailed)
		return
	}
	writeOK(w, school)
}

func (s *Server) handleAdminUpdateSchool(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := decodeJSON(w, r, &fields); err != nil {
		badRequest(w, err)
		return
	}
	if err := validation.CheckSchoolUpdate(fields); err != nil {
		writeInvalid(w, err, toastErrorDuration)
		return
	}
	school, err := s.market.UpdateSchool(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		s.upstreamError(w, r, err, msgSchoolUpdateFailed)
		return
	}
	writeDone(w, school, msgSchoolUpdated)
}

func (s *Server) handleAdminDeleteSchool(w http.ResponseWriter, r *http.Request) {
	if err := s.market.DeleteSchool(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.upstreamError(w, r, err, msgSchoolDeleteFailed)
		return
	}
	writeDone(w, nil, msgSchoolDeleted)
}

func (s *Server) handleAdminListSpecialties(w http.ResponseWriter, r *http.Request) {
	list, err := s.market.ListSpecialties(r.Context())
	if err != nil {
		s.upstreamError(w, r, err, msgSpecialtiesFailed)
		return
	}
	writeOK(w, nonNil(list))
}

func (s *Server) handleAdminCreateSpecialty(w http.ResponseWriter, r *http.Request) {
	var in domain.SpecialtyInput
	if err := decodeJSON(w, r, &in); err != nil {
		badRequest(w, err)
		return
	}
	if err := validation.CheckSpecialty(in); err != nil {
		writeInvalid(w, err, toastErrorDuration)
		return
	}
	sp, err := s.market.CreateSpecialty(r.Context(), in)
	if err != nil {
		s.upstreamError(w, r, err, msgSpecialtySaveFailed)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{
		Status:  "success",
		Data:    sp,
		Message: msgSpecialtyCreated,
		Toast:   successToast(msgSpecialtyCreated),
	})
}

func (s *Server) handleAdminUpdateSpecialty(w http.ResponseWriter, r *http.Request) {
	var in domain.SpecialtyInput
	if err := decodeJSON(w, r, &in); err != nil {
		badRequest(w, err)
		return
	}
	if err := validation.CheckSpecialty(in); err != nil {
		writeInvalid(w, err, toastErrorDuration)
		return
	}
	sp, err := s.market.UpdateSpecialty(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		s.upstreamError(w, r, err, msgSpecialtySaveFailed)
		return
	}
	writeDone(w, sp, msgSpecialtyUpdated)
}

func (s *Server) handleAdminDeleteSpecialty(w http.ResponseWriter, r *http.Request) {
	if err := s.market.DeleteSpecialty(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.upstreamError(w, r, err, msgSpecialtyDeleteFailed)
		return
	}
	writeDone(w, nil, msgSpecialtyDeleted)
}

func (s *Server) handleAdminListAcceptances(w http.ResponseWriter, r *http.Request) {
	list, err := s.market.ListAllAcceptances(r.Context())
	if err != nil {
		s.upstreamError(w, r, err, msgAcceptancesFailed)
		return
	}
	writeOK(w, nonNil(list))
}

func (s *Server) handleAdminUpdateAcceptanceStatus(w http.ResponseWriter, r *http.Request) {
	var in ports.AcceptanceStatusUpdate
	if err := decodeJSON(w, r, &in); err != nil {
		badRequest(w, err)
		return
	}
	if err := validation.CheckAcceptanceStatus(in.Status); err != nil {
		writeInvalid(w, err, toastErrorDuration)
		return
	}
	a, err := s.market.UpdateAcceptanceStatus(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		s.upstreamError(w, r, err, msgAcceptanceUpdateFailed)
		return
	}
	writeDone(w, a, msgAcceptanceUpdated)
}

func (s *Server) handleAdminDeleteAcceptance(w http.ResponseWriter, r *http.Request) {
	if err := s.market.DeleteAcceptance(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.upstreamError(w, r, err, msgAcceptanceDeleteFailed)
		return
	}
	writeDone(w, nil, msgAcceptanceDeleted)
}

func (s *Server) handleAdminListVideos(w http.ResponseWriter, r *http.Request) {
	list, err := s.market.ListVideos(r.Context())
	if err != nil {
		s.upstreamError(w, r, err, msgVideosFailed)
		return
	}
	for i := range list {
		list[i].VideoURL = domain.ResolveMediaURL(list[i].VideoURL, s.cfg.API.MediaBaseURL)
	}
	writeOK(w, nonNil(list))
}

func (s *Server) handleAdminDeleteVideo(w http.ResponseWriter, r *http.Request) {
	if err := s.market.DeleteVideo(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.upstreamError(w, r, err, msgVideoDeleteFailed)
		return
	}
	writeDone(w, nil, msgVideoDeleted)
}

// nonNil renders an empty list as [] rather than null.
func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
