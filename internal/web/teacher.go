package web

import (
	"MasarWeb/internal/core/domain"
	"MasarWeb/internal/core/ports"
	"MasarWeb/internal/core/validation"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	msgProfileFailed = "فشل تحميل الملف الشخصي. حاول مرة أخرى"
	msgUploadFailed  = "فشل رفع الفيديو. حاول مرة أخرى"
	msgUploadDone    = "تم رفع الفيديو بنجاح!"
	msgNoSpecialty   = "يرجى اختيار التخصص"
	msgNoVideo       = "يرجى اختيار ملف فيديو"
)

// enrichLimit caps concurrent lookups per page.
const enrichLimit = 4

// teacherProfile is a teacher with references resolved to records.
type teacherProfile struct {
	Teacher     *domain.Teacher    `json:"teacher"`
	Specialties []domain.Specialty `json:"specialties"`
	Videos      []domain.Video     `json:"videos"`
}

func (s *Server) handleTeacherProfile(w http.ResponseWriter, r *http.Request) {
	t, err := s.market.GetMyTeacherProfile(r.Context())
	if err != nil {
		s.upstreamError(w, r, err, msgProfileFailed)
		return
	}
	writeOK(w, s.enrichTeacher(r.Context(), t))
}

// enrichTeacher resolves the teacher's specialty and video references.
// Populated references are decoded in place; bare ids are fetched. A
// lookup that fails is dropped from the result.
func (s *Server) enrichTeacher(ctx context.Context, t *domain.Teacher) teacherProfile {
	specialties := make([]*domain.Specialty, len(t.Specialties))
	videos := make([]*domain.Video, len(t.Videos))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichLimit)

	for i, ref := range t.Specialties {
		g.Go(func() error {
			specialties[i] = s.resolveSpecialty(gctx, ref)
			return nil
		})
	}
	for i, ref := range t.Videos {
		g.Go(func() error {
			videos[i] = s.resolveVideo(gctx, ref)
			return nil
		})
	}
	_ = g.Wait()

	out := teacherProfile{
		Teacher:     t,
		Specialties: make([]domain.Specialty, 0, len(specialties)),
		Videos:      make([]domain.Video, 0, len(videos)),
	}
	for _, sp := range specialties {
		if sp != nil {
			out.Specialties = append(out.Specialties, *sp)
		}
	}
	for _, v := range videos {
		if v != nil {
			v.VideoURL = domain.ResolveMediaURL(v.VideoURL, s.cfg.API.MediaBaseURL)
			out.Videos = append(out.Videos, *v)
		}
	}
	return out
}

func (s *Server) resolveSpecialty(ctx context.Context, ref domain.Ref) *domain.Specialty {
	if len(ref.Raw) > 0 {
		var sp domain.Specialty
		if err := json.Unmarshal(ref.Raw, &sp); err == nil && sp.ID != "" {
			return &sp
		}
	}
	if ref.ID == "" {
		return nil
	}
	sp, err := s.market.GetSpecialty(ctx, ref.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("specialty_id", ref.ID).Msg("Failed to resolve specialty")
		return nil
	}
	return sp
}

func (s *Server) resolveVideo(ctx context.Context, ref domain.Ref) *domain.Video {
	if len(ref.Raw) > 0 {
		var v domain.Video
		if err := json.Unmarshal(ref.Raw, &v); err == nil && v.ID != "" && v.VideoURL != "" {
			return &v
		}
	}
	if ref.ID == "" {
		return nil
	}
	v, err := s.market.GetVideo(ctx, ref.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("video_id", ref.ID).Msg("Failed to resolve video")
		return nil
	}
	return v
}

// handleUploadVideo forwards a multipart video to the API. The title is
// built from the specialty name and the teacher's full name.
func (s *Server) handleUploadVideo(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.cfg.Uploads.MaxVideoSizeMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+(1<<20))

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeInvalid(w, validation.CheckUpload(maxBytes+1, "video/", s.cfg.Uploads.MaxVideoSizeMB), toastErrorDuration)
			return
		}
		badRequest(w, fmt.Errorf("invalid multipart form: %w", err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	specialtyID := strings.TrimSpace(r.FormValue("specialtyId"))
	if specialtyID == "" {
		writeJSON(w, http.StatusUnprocessableEntity, envelope{
			Status:  "error",
			Message: msgNoSpecialty,
			Field:   "specialtyId",
			Toast:   errorToast(msgNoSpecialty, toastErrorDuration),
		})
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, envelope{
			Status:  "error",
			Message: msgNoVideo,
			Field:   "video",
			Toast:   errorToast(msgNoVideo, toastErrorDuration),
		})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if err := validation.CheckUpload(header.Size, contentType, s.cfg.Uploads.MaxVideoSizeMB); err != nil {
		writeInvalid(w, err, toastErrorDuration)
		return
	}

	title, err := s.videoTitle(r.Context(), specialtyID)
	if err != nil {
		s.upstreamError(w, r, err, msgUploadFailed)
		return
	}
	if user := s.currentUser(w, r); user != nil && user.Name != "" {
		title += " - " + user.Name
	}

	video, err := s.market.UploadVideo(r.Context(), ports.VideoUpload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
		Title:       title,
		SpecialtyID: specialtyID,
	})
	if err != nil {
		s.upstreamError(w, r, err, msgUploadFailed)
		return
	}

	video.VideoURL = domain.ResolveMediaURL(video.VideoURL, s.cfg.API.MediaBaseURL)
	writeJSON(w, http.StatusCreated, envelope{
		Status:  "success",
		Data:    video,
		Message: msgUploadDone,
		Toast:   successToast(msgUploadDone),
	})
}

func (s *Server) videoTitle(ctx context.Context, specialtyID string) (string, error) {
	sp, err := s.market.GetSpecialty(ctx, specialtyID)
	if err != nil {
		return "", err
	}
	return sp.DisplayName(), nil
}
