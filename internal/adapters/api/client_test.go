package api

import (
	"MasarWeb/internal/core/domain"
	"MasarWeb/internal/core/ports"
	"MasarWeb/internal/shared/config"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a Client at handler and returns both.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	nopLogger := zerolog.Nop()
	return NewClient(config.APIConfig{BaseURL: srv.URL + "/api/", Timeout: 5 * time.Second}, &nopLogger)
}

func writeBody(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestClient_LoginTeacher(t *testing.T) {
	var gotBody map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login/teacher", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		writeBody(w, http.StatusOK, `{"success":true,"message":"ok","data":{"accessToken":"a.b.c","user":{"_id":"t1","fullName":"Fatma","role":"teacher"}}}`)
	})

	res, err := c.LoginTeacher(context.Background(), ports.Credentials{PhoneNumber: "91234567", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"phoneNumber": "91234567", "password": "pw"}, gotBody)
	assert.Equal(t, "a.b.c", res.AccessToken)
	assert.Equal(t, "t1", res.User.ID)
	assert.Equal(t, "ok", res.Message)
}

func TestClient_RegistrationEndpoints(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		writeBody(w, http.StatusCreated, `{"success":true,"data":{"accessToken":"x.y.z","user":{"_id":"u1"}}}`)
	})
	ctx := context.Background()

	_, err := c.RegisterTeacher(ctx, ports.TeacherRegistration{FullName: "A", Age: 30})
	require.NoError(t, err)
	_, err = c.RegisterSchool(ctx, ports.SchoolRegistration{SchoolName: "B"})
	require.NoError(t, err)
	_, err = c.LoginSchool(ctx, ports.Credentials{})
	require.NoError(t, err)
	_, err = c.LoginAdmin(ctx, ports.AdminCredentials{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/api/auth/register/teacher",
		"/api/auth/register/school",
		"/api/auth/login/school",
		"/api/auth/login/admin",
	}, paths)
}

func TestClient_Errors(t *testing.T) {
	testCases := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
		isUnauth   bool
		isShape    bool
	}{
		{name: "backend message", status: 400, body: `{"success":false,"message":"رقم الهاتف مستخدم بالفعل"}`, wantStatus: 400, wantMsg: "رقم الهاتف مستخدم بالفعل"},
		{name: "unauthorized", status: 401, body: `{"success":false,"message":"jwt expired"}`, wantStatus: 401, wantMsg: "jwt expired", isUnauth: true},
		{name: "html error page", status: 502, body: `<html>bad gateway</html>`, wantStatus: 502},
		{name: "success false on 200", status: 200, body: `{"success":false,"message":"nope"}`, wantStatus: http.StatusBadGateway, wantMsg: "nope"},
		{name: "missing token", status: 200, body: `{"success":true,"data":{"user":{"_id":"u1"}}}`, isShape: true},
		{name: "missing user id", status: 200, body: `{"success":true,"data":{"accessToken":"a.b.c","user":{}}}`, isShape: true},
		{name: "not json", status: 200, body: `ok`, isShape: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeBody(w, tc.status, tc.body)
			})

			_, err := c.LoginAdmin(context.Background(), ports.AdminCredentials{Email: "a@b.c", Password: "x"})
			require.Error(t, err)

			if tc.isShape {
				assert.ErrorIs(t, err, ports.ErrUnexpectedResponse)
				return
			}
			var apiErr *ports.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.wantStatus, apiErr.Status)
			assert.Equal(t, tc.wantMsg, apiErr.Message)
			assert.Equal(t, tc.isUnauth, errors.Is(err, ports.ErrUnauthorized))
		})
	}
}

func TestClient_SendsBearerFromContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer a.b.c", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/teachers/me", r.URL.Path)
		writeBody(w, http.StatusOK, `{"success":true,"data":{"_id":"t1","fullName":"Fatma","specialties":["sp1",{"_id":"sp2","nameAr":"علوم"}],"videos":[]}}`)
	})

	ctx := ports.WithAccessToken(context.Background(), "a.b.c")
	teacher, err := c.GetMyTeacherProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Fatma", teacher.FullName)
	assert.Equal(t, []string{"sp1", "sp2"}, domain.RefIDs(teacher.Specialties))
}

func TestClient_ListEndpointsUnwrapNamedKeys(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/teachers":
			assert.Equal(t, "sp1", r.URL.Query().Get("specialty"))
			writeBody(w, 200, `{"success":true,"data":{"teachers":[{"_id":"t1","specialties":[]}]}}`)
		case "/api/schools":
			writeBody(w, 200, `{"success":true,"data":{"schools":[{"_id":"s1"},{"_id":"s2"}]}}`)
		case "/api/videos/specialty/sp1":
			writeBody(w, 200, `{"success":true,"data":{"videos":[{"_id":"v1","videoUrl":"/uploads/v1.mp4","teacher":{"_id":"t1","fullName":"Fatma"},"specialty":"sp1"}]}}`)
		case "/api/acceptance/school":
			writeBody(w, 200, `{"success":true,"data":{"acceptances":[{"_id":"a1","teacher":{"_id":"t1"},"school":"s1","status":"pending"}]}}`)
		case "/api/specialties":
			writeBody(w, 200, `{"success":true,"data":[{"_id":"sp1","nameAr":"رياضيات"}]}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	teachers, err := c.ListTeachers(ctx, "sp1")
	require.NoError(t, err)
	assert.Len(t, teachers, 1)

	schools, err := c.ListSchools(ctx)
	require.NoError(t, err)
	assert.Len(t, schools, 2)

	videos, err := c.ListVideosBySpecialty(ctx, "sp1")
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "t1", videos[0].Teacher.ID)
	assert.Equal(t, "sp1", videos[0].Specialty.ID)

	acceptances, err := c.ListSchoolAcceptances(ctx)
	require.NoError(t, err)
	require.Len(t, acceptances, 1)
	assert.Equal(t, "t1", acceptances[0].Teacher.ID)

	specialties, err := c.ListSpecialties(ctx)
	require.NoError(t, err)
	assert.Equal(t, "رياضيات", specialties[0].DisplayName())
}

func TestClient_ListRejectsItemWithoutID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, 200, `{"success":true,"data":{"schools":[{"_id":"s1"},{"schoolName":"no id"}]}}`)
	})

	_, err := c.ListSchools(context.Background())
	assert.ErrorIs(t, err, ports.ErrUnexpectedResponse)
}

func TestClient_MutationsAndDeletes(t *testing.T) {
	type seen struct{ method, path, body string }
	var calls []seen
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		calls = append(calls, seen{r.Method, r.URL.Path, strings.TrimSpace(string(b))})
		switch {
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case strings.HasPrefix(r.URL.Path, "/api/acceptance"):
			writeBody(w, 200, `{"success":true,"data":{"_id":"a1","teacher":"t1","school":"s1","status":"approved"}}`)
		case strings.HasPrefix(r.URL.Path, "/api/specialties"):
			writeBody(w, 200, `{"success":true,"data":{"_id":"sp9","name":"Art"}}`)
		default:
			writeBody(w, 200, `{"success":true,"data":{"_id":"x1"}}`)
		}
	})
	ctx := context.Background()

	acc, err := c.AcceptTeacher(ctx, ports.AcceptRequest{TeacherID: "t1"})
	require.NoError(t, err)
	assert.Equal(t, "a1", acc.ID)

	acc, err = c.UpdateAcceptanceStatus(ctx, "a1", ports.AcceptanceStatusUpdate{Status: domain.AcceptanceApproved})
	require.NoError(t, err)
	assert.Equal(t, domain.AcceptanceApproved, acc.Status)

	sp, err := c.CreateSpecialty(ctx, domain.SpecialtyInput{Name: "Art"})
	require.NoError(t, err)
	assert.Equal(t, "sp9", sp.ID)

	_, err = c.UpdateSchool(ctx, "s 1", map[string]any{"schoolName": "New"})
	require.NoError(t, err)

	require.NoError(t, c.DeleteVideo(ctx, "v1"))
	require.NoError(t, c.DeleteAcceptance(ctx, "a1"))

	assert.Equal(t, []seen{
		{http.MethodPost, "/api/acceptance/accept", `{"teacherId":"t1"}`},
		{http.MethodPut, "/api/acceptance/a1/status", `{"status":"approved"}`},
		{http.MethodPost, "/api/specialties", `{"name":"Art"}`},
		{http.MethodPut, "/api/schools/s 1", `{"schoolName":"New"}`},
		{http.MethodDelete, "/api/videos/v1", ""},
		{http.MethodDelete, "/api/acceptance/a1", ""},
	}, calls)
}

func TestClient_UploadVideo(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/videos/upload", r.URL.Path)
		assert.Equal(t, "Bearer a.b.c", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "رياضيات - Fatma", r.FormValue("title"))
		assert.Equal(t, "sp1", r.FormValue("specialtyId"))

		f, hdr, err := r.FormFile("video")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "intro.mp4", hdr.Filename)
		assert.Equal(t, "video/mp4", hdr.Header.Get("Content-Type"))
		b, _ := io.ReadAll(f)
		assert.Equal(t, "fake-video-bytes", string(b))

		writeBody(w, http.StatusCreated, `{"success":true,"data":{"_id":"v1","title":"رياضيات - Fatma","videoUrl":"/uploads/v1.mp4","teacher":"t1","specialty":"sp1"}}`)
	})

	ctx := ports.WithAccessToken(context.Background(), "a.b.c")
	video, err := c.UploadVideo(ctx, ports.VideoUpload{
		Filename:    "intro.mp4",
		ContentType: "video/mp4",
		Size:        16,
		Body:        strings.NewReader("fake-video-bytes"),
		Title:       "رياضيات - Fatma",
		SpecialtyID: "sp1",
	})
	require.NoError(t, err)
	assert.Equal(t, "v1", video.ID)
	assert.Equal(t, "/uploads/v1.mp4", video.VideoURL)
}

func TestClient_UploadVideoRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusRequestEntityTooLarge, `{"success":false,"message":"الملف كبير جدا"}`)
	})

	_, err := c.UploadVideo(context.Background(), ports.VideoUpload{
		Filename: "big.mp4",
		Body:     strings.NewReader(strings.Repeat("x", 1024)),
	})
	assert.Equal(t, "الملف كبير جدا", ports.ErrorMessage(err, "fallback"))
}
