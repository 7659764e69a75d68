package api

import (
	"MasarWeb/internal/core/domain"
	"MasarWeb/internal/core/ports"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// UploadVideo streams the file to POST /videos/upload as multipart form
// fields "title", "specialtyId" and "video".
func (c *Client) UploadVideo(ctx context.Context, in ports.VideoUpload) (*domain.Video, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeVideoForm(mw, in))
	}()

	raw, err := c.do(ctx, http.MethodPost, "/videos/upload", mw.FormDataContentType(), pr)
	// Unblocks the writer if the request ended before the body was drained.
	pr.CloseWithError(io.ErrClosedPipe)
	if err != nil {
		return nil, err
	}

	env, err := decode[domain.Video](c, http.MethodPost, "/videos/upload", raw)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func writeVideoForm(mw *multipart.Writer, in ports.VideoUpload) error {
	if err := mw.WriteField("title", in.Title); err != nil {
		return err
	}
	if err := mw.WriteField("specialtyId", in.SpecialtyID); err != nil {
		return err
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="video"; filename="%s"`, quoteEscaper.Replace(in.Filename)))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, in.Body); err != nil {
		return fmt.Errorf("copy video: %w", err)
	}
	return mw.Close()
}
