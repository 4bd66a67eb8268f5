// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/pkoh123/carematch-ai/internal/app"
)

// maxUploadBytes bounds one multipart upload request.
const maxUploadBytes = 32 << 20

// ResumesHandler handles resume upload and removal requests.
type ResumesHandler struct {
	deps Dependencies
}

// NewResumesHandler creates a new resumes handler.
func NewResumesHandler(deps Dependencies) *ResumesHandler {
	return &ResumesHandler{deps: deps}
}

// HandleUpload handles POST /sessions/{id}/resumes requests. The body is a
// multipart form with one or more "files" parts; only .pdf files are
// accepted. Parsing starts in the background, so the reply is a 202 with
// the entries still pending.
func (h *ResumesHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "api.upload_resumes"

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrNoFiles))
		return
	}

	uploads := make([]app.Upload, 0, len(files))
	for _, header := range files {
		if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrNotPDF))
			return
		}

		f, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}

		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}

		uploads = append(uploads, app.Upload{Name: header.Filename, Data: data})
	}

	view, err := h.deps.AddResumes(r.Context(), r.PathValue("id"), uploads)
	if err != nil {
		writeAppError(w, op, err)
		return
	}
	writeJSON(w, http.StatusAccepted, view)
}

// HandleRemove handles DELETE /sessions/{id}/resumes/{resumeID} requests.
func (h *ResumesHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	const op = "api.remove_resume"

	view, err := h.deps.RemoveResume(r.Context(), r.PathValue("id"), r.PathValue("resumeID"))
	if err != nil {
		writeAppError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
