package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/profile2pdf/internal/rendering"
	"github.com/jonathan/profile2pdf/internal/resume"
	"github.com/jonathan/profile2pdf/internal/schemas"
	"github.com/jonathan/profile2pdf/internal/types"
	schemafiles "github.com/jonathan/profile2pdf/schemas"
)

// maxResumeBody caps résumé uploads
const maxResumeBody = 1 << 20

// EditRequest is the request body for PATCH /sessions/{id}/resume
type EditRequest struct {
	Operations []resume.Operation `json:"operations"`
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEditResume applies a batch of edit operations. The batch is atomic:
// when any operation fails the stored résumé is unchanged.
func (s *Server) handleEditResume(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.sessions.Get(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}

	var req EditRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if len(req.Operations) == 0 {
		s.fail(w, r, &RequestError{Message: "operations must not be empty"})
		return
	}

	sess, err := s.sessions.UpdateResume(r.Context(), id, func(current *types.ResumeRecord) (*types.ResumeRecord, error) {
		return resume.Apply(current, req.Operations...)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Resume)
}

// handleReplaceResume replaces the résumé with a schema-valid document
func (s *Server) handleReplaceResume(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.sessions.Get(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxResumeBody))
	if err != nil {
		s.fail(w, r, &RequestError{Message: "could not read body", Cause: err})
		return
	}
	if err := schemas.ValidateJSONBytes(schemafiles.Resume, body); err != nil {
		s.fail(w, r, err)
		return
	}

	var record types.ResumeRecord
	if err := json.Unmarshal(body, &record); err != nil {
		s.fail(w, r, &RequestError{Message: "invalid resume", Cause: err})
		return
	}
	s.storeResume(w, r, id, &record)
}

func (s *Server) storeResume(w http.ResponseWriter, r *http.Request, id string, record *types.ResumeRecord) {
	sess, err := s.sessions.ReplaceResume(r.Context(), id, record)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Resume)
}

func (s *Server) handleResumeHTML(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	html, err := rendering.RenderHTML(sess.Resume, sess.CreatedAt)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, html) //nolint:errcheck
}

func (s *Server) handleResumePDF(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	pdf, err := s.pdf.RenderResume(r.Context(), sess.Resume, sess.CreatedAt)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Debug("resume printed", zap.String("session_id", sess.ID), zap.Int("bytes", len(pdf)))

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="resume-%s.pdf"`, sess.CreatedAt.Format(rendering.CreatedDateLayout)))
	w.Header().Set("Content-Length", fmt.Sprint(len(pdf)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf) //nolint:errcheck
}
