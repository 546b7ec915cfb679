package server

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/profile2pdf/internal/events"
	"github.com/jonathan/profile2pdf/internal/pipeline"
	"github.com/jonathan/profile2pdf/internal/types"
)

var validate = validator.New()

// FetchRequest is the request body for /profiles/fetch
type FetchRequest struct {
	ProfileURL    string   `json:"profileUrl" validate:"required"`
	ReferenceURLs []string `json:"referenceUrls,omitempty" validate:"max=10"`
}

// FetchResponse is the result of a profile fetch: the aggregated data, the
// synthesized résumé and the session holding both for later edits.
type FetchResponse struct {
	SessionID string                       `json:"sessionId"`
	Result    *types.AggregatedFetchResult `json:"result"`
	Resume    *types.ResumeRecord          `json:"resume"`
}

func (s *Server) readFetchRequest(r *http.Request) (FetchRequest, error) {
	var req FetchRequest
	if err := decodeJSON(r, &req); err != nil {
		return req, err
	}
	if err := validate.Struct(req); err != nil {
		return req, &RequestError{Message: "invalid fetch request", Cause: err}
	}
	return req, nil
}

// fetch aggregates the request, synthesizes the résumé and opens a session.
func (s *Server) fetch(ctx context.Context, req FetchRequest, onProgress pipeline.ProgressCallback) (*FetchResponse, error) {
	requestID := uuid.NewString()
	publish := events.ProgressPublisher(ctx, s.events, requestID, req.ProfileURL, s.logger)

	result, err := s.fetcher.Fetch(ctx, pipeline.Request{
		ProfileURL:    req.ProfileURL,
		ReferenceURLs: req.ReferenceURLs,
		OnProgress:    pipeline.Chain(onProgress, publish),
	})
	if err != nil {
		return nil, err
	}

	record := s.synthesizer.Synthesize(&result.Profile)
	sess, err := s.sessions.Create(ctx, result, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("profile fetched",
		zap.String("request_id", requestID),
		zap.String("session_id", sess.ID),
		zap.Bool("synthetic", result.Synthetic))

	return &FetchResponse{SessionID: sess.ID, Result: result, Resume: sess.Resume}, nil
}

// handleFetch aggregates a profile and returns the result in one response
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	req, err := s.readFetchRequest(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp, err := s.fetch(r.Context(), req, nil)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, resp)
}

// handleFetchStream aggregates a profile and streams progress via SSE
func (s *Server) handleFetchStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.readFetchRequest(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	onProgress := func(event pipeline.ProgressEvent) {
		// The final result is sent once, in the complete event
		event.Content = nil
		if err := sse.WriteEvent(EventProgress, event); err != nil {
			s.logger.Debug("error writing SSE event", zap.Error(err))
		}
	}

	resp, err := s.fetch(r.Context(), req, onProgress)
	if err != nil {
		if HTTPStatus(err) >= http.StatusInternalServerError {
			s.logger.Error("streaming fetch failed", err)
			sse.WriteError(http.StatusText(http.StatusInternalServerError))
			return
		}
		sse.WriteError(err.Error())
		return
	}
	sse.WriteComplete(*resp)
}
