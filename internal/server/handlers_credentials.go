package server

import (
	"net/http"

	"github.com/jonathan/profile2pdf/internal/credentials"
)

// CredentialsRequest is the request body for PUT /credentials
type CredentialsRequest struct {
	APIKey string `json:"apiKey"`
}

// CredentialsResponse reports whether an API key is stored. The key itself
// is never returned, only its masked form.
type CredentialsResponse struct {
	Set    bool   `json:"set"`
	Masked string `json:"masked,omitempty"`
}

func (s *Server) handleGetCredentials(w http.ResponseWriter, r *http.Request) {
	key, ok, err := s.credentials.Get(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := CredentialsResponse{Set: ok}
	if ok {
		resp.Masked = credentials.Mask(key)
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handlePutCredentials(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.credentials.Set(r.Context(), req.APIKey); err != nil {
		s.fail(w, r, err)
		return
	}

	key, _, err := s.credentials.Get(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, CredentialsResponse{Set: true, Masked: credentials.Mask(key)})
}
