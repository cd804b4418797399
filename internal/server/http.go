// Package server exposes the collision service over HTTP and WebSocket.
package server

import (
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/tomz197/shapecollide/internal/log"
	"github.com/tomz197/shapecollide/internal/service"
	"github.com/tomz197/shapecollide/internal/shape"
)

// maxBodyBytes caps request bodies; a full default batch fits comfortably.
const maxBodyBytes = 1 << 20

//go:embed index.html
var indexPage string

// Server routes HTTP requests to a service.Service.
type Server struct {
	svc *service.Service
	log log.Log
	mux *http.ServeMux
	// sshHost is substituted into the index page.
	sshHost string
}

// New builds the handler tree.
func New(svc *service.Service, l log.Log, sshHost string) *Server {
	s := &Server{svc: svc, log: l, mux: http.NewServeMux(), sshHost: sshHost}
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /collide", s.handleCollide)
	s.mux.HandleFunc("POST /collide/batch", s.handleBatch)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type batchRequest struct {
	Pairs []service.Pair `json:"pairs"`
}

type batchResponse struct {
	Results []service.Result `json:"results"`
}

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Index *int   `json:"index,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := strings.ReplaceAll(indexPage, "{{.SSHHost}}", s.sshHost)
	_, _ = w.Write([]byte(page))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Health())
}

func (s *Server) handleCollide(w http.ResponseWriter, r *http.Request) {
	var pair service.Pair
	if err := decodeBody(w, r, &pair); err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.svc.Collide(r.Context(), pair)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	results, err := s.svc.CollideBatch(r.Context(), req.Pairs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if results == nil {
		results = []service.Result{}
	}
	writeJSON(w, http.StatusOK, batchResponse{Results: results})
}

// badRequest marks malformed request bodies.
type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest{err: err}
	}
	return nil
}

// classify maps an error to its HTTP status and response body.
func classify(err error) (int, errorResponse) {
	body := errorResponse{Error: err.Error()}

	var pe *service.PairError
	if errors.As(err, &pe) {
		idx := pe.Index
		body.Index = &idx
	}

	var tooLarge *http.MaxBytesError
	var malformed badRequest
	switch {
	case shape.KindOf(err) != 0:
		body.Kind = shape.KindOf(err).String()
		return http.StatusBadRequest, body
	case errors.Is(err, service.ErrBatchTooLarge), errors.As(err, &tooLarge):
		body.Kind = "too_large"
		return http.StatusRequestEntityTooLarge, body
	case errors.As(err, &malformed):
		body.Kind = "bad_request"
		return http.StatusBadRequest, body
	default:
		body.Kind = "internal"
		return http.StatusInternalServerError, body
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", log.Err(err))
	} else {
		s.log.Debug("request rejected", log.Int("status", status), log.Err(err))
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
