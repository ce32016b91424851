// Package server exposes the verifier over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"

	"github.com/vocdoni/cairo2chainstate/verifier"
)

// maxBodySize bounds request bodies; proofs of the aggregation program are
// well below it.
const maxBodySize = 64 << 20

// VerifyRequest is the body of POST /verify.
type VerifyRequest struct {
	PublicInput json.RawMessage `json:"public_input"`
	Proof       []byte          `json:"proof"`
}

// DecodeRequest is the body of POST /decode.
type DecodeRequest struct {
	PublicInput json.RawMessage `json:"public_input"`
}

// Server serves verification requests.
type Server struct {
	verifier *verifier.Verifier
	log      zerolog.Logger
}

// New returns a server backed by v.
func New(v *verifier.Verifier) *Server {
	return &Server{
		verifier: v,
		log:      logger.Logger().With().Str("component", "server").Logger(),
	}
}

// Handler returns the HTTP handler with all routes.
func (s *Server) Handler() http.Handler {
	router := http.NewServeMux()
	router.HandleFunc("GET /healthz", s.healthz)
	router.HandleFunc("POST /verify", s.handleVerify)
	router.HandleFunc("POST /decode", s.handleDecode)
	return LoggingMiddleware(s.log, router)
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("starting server")
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// healthz only reports that the process is serving. The program is loaded
// before the listener starts, and a corrupt artifact aborts start-up.
func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	ReturnJSON(w, "OK", http.StatusOK)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		ReturnErrorJSON(w, "decoding request: "+err.Error(), "bad_request", http.StatusBadRequest)
		return
	}
	cs, err := s.verifier.Verify(req.PublicInput, req.Proof)
	if err != nil {
		writeVerifyError(w, err)
		return
	}
	ReturnJSON(w, cs, http.StatusOK)
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req DecodeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		ReturnErrorJSON(w, "decoding request: "+err.Error(), "bad_request", http.StatusBadRequest)
		return
	}
	cs, err := verifier.Decode(req.PublicInput)
	if err != nil {
		writeVerifyError(w, err)
		return
	}
	ReturnJSON(w, cs, http.StatusOK)
}

// writeVerifyError maps verifier errors to status codes and a stable kind so
// clients can tell a wrong program from an invalid proof.
func writeVerifyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, verifier.ErrMalformedPublicInput):
		ReturnErrorJSON(w, err.Error(), "malformed_public_input", http.StatusBadRequest)
	case errors.Is(err, verifier.ErrMalformedProof):
		ReturnErrorJSON(w, err.Error(), "malformed_proof", http.StatusBadRequest)
	case errors.Is(err, verifier.ErrDecode):
		ReturnErrorJSON(w, err.Error(), "decode", http.StatusUnprocessableEntity)
	case errors.Is(err, verifier.ErrProgramHashMismatch):
		ReturnErrorJSON(w, err.Error(), "program_hash_mismatch", http.StatusUnprocessableEntity)
	case errors.Is(err, verifier.ErrCryptographicVerification):
		ReturnErrorJSON(w, err.Error(), "verification_failed", http.StatusUnprocessableEntity)
	default:
		ReturnErrorJSON(w, err.Error(), "internal", http.StatusInternalServerError)
	}
}
