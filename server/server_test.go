package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocdoni/cairo2chainstate/chainstate"
	"github.com/vocdoni/cairo2chainstate/felt"
	"github.com/vocdoni/cairo2chainstate/internal/fixture"
	"github.com/vocdoni/cairo2chainstate/stark"
	"github.com/vocdoni/cairo2chainstate/verifier"
)

func TestMain(m *testing.M) {
	logger.Disable()
	os.Exit(m.Run())
}

type engine struct {
	err   error
	calls atomic.Int32
}

func (e *engine) DecodeProof(data []byte) (*stark.Proof, error) {
	if len(data) == 0 {
		return nil, stark.ErrEmptyProof
	}
	return stark.NewProof(data), nil
}

func (e *engine) Verify(*stark.Claim, *stark.Proof, uint32) error {
	e.calls.Add(1)
	return e.err
}

func newTestServer(t *testing.T, e stark.Engine) *httptest.Server {
	t.Helper()
	v, err := verifier.New(e, verifier.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	srv := httptest.NewServer(New(v).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url string, body any) (*http.Response, []byte) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func errorKind(t *testing.T, body []byte) string {
	t.Helper()
	var e errorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.NotEmpty(t, e.Error)
	return e.Kind
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &engine{})
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var status string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, "OK", status)
}

func TestVerifyEndpoint(t *testing.T) {
	e := &engine{}
	srv := newTestServer(t, e)
	output, want := fixture.Output(verifier.ExpectedProgramHash)

	resp, body := post(t, srv.URL+"/verify", VerifyRequest{
		PublicInput: fixture.PublicInputJSON(output),
		Proof:       []byte("proof"),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var got chainstate.ChainState
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, *want, got)
	assert.Equal(t, int32(1), e.calls.Load())
}

func TestVerifyEndpointErrors(t *testing.T) {
	good, _ := fixture.Output(verifier.ExpectedProgramHash)
	wrong, _ := fixture.Output(felt.FromUint64(1))

	tests := []struct {
		name       string
		engineErr  error
		req        VerifyRequest
		wantStatus int
		wantKind   string
	}{
		{"malformed public input", nil, VerifyRequest{PublicInput: json.RawMessage(`[1]`), Proof: []byte("p")}, http.StatusBadRequest, "malformed_public_input"},
		{"malformed proof", nil, VerifyRequest{PublicInput: fixture.PublicInputJSON(good)}, http.StatusBadRequest, "malformed_proof"},
		{"short output", nil, VerifyRequest{PublicInput: fixture.PublicInputJSON(good[:60]), Proof: []byte("p")}, http.StatusUnprocessableEntity, "decode"},
		{"wrong program", nil, VerifyRequest{PublicInput: fixture.PublicInputJSON(wrong), Proof: []byte("p")}, http.StatusUnprocessableEntity, "program_hash_mismatch"},
		{"invalid proof", errors.New("fri"), VerifyRequest{PublicInput: fixture.PublicInputJSON(good), Proof: []byte("p")}, http.StatusUnprocessableEntity, "verification_failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &engine{err: tt.engineErr})
			resp, body := post(t, srv.URL+"/verify", tt.req)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantKind, errorKind(t, body))
		})
	}
}

func TestVerifyEndpointBadBody(t *testing.T) {
	srv := newTestServer(t, &engine{})
	resp, err := http.Post(srv.URL+"/verify", "application/json", bytes.NewReader([]byte("{")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDecodeEndpoint(t *testing.T) {
	e := &engine{}
	srv := newTestServer(t, e)
	output, want := fixture.Output(felt.FromUint64(1))

	resp, body := post(t, srv.URL+"/decode", DecodeRequest{PublicInput: fixture.PublicInputJSON(output)})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var got chainstate.ChainState
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, *want, got)
	assert.Zero(t, e.calls.Load())
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &engine{})
	resp, err := http.Get(srv.URL + "/verify")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
