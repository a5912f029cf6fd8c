package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/douglas-run/douglas/internal/logging"
	"github.com/douglas-run/douglas/pkg/domain"
	"github.com/douglas-run/douglas/pkg/ports"
)

type fakeEngine struct {
	runOut   domain.DisplayOutput
	runErr   error
	lastName string
	lastIn   string

	galaxies []*domain.Galaxy
	problems []ports.Problem
}

func (f *fakeEngine) Run(ctx context.Context, name, input string) (domain.DisplayOutput, error) {
	f.lastName = name
	f.lastIn = input
	return f.runOut, f.runErr
}

func (f *fakeEngine) List() ([]*domain.Galaxy, []ports.Problem) {
	return f.galaxies, f.problems
}

func newTestHandler(engine *fakeEngine) http.Handler {
	return NewHandler(engine, logging.NewNop())
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler(&fakeEngine{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListGalaxies(t *testing.T) {
	engine := &fakeEngine{
		galaxies: []*domain.Galaxy{
			{Name: "hello", Title: "Hello", Action: "echo hi"},
		},
		problems: []ports.Problem{
			{Path: "apps/bad.yaml", Err: errors.New("boom")},
		},
	}

	rec := httptest.NewRecorder()
	newTestHandler(engine).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/galaxies", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Galaxies, 1)
	assert.Equal(t, "hello", resp.Galaxies[0].Name)
	require.Len(t, resp.Problems, 1)
	assert.Equal(t, "apps/bad.yaml", resp.Problems[0].Path)
	assert.Equal(t, "boom", resp.Problems[0].Error)
}

func TestRunGalaxy_OK(t *testing.T) {
	id := int64(3)
	engine := &fakeEngine{
		runOut: domain.DisplayOutput{Text: "hi", PersistedID: &id},
	}

	req := httptest.NewRequest(http.MethodPost, "/galaxies/hello/run", strings.NewReader(`{"input":"toast"}`))
	rec := httptest.NewRecorder()
	newTestHandler(engine).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", engine.lastName)
	assert.Equal(t, "toast", engine.lastIn)

	var out domain.DisplayOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "hi", out.Text)
	require.NotNil(t, out.PersistedID)
	assert.Equal(t, int64(3), *out.PersistedID)
}

func TestRunGalaxy_EmptyBodyAllowed(t *testing.T) {
	engine := &fakeEngine{runOut: domain.DisplayOutput{Text: "hi"}}

	req := httptest.NewRequest(http.MethodPost, "/galaxies/hello/run", nil)
	rec := httptest.NewRecorder()
	newTestHandler(engine).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, engine.lastIn)
}

func TestRunGalaxy_BadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/galaxies/hello/run", strings.NewReader("{nope"))
	rec := httptest.NewRecorder()
	newTestHandler(&fakeEngine{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunGalaxy_ErrorStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unknown galaxy", domain.ErrGalaxyNotFound, http.StatusNotFound},
		{"parse error", &domain.ParseError{Path: "x.yaml", Err: errors.New("bad")}, http.StatusUnprocessableEntity},
		{"config error", &domain.ConfigError{Galaxy: "g", Reason: "nothing to do"}, http.StatusUnprocessableEntity},
		{"llm error", &domain.LLMError{Provider: "openai", Err: errors.New("down")}, http.StatusBadGateway},
		{"anything else", errors.New("weird"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := &fakeEngine{runErr: tc.err}
			req := httptest.NewRequest(http.MethodPost, "/galaxies/g/run", nil)
			rec := httptest.NewRecorder()
			newTestHandler(engine).ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler(&fakeEngine{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
