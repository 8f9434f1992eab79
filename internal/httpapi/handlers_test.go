package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jose-valero/pug-picker-bot/internal/app"
	"github.com/jose-valero/pug-picker-bot/internal/picker"
	"github.com/jose-valero/pug-picker-bot/internal/storage"
	"github.com/jose-valero/pug-picker-bot/internal/storage/memory"
)

type brokenRecorder struct{}

func (brokenRecorder) Log(context.Context, storage.GameRecord) error {
	return errors.New("connection refused")
}

func newServer(t *testing.T, rec storage.GameRecorder, debug bool) (*httptest.Server, *app.Session) {
	t.Helper()
	store := memory.New()
	if rec == nil {
		rec = store
	}
	s := app.NewSession(app.SessionDeps{
		Picker:   picker.New(store, picker.WithRand(rand.New(rand.NewPCG(3, 4)))),
		Recorder: rec,
	})
	srv := httptest.NewServer(SetupRoutes(s, Options{
		Connected:  func() bool { return true },
		DebugTools: debug,
	}))
	t.Cleanup(srv.Close)
	return srv, s
}

func do(t *testing.T, method, url, body string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func fill(t *testing.T, s *app.Session) {
	t.Helper()
	for i := range 4 {
		for _, kw := range []string{"dps", "support"} {
			_, err := s.SignUp(fmt.Sprintf("%s%d", kw, i), kw)
			require.NoError(t, err)
		}
	}
	for i := range 2 {
		_, err := s.SignUp(fmt.Sprintf("tank%d", i), "tank")
		require.NoError(t, err)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newServer(t, nil, false)
	code, body := do(t, http.MethodGet, srv.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, true, body["chat_connected"])
}

func TestQueueTransitions(t *testing.T) {
	srv, _ := newServer(t, nil, false)

	code, body := do(t, http.MethodPost, srv.URL+"/queue/stop", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, body["error"], "invalid queue transition")

	code, body = do(t, http.MethodPost, srv.URL+"/queue/toggle", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "active", body["state"])

	code, body = do(t, http.MethodPost, srv.URL+"/queue/stop", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "inactive", body["state"])

	code, body = do(t, http.MethodPost, srv.URL+"/queue/resume", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "active", body["state"])

	code, _ = do(t, http.MethodPost, srv.URL+"/queue/start", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestTeamsAndWinner(t *testing.T) {
	srv, s := newServer(t, nil, false)

	code, body := do(t, http.MethodPost, srv.URL+"/teams", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code, "empty queue is short on players")
	assert.Contains(t, body["error"], "not enough")

	_, _ = s.Start()
	fill(t, s)
	_, _ = s.Stop()

	code, body = do(t, http.MethodPost, srv.URL+"/teams", "")
	require.Equal(t, http.StatusCreated, code)
	assert.NotEmpty(t, body["id"])
	assert.NotEmpty(t, body["captain1"])

	code, body = do(t, http.MethodGet, srv.URL+"/status", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ingame", body["state"])
	assert.NotNil(t, body["game"])

	code, _ = do(t, http.MethodPost, srv.URL+"/games/winner", `{"winner":"purple"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, body = do(t, http.MethodPost, srv.URL+"/games/winner", `{"winner":"team1"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["logged"])

	code, _ = do(t, http.MethodPost, srv.URL+"/games/winner", `{"winner":"team2"}`)
	assert.Equal(t, http.StatusConflict, code)
}

func TestWinnerStorageFailureIs500(t *testing.T) {
	srv, s := newServer(t, brokenRecorder{}, false)
	_, _ = s.Start()
	fill(t, s)
	_, _ = s.Stop()
	_, err := s.Assemble(context.Background())
	require.NoError(t, err)

	code, body := do(t, http.MethodPost, srv.URL+"/games/winner", `{"winner":"team2"}`)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal error", body["error"])
	assert.Equal(t, "ingame", string(s.Status().State))
}

func TestPutQuotas(t *testing.T) {
	srv, _ := newServer(t, nil, false)

	code, body := do(t, http.MethodPut, srv.URL+"/quotas", `{"tanks_per_team":0,"dps_per_team":2,"supports_per_team":2}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["canonical"])

	code, _ = do(t, http.MethodPut, srv.URL+"/quotas", `{"tanks_per_team":5,"dps_per_team":2,"supports_per_team":2}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = do(t, http.MethodPut, srv.URL+"/quotas", `not json`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestPopulateOnlyWithDebugTools(t *testing.T) {
	srv, _ := newServer(t, nil, false)
	resp, err := http.Post(srv.URL+"/debug/populate", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	srv, s := newServer(t, nil, true)
	code, _ := do(t, http.MethodPost, srv.URL+"/debug/populate?n=5", "")
	assert.Equal(t, http.StatusConflict, code, "queue must be active")

	_, _ = s.Start()
	code, body := do(t, http.MethodPost, srv.URL+"/debug/populate?n=5", "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 5, body["joined"])

	code, _ = do(t, http.MethodPost, srv.URL+"/debug/populate?n=abc", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}
