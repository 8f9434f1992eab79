package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/jose-valero/pug-picker-bot/internal/app"
	"github.com/jose-valero/pug-picker-bot/internal/domain/match"
	"github.com/jose-valero/pug-picker-bot/internal/picker"
	"github.com/jose-valero/pug-picker-bot/internal/queue"
)

const maxPopulate = 100

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps domain errors onto HTTP codes. Anything unknown is a
// storage or internal failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, queue.ErrInvalidTransition),
		errors.Is(err, queue.ErrNotAccepting),
		errors.Is(err, app.ErrGamePending),
		errors.Is(err, app.ErrNoGame),
		errors.Is(err, match.ErrWinnerAlreadySet):
		return http.StatusConflict
	case errors.Is(err, picker.ErrInsufficientPlayers),
		errors.Is(err, picker.ErrInvalidQuotas),
		errors.Is(err, match.ErrInvalidWinner),
		errors.Is(err, queue.ErrUnknownRole):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
		writeJSON(w, code, errorBody{Error: "internal error"})
		return
	}
	writeJSON(w, code, errorBody{Error: err.Error()})
}

func Healthz(connected func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := struct {
			OK            bool  `json:"ok"`
			ChatConnected *bool `json:"chat_connected,omitempty"`
		}{OK: true}
		if connected != nil {
			c := connected()
			body.ChatConnected = &c
		}
		writeJSON(w, http.StatusOK, body)
	}
}

func GetStatus(s *app.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.Status())
	}
}

func Transition(fn func() (queue.State, error), log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := fn()
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			State queue.State `json:"state"`
		}{State: state})
	}
}

func CreateTeams(s *app.Session, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := s.Assemble(r.Context())
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusCreated, g)
	}
}

func RecordWinner(s *app.Session, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Winner string `json:"winner"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "invalid JSON body"})
			return
		}
		winner, ok := match.ParseWinner(body.Winner)
		if !ok {
			writeError(w, log, match.ErrInvalidWinner)
			return
		}
		g, logged, err := s.RecordWinner(r.Context(), winner)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Game   match.Game `json:"game"`
			Logged bool       `json:"logged"`
		}{Game: g, Logged: logged})
	}
}

func PutQuotas(s *app.Session, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q match.Quotas
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "invalid JSON body"})
			return
		}
		if err := s.SetQuotas(q); err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, s.Status())
	}
}

func Populate(s *app.Session, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := 20
		if raw := r.URL.Query().Get("n"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 1 || v > maxPopulate {
				writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "n must be between 1 and 100"})
				return
			}
			n = v
		}
		joined, err := s.Populate(n)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Joined int `json:"joined"`
		}{Joined: joined})
	}
}
