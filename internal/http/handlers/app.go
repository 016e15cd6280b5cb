package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"jobdesk/internal/ledger"
	"jobdesk/internal/posting"
	"jobdesk/internal/quota"
	"jobdesk/internal/stats"
)

// App holds all dependencies for the HTTP handlers.
type App struct {
	Logger   zerolog.Logger
	Quota    *quota.Manager
	Ledger   *ledger.Ledger
	Postings *posting.Service
	Stats    stats.Recorder
}

// NewApp wires the handler container.
func NewApp(logger zerolog.Logger, q *quota.Manager, l *ledger.Ledger, p *posting.Service, rec stats.Recorder) *App {
	if rec == nil {
		rec = stats.Noop{}
	}
	return &App{Logger: logger, Quota: q, Ledger: l, Postings: p, Stats: rec}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
