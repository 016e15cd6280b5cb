package handlers

import "net/http"

// SiteStats reports the running activity counters.
func (a *App) SiteStats(w http.ResponseWriter, r *http.Request) {
	totals, err := a.Stats.Totals(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("read stats failed")
		a.error(w, http.StatusInternalServerError, "internal", "something went wrong")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"totals": totals})
}
