package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"jobdesk/internal/domain"
	"jobdesk/internal/middleware"
)

type subscriptionResponse struct {
	Plan        string  `json:"plan"`
	PostLimit   int     `json:"postLimit"`
	PostsUsed   int     `json:"postsUsed"`
	Remaining   int     `json:"remaining"`
	PeriodStart string  `json:"periodStart"`
	ActiveUntil *string `json:"activeUntil,omitempty"`
}

func toSubscriptionResponse(sub *domain.Subscription) subscriptionResponse {
	resp := subscriptionResponse{
		Plan:        string(sub.Plan),
		PostLimit:   sub.PostLimit,
		PostsUsed:   sub.PostsUsed,
		Remaining:   sub.Remaining(),
		PeriodStart: sub.PeriodStart.UTC().Format("2006-01-02"),
	}
	if sub.ActiveUntil != nil {
		s := sub.ActiveUntil.UTC().Format("2006-01-02T15:04:05Z07:00")
		resp.ActiveUntil = &s
	}
	return resp
}

// MyApplications lists the job ids the account has applied to.
func (a *App) MyApplications(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountIDFromContext(r.Context())

	applied, err := a.Ledger.ListAppliedJobIDs(r.Context(), accountID)
	if err != nil {
		a.Logger.Error().Err(err).Str("account_id", accountID).Msg("list applications failed")
		a.error(w, http.StatusInternalServerError, "internal", "something went wrong")
		return
	}

	jobIDs := make([]string, 0, len(applied))
	for id := range applied {
		jobIDs = append(jobIDs, id)
	}
	sort.Strings(jobIDs)
	a.json(w, http.StatusOK, map[string]any{"jobIds": jobIDs})
}

// MySubscription returns the account's current plan and usage. A stale
// monthly period is reset before reporting.
func (a *App) MySubscription(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountIDFromContext(r.Context())

	decision, err := a.Quota.CanPost(r.Context(), accountID)
	if err != nil {
		a.Logger.Error().Err(err).Str("account_id", accountID).Msg("get subscription failed")
		a.error(w, http.StatusInternalServerError, "internal", "something went wrong")
		return
	}

	resp := toSubscriptionResponse(decision.Subscription)
	a.json(w, http.StatusOK, map[string]any{"subscription": resp, "canPost": decision.Allowed})
}

type upgradeRequest struct {
	Plan string `json:"plan"`
}

// UpgradeSubscription moves the account to a paid plan.
func (a *App) UpgradeSubscription(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountIDFromContext(r.Context())

	var req upgradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	plan, err := domain.ParsePlan(req.Plan)
	if err != nil {
		a.error(w, http.StatusBadRequest, "unsupported_plan", "plan must be one of: free, pro, enterprise")
		return
	}

	sub, err := a.Quota.Upgrade(r.Context(), accountID, plan)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedPlan) {
			a.error(w, http.StatusBadRequest, "unsupported_plan", "plan must be one of: free, pro, enterprise")
			return
		}
		a.Logger.Error().Err(err).Str("account_id", accountID).Str("plan", req.Plan).Msg("upgrade failed")
		a.error(w, http.StatusInternalServerError, "internal", "something went wrong")
		return
	}

	a.Logger.Info().Str("account_id", accountID).Str("plan", string(sub.Plan)).Msg("subscription upgraded")
	a.json(w, http.StatusOK, map[string]any{"subscription": toSubscriptionResponse(sub)})
}
