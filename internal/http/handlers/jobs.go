package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"jobdesk/internal/domain"
	"jobdesk/internal/middleware"
	"jobdesk/internal/posting"
	"jobdesk/internal/stats"
)

type createJobRequest struct {
	Title       string `json:"title"`
	CompanyName string `json:"companyName"`
	Location    string `json:"location"`
	Country     string `json:"country"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type jobResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	CompanyName string `json:"companyName"`
	Location    string `json:"location"`
	Country     string `json:"country,omitempty"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
}

func toJobResponse(p *domain.JobPosting) jobResponse {
	return jobResponse{
		ID:          p.PublicID,
		Title:       p.Title,
		CompanyName: p.CompanyName,
		Location:    p.Location,
		Country:     p.Country,
		Category:    p.Category,
		Description: p.Description,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

var quotaMessages = map[string]string{
	"en": "monthly posting limit reached, upgrade your plan to post more jobs",
	"id": "batas posting bulanan tercapai, tingkatkan paket untuk memasang lebih banyak lowongan",
}

func quotaMessage(locale string) string {
	if msg, ok := quotaMessages[locale]; ok {
		return msg
	}
	return quotaMessages["en"]
}

// CreateJob publishes a new job posting for the authenticated account.
func (a *App) CreateJob(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountIDFromContext(r.Context())

	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	job, err := a.Postings.Create(r.Context(), posting.CreateRequest{
		AccountID:   accountID,
		Title:       req.Title,
		CompanyName: req.CompanyName,
		Location:    req.Location,
		Country:     req.Country,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrQuotaExceeded):
			a.Stats.Incr(r.Context(), stats.MetricQuotaDenied)
			a.error(w, http.StatusForbidden, "quota_exceeded", quotaMessage(middleware.LocaleFromContext(r.Context())))
		case errors.Is(err, domain.ErrAllocationFailed):
			a.error(w, http.StatusServiceUnavailable, "allocation_failed", "could not assign a job id, please retry")
		case errors.Is(err, posting.ErrInvalidRequest):
			a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		default:
			a.Logger.Error().Err(err).Str("account_id", accountID).Msg("create job failed")
			a.error(w, http.StatusInternalServerError, "internal", "something went wrong")
		}
		return
	}

	a.Stats.Incr(r.Context(), stats.MetricJobsPosted)
	a.json(w, http.StatusCreated, toJobResponse(job))
}

// ListJobs browses open postings. Without an explicit country filter the
// visitor's resolved country narrows the listing.
func (a *App) ListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.PostingFilter{
		Location: q.Get("location"),
		Country:  q.Get("country"),
		Category: q.Get("category"),
	}
	if filter.Country == "" {
		filter.Country = middleware.CountryFromContext(r.Context())
	}
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			filter.Limit = n
		}
	}

	jobs, err := a.Postings.List(r.Context(), filter)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list jobs failed")
		a.error(w, http.StatusInternalServerError, "internal", "something went wrong")
		return
	}

	out := make([]jobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, toJobResponse(&jobs[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"jobs": out})
}

// GetJob returns one posting by its public id.
func (a *App) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := a.Postings.Get(r.Context(), chi.URLParam(r, "publicID"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "job not found")
			return
		}
		a.Logger.Error().Err(err).Msg("get job failed")
		a.error(w, http.StatusInternalServerError, "internal", "something went wrong")
		return
	}
	a.json(w, http.StatusOK, toJobResponse(job))
}

// ApplyJob records the authenticated account's application. Repeated calls
// for the same job return the same result.
func (a *App) ApplyJob(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountIDFromContext(r.Context())
	publicID := chi.URLParam(r, "publicID")

	job, err := a.Postings.Apply(r.Context(), accountID, publicID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			a.error(w, http.StatusNotFound, "not_found", "job not found")
		case errors.Is(err, domain.ErrNotAuthenticated):
			a.error(w, http.StatusUnauthorized, "not_authenticated", "sign in to apply")
		default:
			a.Logger.Error().Err(err).Str("account_id", accountID).Str("job_id", publicID).Msg("apply failed")
			a.error(w, http.StatusInternalServerError, "internal", "something went wrong")
		}
		return
	}

	a.Stats.Incr(r.Context(), stats.MetricApplications)
	a.json(w, http.StatusOK, map[string]any{"applied": true, "jobId": job.PublicID})
}
