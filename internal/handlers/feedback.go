package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"feedback-api/internal/logger"
	"feedback-api/internal/metrics"
	"feedback-api/internal/models"
	"feedback-api/internal/notify"
	"feedback-api/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// FeedbackStore is the persistence the handlers need. *repository.FeedbackRepo
// satisfies it.
type FeedbackStore interface {
	List(ctx context.Context, params repository.ListParams) (*models.Page, error)
	ListByProject(ctx context.Context, projectType string, params repository.ListParams) (*models.Page, error)
	FindByID(ctx context.Context, id int64) (*models.Feedback, error)
	Create(ctx context.Context, req models.CreateFeedbackRequest) (*models.Feedback, error)
	Update(ctx context.Context, id int64, req models.UpdateFeedbackRequest) (*models.Feedback, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.Stats, error)
}

type FeedbackHandler struct {
	repo     FeedbackStore
	notifier notify.Notifier
	metrics  *metrics.Metrics
	validate *validator.Validate
}

func NewFeedbackHandler(repo FeedbackStore, notifier notify.Notifier, m *metrics.Metrics) *FeedbackHandler {
	return &FeedbackHandler{
		repo:     repo,
		notifier: notifier,
		metrics:  m,
		validate: validator.New(),
	}
}

// --- GET /feedback ---

func (h *FeedbackHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := repository.ListParams{
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
		SortBy: q.Get("sortBy"),
		Order:  q.Get("order"),
	}

	page, err := h.repo.List(r.Context(), params)
	if err != nil {
		h.fail(w, err)
		return
	}
	writePage(w, page)
}

// --- GET /feedback/project/{projectType} ---

func (h *FeedbackHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	params := repository.ListParams{
		Page:  queryInt(r, "page"),
		Limit: queryInt(r, "limit"),
	}

	page, err := h.repo.ListByProject(r.Context(), chi.URLParam(r, "projectType"), params)
	if err != nil {
		h.fail(w, err)
		return
	}
	writePage(w, page)
}

// --- GET /feedback/{id} ---

func (h *FeedbackHandler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	id, ok := feedbackID(w, r)
	if !ok {
		return
	}

	feedback, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: feedback})
}

// --- POST /feedback ---

func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Project type and rating are required")
		return
	}

	feedback, err := h.repo.Create(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.FeedbackCreated(feedback.ProjectType)
	}

	// Notify in the background; delivery problems never fail the request.
	if h.notifier != nil {
		message := notify.FormatFeedback(feedback)
		go func() {
			if err := h.notifier.Publish(context.Background(), message); err != nil {
				logger.Get().Error().Err(err).Int64("id", feedback.ID).Msg("failed to publish feedback notification")
			}
		}()
	}

	writeJSON(w, http.StatusCreated, envelope{
		Success: true,
		Message: "Feedback submitted successfully",
		Data:    feedback,
	})
}

// --- PUT /feedback/{id} ---

func (h *FeedbackHandler) UpdateFeedback(w http.ResponseWriter, r *http.Request) {
	id, ok := feedbackID(w, r)
	if !ok {
		return
	}

	var req models.UpdateFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	feedback, err := h.repo.Update(r.Context(), id, req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Feedback updated successfully",
		Data:    feedback,
	})
}

// --- DELETE /feedback/{id} ---

func (h *FeedbackHandler) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	id, ok := feedbackID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Feedback deleted successfully",
	})
}

// --- GET /feedback/stats/summary ---

func (h *FeedbackHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.Stats(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: stats})
}

func (h *FeedbackHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "Feedback not found")
	case errors.Is(err, repository.ErrInvalidSort):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writePage(w http.ResponseWriter, page *models.Page) {
	writeJSON(w, http.StatusOK, envelope{
		Success:    true,
		Data:       page.Items,
		Pagination: &page.Pagination,
	})
}

// feedbackID parses the {id} URL parameter, answering 400 itself on failure.
func feedbackID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid feedback id")
		return 0, false
	}
	return id, true
}

// queryInt returns 0 for missing or malformed values so the repository
// defaults apply.
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}
