package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/fitclash/fitclash/internal/usecase"
)

const defaultJobRunPageSize = 20

func (h *Handler) RunStartPendingJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunStartPendingJob")
	defer span.End()

	if h.lifecycleService == nil {
		writeError(ctx, w, fmt.Errorf("%w: lifecycle service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.lifecycleService.StartPending(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "start pending job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunFinalizeExpiredJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunFinalizeExpiredJob")
	defer span.End()

	if h.lifecycleService == nil {
		writeError(ctx, w, fmt.Errorf("%w: lifecycle service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.lifecycleService.FinalizeExpired(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "finalize expired job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunDailyRemindersJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunDailyRemindersJob")
	defer span.End()

	if h.lifecycleService == nil {
		writeError(ctx, w, fmt.Errorf("%w: lifecycle service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.lifecycleService.SendDailyReminders(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "daily reminders job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunDrainNotificationsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunDrainNotificationsJob")
	defer span.End()

	if h.notificationService == nil {
		writeError(ctx, w, fmt.Errorf("%w: notification service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.notificationService.DrainQueue(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "drain notifications job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) ListJobRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListJobRuns")
	defer span.End()

	if h.jobRunRepo == nil {
		writeError(ctx, w, fmt.Errorf("%w: job run log is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	jobName := strings.TrimSpace(r.PathValue("jobName"))
	if jobName == "" {
		writeError(ctx, w, fmt.Errorf("%w: job name is required", usecase.ErrInvalidInput))
		return
	}

	limit, err := parseLimitQuery(r, defaultJobRunPageSize)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	runs, err := h.jobRunRepo.ListRecent(ctx, jobName, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list job runs failed", "job_name", jobName, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]jobRunDTO, 0, len(runs))
	for _, run := range runs {
		out = append(out, jobRunToDTO(run))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}
