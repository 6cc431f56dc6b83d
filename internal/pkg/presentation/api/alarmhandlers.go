package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/application/alarms"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/logging"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/repositories/database"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

func queryAlarmsHandler(svc alarms.AlarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "query-alarms")
		defer span.End()

		logger := logging.GetLoggerFromContext(ctx)

		conditions := database.ParseConditions(r.URL.Query())

		collection, err := svc.Query(ctx, conditions...)
		if err != nil {
			span.RecordError(err)
			respondWithError(w, logger, http.StatusInternalServerError, "failed to fetch alarms", err)
			return
		}

		respondWithJSON(w, logger, http.StatusOK, alarmsResponse{
			Alarms: collection.Data,
			Total:  collection.TotalCount,
		})
	}
}

func alarmStatsHandler(svc alarms.AlarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "alarm-stats")
		defer span.End()

		logger := logging.GetLoggerFromContext(ctx)

		buckets, err := svc.Stats(ctx, tenantIDFromQuery(r))
		if err != nil {
			span.RecordError(err)
			respondWithError(w, logger, http.StatusInternalServerError, "failed to fetch alarm stats", err)
			return
		}

		respondWithJSON(w, logger, http.StatusOK, buckets)
	}
}

func dateFiltersHandler(svc alarms.AlarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "date-filters")
		defer span.End()

		logger := logging.GetLoggerFromContext(ctx)

		filters, err := svc.DateFilters(ctx)
		if err != nil {
			span.RecordError(err)
			respondWithError(w, logger, http.StatusInternalServerError, "failed to fetch date filters", err)
			return
		}

		respondWithJSON(w, logger, http.StatusOK, filters)
	}
}

func syncAlarmsHandler(svc alarms.AlarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "sync-alarms")
		defer span.End()

		logger := logging.GetLoggerFromContext(ctx)

		window := struct {
			From string `json:"from"`
			To   string `json:"to"`
		}{
			From: r.URL.Query().Get("from"),
			To:   r.URL.Query().Get("to"),
		}

		if body, err := io.ReadAll(r.Body); err == nil && len(body) > 0 {
			if err := json.Unmarshal(body, &window); err != nil {
				respondWithError(w, logger, http.StatusBadRequest, "unable to parse body", err)
				return
			}
		}

		total, err := svc.Sync(ctx, window.From, window.To)
		if err != nil {
			span.RecordError(err)
			respondWithError(w, logger, http.StatusInternalServerError, "alarm sync failed", err)
			return
		}

		respondWithJSON(w, logger, http.StatusOK, map[string]any{
			"message":     "Sync completed",
			"totalAlarms": total,
		})
	}
}

func checkOpenAlarmsHandler(svc alarms.AlarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "check-open-alarms")
		defer span.End()

		logger := logging.GetLoggerFromContext(ctx)

		result, err := svc.CheckOpenAlarms(ctx)
		if err != nil {
			span.RecordError(err)
			respondWithError(w, logger, http.StatusInternalServerError, "open alarm check failed", err)
			return
		}

		respondWithJSON(w, logger, http.StatusOK, result)
	}
}

func updateAlarmStatusHandler(svc alarms.AlarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "update-alarm-status")
		defer span.End()

		logger := logging.GetLoggerFromContext(ctx)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			respondWithError(w, logger, http.StatusBadRequest, "unable to read body", err)
			return
		}

		var patch struct {
			TenantID uint   `json:"tenantId"`
			Status   string `json:"status"`
		}
		if err := json.Unmarshal(body, &patch); err != nil {
			respondWithError(w, logger, http.StatusBadRequest, "unable to parse body", err)
			return
		}

		update, err := svc.UpdateStatus(ctx, patch.TenantID, chi.URLParam(r, "displayID"), patch.Status)
		if err != nil {
			span.RecordError(err)
			respondWithError(w, logger, statusCodeForError(err), "failed to update alarm status", err)
			return
		}

		respondWithJSON(w, logger, http.StatusOK, statusUpdateResponse{
			Message: "Alarm status updated",
			Alarm:   update,
		})
	}
}

func problemDetailsHandler(svc alarms.AlarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "problem-details")
		defer span.End()

		logger := logging.GetLoggerFromContext(ctx)

		details, err := svc.ProblemDetails(ctx, tenantIDFromQuery(r), chi.URLParam(r, "problemID"))
		if err != nil {
			span.RecordError(err)
			respondWithError(w, logger, statusCodeForError(err), "failed to fetch problem details", err)
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(details)
	}
}

func addCommentHandler(svc alarms.AlarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "add-comment")
		defer span.End()

		logger := logging.GetLoggerFromContext(ctx)

		message, ok := commentMessageFromBody(w, r, logger)
		if !ok {
			return
		}

		response, err := svc.AddComment(ctx, tenantIDFromQuery(r), chi.URLParam(r, "problemID"), message)
		if err != nil {
			span.RecordError(err)
			respondWithError(w, logger, statusCodeForError(err), "failed to add comment", err)
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write(response)
	}
}

func updateCommentHandler(svc alarms.AlarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "update-comment")
		defer span.End()

		logger := logging.GetLoggerFromContext(ctx)

		message, ok := commentMessageFromBody(w, r, logger)
		if !ok {
			return
		}

		response, err := svc.UpdateComment(ctx, tenantIDFromQuery(r), chi.URLParam(r, "problemID"), chi.URLParam(r, "commentID"), message)
		if err != nil {
			span.RecordError(err)
			respondWithError(w, logger, statusCodeForError(err), "failed to update comment", err)
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(response)
	}
}

func getCommentHandler(svc alarms.AlarmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "get-comment")
		defer span.End()

		logger := logging.GetLoggerFromContext(ctx)

		response, err := svc.GetComment(ctx, tenantIDFromQuery(r), chi.URLParam(r, "problemID"), chi.URLParam(r, "commentID"))
		if err != nil {
			span.RecordError(err)
			respondWithError(w, logger, statusCodeForError(err), "failed to fetch comment", err)
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(response)
	}
}

func commentMessageFromBody(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (string, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, logger, http.StatusBadRequest, "unable to read body", err)
		return "", false
	}

	var comment struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &comment); err != nil {
		respondWithError(w, logger, http.StatusBadRequest, "unable to parse body", err)
		return "", false
	}

	if comment.Message == "" {
		respondWithError(w, logger, http.StatusBadRequest, "comment message is required", nil)
		return "", false
	}

	return comment.Message, true
}

func tenantIDFromQuery(r *http.Request) uint {
	id, err := strconv.Atoi(r.URL.Query().Get("tenantId"))
	if err != nil || id < 0 {
		return 0
	}
	return uint(id)
}
