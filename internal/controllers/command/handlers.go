package command

import (
	"encoding/json"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/clockrobustus/clockd/internal/types"
	"github.com/clockrobustus/clockd/pkg/responseformat"
)

// Handlers contains the HTTP handlers for the command API
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new Handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

func (h *Handlers) sendResponse(w http.ResponseWriter, r *http.Request, statusCode int, data any) {
	if err := h.formatter.WriteResponse(w, r, statusCode, data); err != nil {
		h.controller.logger.Errorf("failed to write response: %v", err)
	}
}

// sendError maps an application error onto an HTTP status and a JSON body
// carrying the machine-readable code.
func (h *Handlers) sendError(w http.ResponseWriter, r *http.Request, err error) {
	code := types.ErrorCode(err)

	var status int
	switch code {
	case types.ErrInvalidField:
		status = http.StatusBadRequest
	case types.ErrNotFound:
		status = http.StatusNotFound
	case types.ErrUnavailable:
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		h.controller.logger.Errorf("command API error: %v", err)
	}

	h.sendResponse(w, r, status, map[string]any{
		"error":     string(code),
		"message":   types.ErrorDescription(err),
		"timestamp": time.Now().Unix(),
	})
}

// GetAlarms returns all stored alarms
func (h *Handlers) GetAlarms(w http.ResponseWriter, r *http.Request) {
	alarms, err := h.controller.store.List(r.Context())
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	h.sendResponse(w, r, http.StatusOK, alarms)
}

// UpsertAlarm creates or replaces an alarm. A body without an id creates a
// new record; a body with an id replaces the existing record wholesale.
func (h *Handlers) UpsertAlarm(w http.ResponseWriter, r *http.Request) {
	var candidate types.Alarm
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		h.sendError(w, r, types.Errorf(types.ErrInvalidField, "invalid alarm payload: %v", err))
		return
	}

	stored, err := h.controller.store.Upsert(r.Context(), candidate)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	h.sendResponse(w, r, http.StatusOK, stored)
}

// DeleteAlarm removes the alarm named by the path id
func (h *Handlers) DeleteAlarm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.sendError(w, r, types.Errorf(types.ErrInvalidField, "invalid alarm id: %v", err))
		return
	}

	if err := h.controller.store.Delete(r.Context(), id); err != nil {
		h.sendError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetStatus returns basic daemon health information
func (h *Handlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	alarmCount, err := h.controller.store.Count(r.Context())
	if err != nil {
		h.sendError(w, r, err)
		return
	}

	h.sendResponse(w, r, http.StatusOK, map[string]any{
		"status":      "running",
		"go_version":  runtime.Version(),
		"uptime":      time.Since(h.controller.startedAt).String(),
		"alarms":      alarmCount,
		"subscribers": h.controller.broadcaster.SubscriberCount(),
	})
}
