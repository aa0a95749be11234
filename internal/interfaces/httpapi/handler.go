package httpapi

import (
	"net/http"
	"time"

	"github.com/courtline/odds-ingestion/internal/platform/logging"
	"github.com/courtline/odds-ingestion/internal/usecase"
)

type Handler struct {
	serviceName string
	runState    *usecase.RunState
	logger      *logging.Logger
}

func NewHandler(serviceName string, runState *usecase.RunState, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		serviceName: serviceName,
		runState:    runState,
		logger:      logger,
	}
}

type healthDTO struct {
	Service           string  `json:"service"`
	Status            string  `json:"status"`
	LastRunTime       *string `json:"last_run_time"`
	LastRunCount      int     `json:"last_run_count"`
	ConsecutiveErrors int     `json:"consecutive_errors"`
}

// Health reports the poll loop state. Sustained cycle failures flip the
// response to 503 so orchestrators restart the service.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Health")
	defer span.End()

	status := h.runState.Status()

	dto := healthDTO{
		Service:           h.serviceName,
		Status:            status.Status,
		LastRunCount:      status.LastRunCount,
		ConsecutiveErrors: status.ConsecutiveErrors,
	}
	if status.LastRunTime != nil {
		formatted := status.LastRunTime.UTC().Format(time.RFC3339)
		dto.LastRunTime = &formatted
	}

	code := http.StatusOK
	if !status.Available {
		code = http.StatusServiceUnavailable
	}

	writeJSON(ctx, w, code, dto)
}
