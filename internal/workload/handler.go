package workload

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/workforce-management/internal/transport"
	"github.com/frahmantamala/workforce-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Snapshot(employeeID int64) (*Snapshot, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) GetWorkload(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	employeeID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("GetWorkload: invalid employee ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	snapshot, err := h.Service.Snapshot(employeeID)
	if err != nil {
		h.Logger.Error("GetWorkload: service error", "error", err, "employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, snapshot)
}
