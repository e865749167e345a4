package assignment

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/workforce-management/internal/project"
	"github.com/frahmantamala/workforce-management/internal/transport"
	"github.com/frahmantamala/workforce-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Assign(projectID int64, dto AssignDTO) (*project.Assignment, error)
	UpdateInvolvement(projectID, employeeID int64, dto UpdateInvolvementDTO) (*project.Assignment, error)
	Remove(projectID, employeeID int64) error
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

func (h *Handler) pathIDs(r *http.Request) (projectID, employeeID int64, err error) {
	projectID, err = strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	if emp := chi.URLParam(r, "employeeID"); emp != "" {
		employeeID, err = strconv.ParseInt(emp, 10, 64)
		if err != nil {
			return 0, 0, err
		}
	}
	return projectID, employeeID, nil
}

func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	projectID, _, err := h.pathIDs(r)
	if err != nil {
		h.Logger.Error("Assign: invalid project ID", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	var dto AssignDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Assign: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	assignment, err := h.Service.Assign(projectID, dto)
	if err != nil {
		h.Logger.Error("Assign: service error", "error", err, "project_id", projectID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, assignment)
}

func (h *Handler) UpdateInvolvement(w http.ResponseWriter, r *http.Request) {
	projectID, employeeID, err := h.pathIDs(r)
	if err != nil {
		h.Logger.Error("UpdateInvolvement: invalid path params", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid path parameters")
		return
	}

	var dto UpdateInvolvementDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateInvolvement: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	assignment, err := h.Service.UpdateInvolvement(projectID, employeeID, dto)
	if err != nil {
		h.Logger.Error("UpdateInvolvement: service error", "error", err,
			"project_id", projectID, "employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, assignment)
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	projectID, employeeID, err := h.pathIDs(r)
	if err != nil {
		h.Logger.Error("Remove: invalid path params", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid path parameters")
		return
	}

	if err := h.Service.Remove(projectID, employeeID); err != nil {
		h.Logger.Error("Remove: service error", "error", err,
			"project_id", projectID, "employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
