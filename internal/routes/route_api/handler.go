package route_api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"rail-ticketing/internal/logger"
	"rail-ticketing/internal/routes"
	"rail-ticketing/internal/utils"
)

type Handler struct {
	Routes *routes.Service
	Logger *logger.Logger
}

func NewHandler(routeService *routes.Service, log *logger.Logger) *Handler {
	return &Handler{Routes: routeService, Logger: log}
}

func (h *Handler) GetRoutes(w http.ResponseWriter, r *http.Request) {
	allRoutes, err := h.Routes.GetAll(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, allRoutes)
}

func (h *Handler) GetRoute(w http.ResponseWriter, r *http.Request) {
	id, err := routeID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid route id")
		return
	}
	route, err := h.Routes.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, route)
}

func (h *Handler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	var req routes.CreateRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	route, err := h.Routes.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, route)
}

func (h *Handler) UpdateRoute(w http.ResponseWriter, r *http.Request) {
	id, err := routeID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid route id")
		return
	}
	var req routes.UpdateRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	route, err := h.Routes.Update(r.Context(), id, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, route)
}

func (h *Handler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	id, err := routeID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid route id")
		return
	}
	if err := h.Routes.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Route deleted"})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := utils.ErrorStatus(err)
	if status == http.StatusInternalServerError {
		if h.Logger != nil {
			h.Logger.Error("ROUTES", err.Error())
		}
		utils.WriteError(w, status, "internal error")
		return
	}
	utils.WriteError(w, status, err.Error())
}

func routeID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}
