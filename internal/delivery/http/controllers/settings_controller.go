package controllers

import (
	"log/slog"
	"net/http"

	"virtualbarcamp/internal/delivery/http/helpers"
	"virtualbarcamp/internal/domain"
)

// TransitionEventStateRequest is the request body for POST /settings/event-state.
type TransitionEventStateRequest struct {
	EventState domain.EventState `json:"event_state" validate:"required,oneof=DRAFT GRID_OPEN GRID_CLOSED EVENT_STARTED EVENT_OVER"`
}

// UpdateRoomRequest is the request body for PATCH /rooms/{roomID}.
type UpdateRoomRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// SettingsSuccessResponse is the success response envelope for the settings endpoints (200).
type SettingsSuccessResponse struct {
	Data  *domain.GlobalSettings `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// RoomSuccessResponse is the success response envelope for PATCH /rooms/{roomID} (200).
type RoomSuccessResponse struct {
	Data  *domain.Room      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SettingsController serves the global settings and the staff-only administration endpoints.
type SettingsController struct {
	Logger   *slog.Logger
	Settings domain.SettingsService
	Grid     domain.GridService
}

func NewSettingsController(logger *slog.Logger, settings domain.SettingsService, grid domain.GridService) *SettingsController {
	return &SettingsController{
		Logger:   logger,
		Settings: settings,
		Grid:     grid,
	}
}

// GetSettings godoc
// @Summary Get the global settings
// @Description Returns the current event state. Clients use it to decide whether the grid is editable.
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.SettingsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /settings [get]
func (c *SettingsController) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := c.Settings.Get(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, settings)
}

// TransitionEventState godoc
// @Summary Change the event state
// @Description Moves the event lifecycle to another state. Staff only. Allowed: DRAFT to GRID_OPEN, GRID_OPEN to GRID_CLOSED, GRID_CLOSED to GRID_OPEN or EVENT_STARTED, EVENT_STARTED to EVENT_OVER.
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param state body TransitionEventStateRequest true "Target state"
// @Success 200 {object} controllers.SettingsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /settings/event-state [post]
func (c *SettingsController) TransitionEventState(w http.ResponseWriter, r *http.Request) {
	var req TransitionEventStateRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	settings, err := c.Settings.TransitionEventState(r.Context(), req.EventState)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, settings)
}

// UpdateRoom godoc
// @Summary Rename a room
// @Description Changes the display name of a room. Staff only.
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param roomID path string true "Room ID (UUID)"
// @Param room body UpdateRoomRequest true "New name"
// @Success 200 {object} controllers.RoomSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rooms/{roomID} [patch]
func (c *SettingsController) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	roomID, ok := helpers.PathUUID(w, r, "roomID")
	if !ok {
		return
	}
	var req UpdateRoomRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	room, err := c.Grid.UpdateRoom(r.Context(), roomID, req.Name)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, room)
}
