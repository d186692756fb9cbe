package controllers

import (
	"log/slog"
	"net/http"

	"virtualbarcamp/internal/delivery/http/helpers"
	"virtualbarcamp/internal/delivery/http/middleware"
	"virtualbarcamp/internal/domain"
)

// TalkRequest is the request body shared by POST /grid/talks and PATCH /grid/talks/{talkID}.
type TalkRequest struct {
	Title              string   `json:"title" validate:"required,max=200"`
	IsOpenDiscussion   bool     `json:"is_open_discussion"`
	AdditionalSpeakers []string `json:"additional_speakers" validate:"max=10,dive,uuid"`
}

func (t TalkRequest) input() domain.TalkInput {
	return domain.TalkInput{
		Title:              t.Title,
		IsOpenDiscussion:   t.IsOpenDiscussion,
		AdditionalSpeakers: t.AdditionalSpeakers,
	}
}

// AddTalkRequest is the request body for POST /grid/talks.
type AddTalkRequest struct {
	SlotID string `json:"slot_id" validate:"required,uuid"`
	TalkRequest
}

// MoveTalkRequest is the request body for POST /grid/talks/{talkID}/move.
type MoveTalkRequest struct {
	ToSlotID string `json:"to_slot_id" validate:"required,uuid"`
}

// GridSuccessResponse is the success response envelope for GET /grid (200).
type GridSuccessResponse struct {
	Data  []*domain.Session `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SpeakersSuccessResponse is the success response envelope for GET /speakers (200).
type SpeakersSuccessResponse struct {
	Data  []*domain.Speaker `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SlotSuccessResponse is the success response envelope for talk mutations that return a slot.
type SlotSuccessResponse struct {
	Data  *domain.Slot      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// TalkSuccessResponse is the success response envelope for PATCH /grid/talks/{talkID} (200).
type TalkSuccessResponse struct {
	Data  *domain.Talk      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type GridController struct {
	Logger  *slog.Logger
	Service domain.GridService
}

func NewGridController(logger *slog.Logger, svc domain.GridService) *GridController {
	return &GridController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *GridController) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
	}
	return userID, ok
}

// GetGrid godoc
// @Summary Get the grid
// @Description Returns every session ordered by start time with its slots, rooms and talks. is_mine marks the caller's talks. Plenary sessions carry an event label and no slots. Allowed while the grid is open, closed or the event is running.
// @Tags grid
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.GridSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /grid [get]
func (c *GridController) GetGrid(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	sessions, err := c.Service.GetGrid(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sessions)
}

// ListSpeakers godoc
// @Summary List speakers
// @Description Returns every user that can be added as an additional speaker, ordered by name.
// @Tags grid
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.SpeakersSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speakers [get]
func (c *GridController) ListSpeakers(w http.ResponseWriter, r *http.Request) {
	if _, ok := c.userID(w, r); !ok {
		return
	}
	speakers, err := c.Service.ListSpeakers(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, speakers)
}

// AddTalk godoc
// @Summary Add a talk to a slot
// @Description Creates a talk owned by the caller in an empty slot. Additional speakers are notified by email. Requires the grid to be open.
// @Tags grid
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param talk body AddTalkRequest true "Slot and talk data"
// @Success 201 {object} controllers.SlotSuccessResponse "data contains the updated slot"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /grid/talks [post]
func (c *GridController) AddTalk(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	var req AddTalkRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	slot, err := c.Service.AddTalk(r.Context(), userID, req.SlotID, req.input())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, slot)
}

// MoveTalk godoc
// @Summary Move a talk to another slot
// @Description Moves one of the caller's talks into an empty slot. Requires the grid to be open.
// @Tags grid
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param talkID path string true "Talk ID (UUID)"
// @Param move body MoveTalkRequest true "Destination slot"
// @Success 200 {object} controllers.SlotSuccessResponse "data contains the destination slot"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /grid/talks/{talkID}/move [post]
func (c *GridController) MoveTalk(w http.ResponseWriter, r *http.Request) {
	talkID, ok := helpers.PathUUID(w, r, "talkID")
	if !ok {
		return
	}
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	var req MoveTalkRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	slot, err := c.Service.MoveTalk(r.Context(), userID, talkID, req.ToSlotID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, slot)
}

// UpdateTalk godoc
// @Summary Update a talk
// @Description Replaces the title, open-discussion flag and additional speakers of one of the caller's talks. Newly added speakers are notified by email. Requires the grid to be open.
// @Tags grid
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param talkID path string true "Talk ID (UUID)"
// @Param talk body TalkRequest true "Talk data"
// @Success 200 {object} controllers.TalkSuccessResponse "data contains the updated talk"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /grid/talks/{talkID} [patch]
func (c *GridController) UpdateTalk(w http.ResponseWriter, r *http.Request) {
	talkID, ok := helpers.PathUUID(w, r, "talkID")
	if !ok {
		return
	}
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	var req TalkRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	talk, err := c.Service.UpdateTalk(r.Context(), userID, talkID, req.input())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, talk)
}

// RemoveTalk godoc
// @Summary Remove the talk from a slot
// @Description Deletes the caller's talk in the given slot. Requires the grid to be open.
// @Tags grid
// @Produce json
// @Security BearerAuth
// @Param slotID path string true "Slot ID (UUID)"
// @Success 200 {object} controllers.SlotSuccessResponse "data contains the now empty slot"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /grid/slots/{slotID}/talk [delete]
func (c *GridController) RemoveTalk(w http.ResponseWriter, r *http.Request) {
	slotID, ok := helpers.PathUUID(w, r, "slotID")
	if !ok {
		return
	}
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	slot, err := c.Service.RemoveTalk(r.Context(), userID, slotID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, slot)
}
