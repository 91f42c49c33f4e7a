// Package handler provides HTTP handlers for user endpoints.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/festy23/useradmin/internal/user/model"
	"github.com/festy23/useradmin/internal/user/service"
)

// Handler handles HTTP requests for user endpoints.
type Handler struct {
	service service.Service
}

// New creates a new user handler instance.
func New(svc service.Service) *Handler {
	return &Handler{service: svc}
}

// parseID extracts the numeric id path parameter.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorResponse(c, "INVALID_REQUEST", "invalid user id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// List handles GET /users request.
// @Summary List all users
// @Tags Users
// @Produce json
// @Success 200 {array} model.User
// @Failure 500 {object} ErrorResponse
// @Router /users [get].
func (h *Handler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, users)
}

// Get handles GET /users/{id} request.
// @Summary Get a single user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [get].
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) || errors.Is(err, model.ErrInvalidUserID) {
			notFoundResponse(c, "user not found")
			return
		}
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Patch handles PATCH /users/{id} request.
// Accepts a partial body; only present fields are updated.
// @Summary Partially update a user
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body model.UserPatch true "Fields to update"
// @Success 200 {object} model.User
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [patch].
func (h *Handler) Patch(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var patch model.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.Update(c.Request.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			notFoundResponse(c, "user not found")
		case errors.Is(err, model.ErrEmptyPatch):
			errorResponse(c, "INVALID_REQUEST", "patch contains no fields", http.StatusBadRequest)
		default:
			errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /users/{id} request.
// @Summary Delete a user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [delete].
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			notFoundResponse(c, "user not found")
			return
		}
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
