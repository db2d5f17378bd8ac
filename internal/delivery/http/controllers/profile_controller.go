package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"conduit/internal/delivery/http/helpers"
	"conduit/internal/delivery/http/middleware"
	"conduit/internal/domain"
)

// ProfileResponse is the success envelope for profile endpoints.
type ProfileResponse struct {
	Profile *domain.Profile `json:"profile"`
}

// ProfileController handles profile reads and follow state transitions.
type ProfileController struct {
	Logger  *slog.Logger
	Service domain.ProfileService
}

// NewProfileController creates a ProfileController with the given logger and service.
func NewProfileController(logger *slog.Logger, svc domain.ProfileService) *ProfileController {
	return &ProfileController{
		Logger:  logger,
		Service: svc,
	}
}

// GetProfile godoc
// @Summary Get a profile
// @Description Returns the profile for the given username. With a valid Bearer token, following reflects whether the caller follows this user; anonymous callers always see following=false.
// @Tags profiles
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} controllers.ProfileResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profiles/{username} [get]
func (c *ProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if username == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing username")
		return
	}
	viewerID, _ := middleware.UserIDFromContext(r.Context())

	profile, err := c.Service.GetProfile(r.Context(), username, viewerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "profile not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSON(w, http.StatusOK, ProfileResponse{Profile: profile})
}

// Follow godoc
// @Summary Follow a user
// @Description Start following the given user. Following yourself is forbidden; following someone you already follow is an invalid transition.
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username to follow"
// @Success 200 {object} controllers.ProfileResponse "profile with following=true"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (already following)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (anonymous or self-follow)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profiles/{username}/follow [post]
func (c *ProfileController) Follow(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if username == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing username")
		return
	}
	followerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "not authenticated")
		return
	}

	profile, err := c.Service.Follow(r.Context(), followerID, username)
	if err != nil {
		c.writeFollowError(w, r, err, "already following this user")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, ProfileResponse{Profile: profile})
}

// Unfollow godoc
// @Summary Unfollow a user
// @Description Stop following the given user. Unfollowing someone you do not follow is an invalid transition.
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username to unfollow"
// @Success 200 {object} controllers.ProfileResponse "profile with following=false"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (not following)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (anonymous or self-unfollow)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profiles/{username}/follow [delete]
func (c *ProfileController) Unfollow(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if username == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing username")
		return
	}
	followerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "not authenticated")
		return
	}

	profile, err := c.Service.Unfollow(r.Context(), followerID, username)
	if err != nil {
		c.writeFollowError(w, r, err, "not following this user")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, ProfileResponse{Profile: profile})
}

// writeFollowError maps follow/unfollow service errors onto the taxonomy:
// self-action 403, unknown user 404, invalid transition 400, otherwise 500.
func (c *ProfileController) writeFollowError(w http.ResponseWriter, r *http.Request, err error, transitionMsg string) {
	switch {
	case errors.Is(err, domain.ErrSelfFollow):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "cannot follow or unfollow yourself")
	case errors.Is(err, domain.ErrUserNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "profile not found")
	case errors.Is(err, domain.ErrAlreadyFollowing), errors.Is(err, domain.ErrNotFollowing):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, transitionMsg)
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
