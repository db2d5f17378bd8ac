package controllers

import (
	"log/slog"
	"net/http"

	"conduit/internal/delivery/http/helpers"
	"conduit/internal/domain"
)

// TagsResponse is the success envelope for GET /tags.
type TagsResponse struct {
	Tags []string `json:"tags"`
}

// TagController handles the tag listing endpoint.
type TagController struct {
	Logger  *slog.Logger
	Service domain.TagService
}

// NewTagController creates a TagController with the given logger and service.
func NewTagController(logger *slog.Logger, svc domain.TagService) *TagController {
	return &TagController{
		Logger:  logger,
		Service: svc,
	}
}

// List godoc
// @Summary List tags
// @Description Returns every tag name in use, unordered.
// @Tags tags
// @Produce json
// @Success 200 {object} controllers.TagsResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tags [get]
func (c *TagController) List(w http.ResponseWriter, r *http.Request) {
	tags, err := c.Service.List(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSON(w, http.StatusOK, TagsResponse{Tags: tags})
}
