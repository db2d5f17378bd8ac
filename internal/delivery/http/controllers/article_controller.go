package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"conduit/internal/delivery/http/helpers"
	"conduit/internal/delivery/http/middleware"
	"conduit/internal/domain"
)

// CreateArticle is the "article" object for POST /articles.
type CreateArticle struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Body        string   `json:"body"`
	TagList     []string `json:"tagList"`
}

// CreateArticleRequest is the request body for POST /articles.
type CreateArticleRequest struct {
	Article CreateArticle `json:"article"`
}

// Validate implements helpers.Validator.
func (c CreateArticleRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Article.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(c.Article.Description) == "" {
		errs = append(errs, "description is required")
	}
	if strings.TrimSpace(c.Article.Body) == "" {
		errs = append(errs, "body is required")
	}
	return errs
}

// UpdateArticle is the "article" object for PUT /articles/{slug}. All fields
// are optional; absent fields are left unchanged. The slug never changes.
type UpdateArticle struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Body        *string `json:"body"`
}

// UpdateArticleRequest is the request body for PUT /articles/{slug}.
type UpdateArticleRequest struct {
	Article UpdateArticle `json:"article"`
}

// Validate implements helpers.Validator.
func (u UpdateArticleRequest) Validate() []string {
	var errs []string
	if u.Article.Title != nil && strings.TrimSpace(*u.Article.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.Article.Description != nil && strings.TrimSpace(*u.Article.Description) == "" {
		errs = append(errs, "description cannot be empty")
	}
	if u.Article.Body != nil && strings.TrimSpace(*u.Article.Body) == "" {
		errs = append(errs, "body cannot be empty")
	}
	return errs
}

// ArticleResponse is the success envelope for single-article endpoints.
type ArticleResponse struct {
	Article *domain.Article `json:"article"`
}

// ArticlesResponse is the success envelope for article listings.
// articlesCount is the total number of matching articles, not the page size.
type ArticlesResponse struct {
	Articles      []*domain.Article `json:"articles"`
	ArticlesCount int               `json:"articlesCount"`
}

// ArticleController handles article CRUD, listings, the feed, and favorites.
type ArticleController struct {
	Logger  *slog.Logger
	Service domain.ArticleService
}

// NewArticleController creates an ArticleController with the given logger and service.
func NewArticleController(logger *slog.Logger, svc domain.ArticleService) *ArticleController {
	return &ArticleController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Create an article
// @Description Publish a new article. The slug is derived from the title; tags are created as needed. Publishes an article.published event, best-effort.
// @Tags articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateArticleRequest true "Article data"
// @Success 201 {object} controllers.ArticleResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /articles [post]
func (c *ArticleController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "not authenticated")
		return
	}
	var req CreateArticleRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	params := domain.CreateArticleParams{
		Title:       req.Article.Title,
		Description: req.Article.Description,
		Body:        req.Article.Body,
		TagList:     req.Article.TagList,
	}
	article, err := c.Service.Create(r.Context(), userID, params)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, ArticleResponse{Article: article})
}

// Get godoc
// @Summary Get an article
// @Description Returns the article with the given slug. With a valid Bearer token, favorited and the author's following flag reflect the caller's state.
// @Tags articles
// @Produce json
// @Param slug path string true "Article slug"
// @Success 200 {object} controllers.ArticleResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /articles/{slug} [get]
func (c *ArticleController) Get(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}
	viewerID, _ := middleware.UserIDFromContext(r.Context())

	article, err := c.Service.GetBySlug(r.Context(), slug, viewerID)
	if err != nil {
		c.writeArticleError(w, r, err, "")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, ArticleResponse{Article: article})
}

// Update godoc
// @Summary Update an article
// @Description Partially update an article. Only the author may update; the slug stays stable.
// @Tags articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Article slug"
// @Param body body UpdateArticleRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.ArticleResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the author)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /articles/{slug} [put]
func (c *ArticleController) Update(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "not authenticated")
		return
	}
	var req UpdateArticleRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	params := domain.UpdateArticleParams{
		Title:       req.Article.Title,
		Description: req.Article.Description,
		Body:        req.Article.Body,
	}
	article, err := c.Service.Update(r.Context(), userID, slug, params)
	if err != nil {
		c.writeArticleError(w, r, err, "only the author can update an article")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, ArticleResponse{Article: article})
}

// Delete godoc
// @Summary Delete an article
// @Description Delete an article. Only the author may delete.
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Article slug"
// @Success 200 {object} object "empty object"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the author)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /articles/{slug} [delete]
func (c *ArticleController) Delete(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "not authenticated")
		return
	}
	if err := c.Service.Delete(r.Context(), userID, slug); err != nil {
		c.writeArticleError(w, r, err, "only the author can delete an article")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, struct{}{})
}

// List godoc
// @Summary List articles
// @Description Returns articles, newest first, optionally filtered by tag, author username, or the username that favorited them. articlesCount is the total matching count.
// @Tags articles
// @Produce json
// @Param tag query string false "Filter by tag"
// @Param author query string false "Filter by author username"
// @Param favorited query string false "Filter by username that favorited"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Items to skip"
// @Success 200 {object} controllers.ArticlesResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /articles [get]
func (c *ArticleController) List(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := middleware.UserIDFromContext(r.Context())
	query := r.URL.Query()
	filter := domain.ArticleFilter{
		Tag:         strings.TrimSpace(query.Get("tag")),
		Author:      strings.TrimSpace(query.Get("author")),
		FavoritedBy: strings.TrimSpace(query.Get("favorited")),
		ListParams:  helpers.ParseListParams(r),
	}

	articles, total, err := c.Service.List(r.Context(), viewerID, filter)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSON(w, http.StatusOK, ArticlesResponse{Articles: articles, ArticlesCount: total})
}

// Feed godoc
// @Summary Get the personal feed
// @Description Returns articles authored by users the caller follows, newest first. Requires Bearer token.
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Items to skip"
// @Success 200 {object} controllers.ArticlesResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /articles/feed [get]
func (c *ArticleController) Feed(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "not authenticated")
		return
	}

	articles, total, err := c.Service.Feed(r.Context(), userID, helpers.ParseListParams(r))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSON(w, http.StatusOK, ArticlesResponse{Articles: articles, ArticlesCount: total})
}

// Favorite godoc
// @Summary Favorite an article
// @Description Mark the article as favorited by the caller. Favoriting an article twice is an invalid transition.
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Article slug"
// @Success 200 {object} controllers.ArticleResponse "article with favorited=true and updated favoritesCount"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (already favorited)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /articles/{slug}/favorite [post]
func (c *ArticleController) Favorite(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "not authenticated")
		return
	}

	article, err := c.Service.Favorite(r.Context(), userID, slug)
	if err != nil {
		c.writeArticleError(w, r, err, "")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, ArticleResponse{Article: article})
}

// Unfavorite godoc
// @Summary Unfavorite an article
// @Description Remove the caller's favorite mark. Unfavoriting an article that is not favorited is an invalid transition.
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Article slug"
// @Success 200 {object} controllers.ArticleResponse "article with favorited=false and updated favoritesCount"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (not favorited)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /articles/{slug}/favorite [delete]
func (c *ArticleController) Unfavorite(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "not authenticated")
		return
	}

	article, err := c.Service.Unfavorite(r.Context(), userID, slug)
	if err != nil {
		c.writeArticleError(w, r, err, "")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, ArticleResponse{Article: article})
}

// writeArticleError maps article service errors onto the taxonomy: unknown
// article 404, ownership violation 403, invalid transition or input 400,
// otherwise 500. forbiddenMsg overrides the 403 message when set.
func (c *ArticleController) writeArticleError(w http.ResponseWriter, r *http.Request, err error, forbiddenMsg string) {
	switch {
	case errors.Is(err, domain.ErrArticleNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "article not found")
	case errors.Is(err, domain.ErrForbidden):
		if forbiddenMsg == "" {
			forbiddenMsg = "forbidden"
		}
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, forbiddenMsg)
	case errors.Is(err, domain.ErrAlreadyFavorited):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "article already favorited")
	case errors.Is(err, domain.ErrNotFavorited):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "article not favorited")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
