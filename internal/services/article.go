package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"conduit/internal/domain"
)

const defaultArticlePageSize = 20

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

type articleService struct {
	articleRepo    domain.ArticleRepository
	favoriteRepo   domain.FavoriteRepository
	userRepo       domain.UserRepository
	followRepo     domain.FollowRepository
	tagRepo        domain.TagRepository
	tagCache       domain.TagCache
	events         domain.EventPublisher
	contextTimeout time.Duration
}

// NewArticleService creates an ArticleService. tagCache and events may be
// nil; cache invalidation and event publishing are then skipped.
func NewArticleService(
	articleRepo domain.ArticleRepository,
	favoriteRepo domain.FavoriteRepository,
	userRepo domain.UserRepository,
	followRepo domain.FollowRepository,
	tagRepo domain.TagRepository,
	tagCache domain.TagCache,
	events domain.EventPublisher,
	timeout time.Duration,
) domain.ArticleService {
	return &articleService{
		articleRepo:    articleRepo,
		favoriteRepo:   favoriteRepo,
		userRepo:       userRepo,
		followRepo:     followRepo,
		tagRepo:        tagRepo,
		tagCache:       tagCache,
		events:         events,
		contextTimeout: timeout,
	}
}

func (s *articleService) Create(ctx context.Context, authorID string, params domain.CreateArticleParams) (*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(params.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(params.Body) == "" {
		return nil, fmt.Errorf("%w: body is required", domain.ErrInvalidInput)
	}

	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get author: %w", err)
	}

	now := time.Now().UTC()
	article := domain.NewArticle(slugify(title), title, params.Description, params.Body, author.ID, now, now)

	if err := s.articleRepo.Create(ctx, article); err != nil {
		if !errors.Is(err, domain.ErrDuplicateSlug) {
			return nil, fmt.Errorf("create article: %w", err)
		}
		// Same title as an existing article; disambiguate once and retry.
		article.Slug = fmt.Sprintf("%s-%s", article.Slug, uuid.NewString()[:8])
		if err := s.articleRepo.Create(ctx, article); err != nil {
			return nil, fmt.Errorf("create article: %w", err)
		}
	}

	tags := normalizeTags(params.TagList)
	if len(tags) > 0 {
		if err := s.tagRepo.Create(ctx, tags); err != nil {
			return nil, fmt.Errorf("create tags: %w", err)
		}
		if err := s.articleRepo.AddTags(ctx, article.ID, tags); err != nil {
			return nil, fmt.Errorf("tag article: %w", err)
		}
		if s.tagCache != nil {
			if err := s.tagCache.Invalidate(ctx); err != nil {
				log.Printf("[CACHE] failed to invalidate tag list: %v", err)
			}
		}
	}

	article.TagList = tags
	article.Author = profileOf(author, false)

	if s.events != nil {
		event := &domain.ArticlePublishedEvent{
			Slug:     article.Slug,
			Title:    article.Title,
			AuthorID: article.AuthorID,
			TagList:  tags,
		}
		if err := s.events.PublishArticlePublished(ctx, event); err != nil {
			log.Printf("[EVENTS] failed to publish article.published: %v", err)
		}
	}

	return article, nil
}

func (s *articleService) GetBySlug(ctx context.Context, slug, viewerID string) (*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	article, err := s.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, fmt.Errorf("get article %q: %w", slug, err)
	}
	if err := s.decorate(ctx, viewerID, []*domain.Article{article}); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *articleService) Update(ctx context.Context, userID, slug string, params domain.UpdateArticleParams) (*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	article, err := s.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, fmt.Errorf("get article %q: %w", slug, err)
	}
	if article.AuthorID != userID {
		return nil, domain.ErrForbidden
	}

	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidInput)
		}
		article.Title = title
	}
	if params.Description != nil {
		if strings.TrimSpace(*params.Description) == "" {
			return nil, fmt.Errorf("%w: description cannot be empty", domain.ErrInvalidInput)
		}
		article.Description = *params.Description
	}
	if params.Body != nil {
		if strings.TrimSpace(*params.Body) == "" {
			return nil, fmt.Errorf("%w: body cannot be empty", domain.ErrInvalidInput)
		}
		article.Body = *params.Body
	}
	article.UpdatedAt = time.Now().UTC()

	if err := s.articleRepo.Update(ctx, article); err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, fmt.Errorf("update article %q: %w", slug, err)
	}
	if err := s.decorate(ctx, userID, []*domain.Article{article}); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *articleService) Delete(ctx context.Context, userID, slug string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	article, err := s.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			return domain.ErrArticleNotFound
		}
		return fmt.Errorf("get article %q: %w", slug, err)
	}
	if article.AuthorID != userID {
		return domain.ErrForbidden
	}

	if err := s.articleRepo.Delete(ctx, article.ID); err != nil {
		return fmt.Errorf("delete article %q: %w", slug, err)
	}
	return nil
}

func (s *articleService) List(ctx context.Context, viewerID string, filter domain.ArticleFilter) ([]*domain.Article, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	filter.ListParams = clampListParams(filter.ListParams)

	articles, total, err := s.articleRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	if err := s.decorate(ctx, viewerID, articles); err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func (s *articleService) Feed(ctx context.Context, userID string, params domain.ListParams) ([]*domain.Article, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	params = clampListParams(params)

	authorIDs, err := s.followRepo.ListFolloweeIDs(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("list followees: %w", err)
	}
	articles, total, err := s.articleRepo.ListByAuthorIDs(ctx, authorIDs, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list feed articles: %w", err)
	}
	if err := s.decorate(ctx, userID, articles); err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func (s *articleService) Favorite(ctx context.Context, userID, slug string) (*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	article, err := s.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, fmt.Errorf("get article %q: %w", slug, err)
	}

	if err := s.favoriteRepo.Add(ctx, article.ID, userID); err != nil {
		if errors.Is(err, domain.ErrAlreadyFavorited) {
			return nil, domain.ErrAlreadyFavorited
		}
		return nil, fmt.Errorf("favorite article %q: %w", slug, err)
	}
	if err := s.decorate(ctx, userID, []*domain.Article{article}); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *articleService) Unfavorite(ctx context.Context, userID, slug string) (*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	article, err := s.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, fmt.Errorf("get article %q: %w", slug, err)
	}

	if err := s.favoriteRepo.Remove(ctx, article.ID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFavorited) {
			return nil, domain.ErrNotFavorited
		}
		return nil, fmt.Errorf("unfavorite article %q: %w", slug, err)
	}
	if err := s.decorate(ctx, userID, []*domain.Article{article}); err != nil {
		return nil, err
	}
	return article, nil
}

// decorate fills the viewer-dependent fields of the given articles in
// batch: tag lists, favorite counts, the viewer's favorite marks, and the
// follow state on each author profile. TagList is never left nil.
func (s *articleService) decorate(ctx context.Context, viewerID string, articles []*domain.Article) error {
	if len(articles) == 0 {
		return nil
	}
	ids := make([]string, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}

	tags, err := s.articleRepo.ListTagsByArticleIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load article tags: %w", err)
	}
	counts, err := s.favoriteRepo.CountByArticleIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("count favorites: %w", err)
	}

	var favorited map[string]bool
	followees := map[string]bool{}
	if viewerID != "" {
		favorited, err = s.favoriteRepo.ListFavoritedByUser(ctx, viewerID, ids)
		if err != nil {
			return fmt.Errorf("load favorite marks: %w", err)
		}
		followeeIDs, err := s.followRepo.ListFolloweeIDs(ctx, viewerID)
		if err != nil {
			return fmt.Errorf("list followees: %w", err)
		}
		for _, id := range followeeIDs {
			followees[id] = true
		}
	}

	for _, a := range articles {
		a.TagList = tags[a.ID]
		if a.TagList == nil {
			a.TagList = []string{}
		}
		a.FavoritesCount = counts[a.ID]
		a.Favorited = favorited[a.ID]
		if a.Author != nil {
			a.Author.Following = followees[a.AuthorID]
		}
	}
	return nil
}

func clampListParams(params domain.ListParams) domain.ListParams {
	if params.Limit <= 0 {
		params.Limit = defaultArticlePageSize
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	return params
}

// slugify derives a URL slug from a title: lowercase, runs of anything
// outside [a-z0-9] collapse to a single hyphen. A title with no usable
// characters gets a random slug.
func slugify(title string) string {
	slug := strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		return uuid.NewString()
	}
	return slug
}

// normalizeTags trims, drops empties, and dedupes while preserving order.
// The result is never nil.
func normalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		normalized = append(normalized, tag)
	}
	return normalized
}
