package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"conduit/internal/domain"
)

type tagService struct {
	tagRepo  domain.TagRepository
	tagCache domain.TagCache
}

// NewTagService creates a TagService. tagCache may be nil; reads then go
// straight to the repository.
func NewTagService(tagRepo domain.TagRepository, tagCache domain.TagCache) domain.TagService {
	return &tagService{tagRepo: tagRepo, tagCache: tagCache}
}

// List returns all tag names, read through the cache when one is
// configured. Cache failures fall back to the repository.
func (s *tagService) List(ctx context.Context) ([]string, error) {
	if s.tagCache != nil {
		tags, err := s.tagCache.Get(ctx)
		if err == nil {
			return tags, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			log.Printf("[CACHE] failed to read tag list: %v", err)
		}
	}

	stored, err := s.tagRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	tags := make([]string, 0, len(stored))
	for _, t := range stored {
		tags = append(tags, t.Tag)
	}

	if s.tagCache != nil {
		if err := s.tagCache.Set(ctx, tags); err != nil {
			log.Printf("[CACHE] failed to store tag list: %v", err)
		}
	}
	return tags, nil
}
