// AngelaMos | 2026
// service.go

package layout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/bazaar-api/internal/cache"
	"github.com/carterperez-dev/bazaar-api/internal/core"
	"github.com/carterperez-dev/bazaar-api/internal/storage"
)

const layoutTTL = time.Hour

type Service struct {
	repo    Repository
	layouts *cache.Store[Layout]
	store   storage.ObjectStorage
}

func NewService(
	repo Repository,
	c *cache.Cache,
	store storage.ObjectStorage,
) *Service {
	return &Service{
		repo:    repo,
		layouts: cache.NewStore(c, cache.WithTTL[Layout](layoutTTL)),
		store:   store,
	}
}

func layoutKey(layoutType string) string {
	return "layout:" + layoutType
}

// GetLayout reads through the cache; layouts change rarely and are
// fetched on every page load.
func (s *Service) GetLayout(
	ctx context.Context,
	layoutType string,
) (*Layout, error) {
	if !ValidType(layoutType) {
		return nil, fmt.Errorf(
			"get layout: unknown type %q: %w",
			layoutType,
			core.ErrInvalidInput,
		)
	}

	return s.layouts.GetOrLoad(
		ctx,
		layoutKey(layoutType),
		func(ctx context.Context) (*Layout, error) {
			return s.repo.GetByType(ctx, layoutType)
		},
	)
}

func (s *Service) CreateLayout(
	ctx context.Context,
	req UpsertLayoutRequest,
) (*Layout, error) {
	if err := validateContent(req.Type, req.Content); err != nil {
		return nil, err
	}

	layout := &Layout{
		ID:      uuid.New().String(),
		Type:    req.Type,
		Content: core.NewJSONColumn(req.Content),
	}

	if err := s.repo.Create(ctx, layout); err != nil {
		return nil, err
	}

	s.layouts.WriteThrough(ctx, layoutKey(layout.Type), layout)

	return layout, nil
}

func (s *Service) UpdateLayout(
	ctx context.Context,
	req UpsertLayoutRequest,
) (*Layout, error) {
	if err := validateContent(req.Type, req.Content); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateContent(ctx, req.Type, req.Content); err != nil {
		return nil, err
	}

	layout, err := s.repo.GetByType(ctx, req.Type)
	if err != nil {
		return nil, err
	}

	s.layouts.WriteThrough(ctx, layoutKey(layout.Type), layout)

	return layout, nil
}

// UpdateBannerImage swaps the banner blob, keeping the rest of the
// banner content intact.
func (s *Service) UpdateBannerImage(
	ctx context.Context,
	data []byte,
	filename, contentType string,
) (*Layout, error) {
	layout, err := s.repo.GetByType(ctx, TypeBanner)
	if err != nil {
		return nil, err
	}

	image, err := s.store.Upload(ctx, data, "layouts", filename, contentType)
	if err != nil {
		return nil, err
	}

	content := layout.Content.Val
	if content.Banner == nil {
		content.Banner = &Banner{}
	}

	if old := content.Banner.Image; old.ID != "" {
		//nolint:errcheck // orphaned blob is harmless, replacement already stored
		_ = s.store.Destroy(ctx, old.ID)
	}

	content.Banner.Image = image
	layout.Content = core.NewJSONColumn(content)

	if err := s.repo.UpdateContent(ctx, TypeBanner, content); err != nil {
		return nil, err
	}

	s.layouts.WriteThrough(ctx, layoutKey(TypeBanner), layout)

	return layout, nil
}

// validateContent rejects a payload whose populated section does not
// match the declared type.
func validateContent(layoutType string, content Content) error {
	var ok bool
	switch layoutType {
	case TypeBanner:
		ok = content.Banner != nil
	case TypeCategories:
		ok = len(content.Categories) > 0
	case TypeFAQ:
		ok = len(content.FAQ) > 0
	}

	if !ok {
		return fmt.Errorf(
			"layout content does not match type %q: %w",
			layoutType,
			core.ErrInvalidInput,
		)
	}

	return nil
}
