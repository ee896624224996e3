// AngelaMos | 2026
// service.go

package product

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/bazaar-api/internal/cache"
	"github.com/carterperez-dev/bazaar-api/internal/core"
	"github.com/carterperez-dev/bazaar-api/internal/mailer"
	"github.com/carterperez-dev/bazaar-api/internal/storage"
)

const (
	productTTL = time.Hour
	listingTTL = 10 * time.Minute

	// cacheAdmissionViews keeps cold products out of Redis: only items
	// viewed more than this many times earn a cache entry.
	cacheAdmissionViews = 50

	listingKey = "products"
)

type listPayload struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

// NameResolver supplies the display name attached to a review. The
// user service implements it.
type NameResolver interface {
	ResolveName(ctx context.Context, userID string) (string, error)
}

type Service struct {
	repo         Repository
	products     *cache.Store[Product]
	listings     *cache.Store[listPayload]
	store        storage.ObjectStorage
	mail         mailer.Sender
	names        NameResolver
	staffMailbox string
}

func NewService(
	repo Repository,
	c *cache.Cache,
	store storage.ObjectStorage,
	mail mailer.Sender,
	names NameResolver,
	staffMailbox string,
) *Service {
	return &Service{
		repo: repo,
		products: cache.NewStore(
			c,
			cache.WithTTL[Product](productTTL),
			cache.WithAdmission(func(p *Product) bool {
				return p.ViewCount > cacheAdmissionViews
			}),
		),
		listings: cache.NewStore(
			c,
			cache.WithTTL[listPayload](listingTTL),
		),
		store:        store,
		mail:         mail,
		names:        names,
		staffMailbox: staffMailbox,
	}
}

func productKey(id string) string {
	return "product:" + id
}

// GetProduct serves the product, counting the view. The fresh view
// count decides cache admission, so an item crossing the popularity
// threshold starts getting served from Redis.
func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	product, ok, err := s.products.GetOne(ctx, productKey(id))
	if err != nil || !ok {
		product, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	viewCount, err := s.repo.IncrementView(ctx, id)
	if err != nil {
		return nil, err
	}
	product.ViewCount = viewCount

	if viewCount > cacheAdmissionViews {
		s.products.WriteThrough(ctx, productKey(id), product)
	}

	return product, nil
}

// ListProducts caches only the default first-page listing; filtered
// and paginated queries always hit Postgres.
func (s *Service) ListProducts(
	ctx context.Context,
	params ListProductsParams,
) ([]Product, int, error) {
	params.Normalize()

	if !params.IsDefault() {
		return s.repo.List(ctx, params)
	}

	payload, err := s.listings.GetOrLoad(
		ctx,
		listingKey,
		func(ctx context.Context) (*listPayload, error) {
			products, total, listErr := s.repo.List(ctx, params)
			if listErr != nil {
				return nil, listErr
			}
			return &listPayload{Products: products, Total: total}, nil
		},
	)
	if err != nil {
		return nil, 0, err
	}

	return payload.Products, payload.Total, nil
}

func (s *Service) CreateProduct(
	ctx context.Context,
	creatorID string,
	req CreateProductRequest,
) (*Product, error) {
	product := &Product{
		ID:            uuid.New().String(),
		Title:         req.Title,
		Description:   req.Description,
		Brand:         req.Brand,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Categories:    req.Categories,
		Keywords:      req.Keywords,
		Colors:        req.Colors,
		Stock:         req.Stock,
		Reviews:       core.NewJSONColumn([]Review{}),
		Images:        core.NewJSONColumn(req.Images),
		Videos:        req.Videos,
		CreatedBy:     creatorID,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.listings.Invalidate(ctx, listingKey)

	err := s.mail.Send(
		ctx,
		s.staffMailbox,
		"Product created: "+product.Title,
		mailer.TemplateProductCreated,
		map[string]any{
			"Title":     product.Title,
			"ProductID": product.ID,
			"CreatedBy": creatorID,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("send product notice: %w", err)
	}

	return product, nil
}

func (s *Service) UpdateProduct(
	ctx context.Context,
	editorID, id string,
	req UpdateProductRequest,
) (*Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.DiscountPrice != nil {
		product.DiscountPrice = *req.DiscountPrice
	}
	if req.Categories != nil {
		product.Categories = *req.Categories
	}
	if req.Keywords != nil {
		product.Keywords = *req.Keywords
	}
	if req.Colors != nil {
		product.Colors = *req.Colors
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Images != nil {
		product.Images = core.NewJSONColumn(*req.Images)
	}
	if req.Videos != nil {
		product.Videos = *req.Videos
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.products.Invalidate(ctx, productKey(id))
	s.listings.Invalidate(ctx, listingKey)

	err = s.mail.Send(
		ctx,
		s.staffMailbox,
		"Product edited: "+product.Title,
		mailer.TemplateProductEdited,
		map[string]any{
			"Title":     product.Title,
			"ProductID": product.ID,
			"EditedBy":  editorID,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("send product notice: %w", err)
	}

	return product, nil
}

// DeleteProduct removes the row, its cache entries and its image
// blobs. Blob cleanup is best effort.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.products.Invalidate(ctx, productKey(id))
	s.listings.Invalidate(ctx, listingKey)

	for _, image := range product.Images.Val {
		if image.ID == "" {
			continue
		}
		//nolint:errcheck // orphaned blob is harmless, row is already gone
		_ = s.store.Destroy(ctx, image.ID)
	}

	return nil
}

// UploadImage stores a product image blob and returns its reference
// for use in a later create or update.
func (s *Service) UploadImage(
	ctx context.Context,
	data []byte,
	filename, contentType string,
) (storage.Image, error) {
	if !storage.IsValidImage(filename) {
		return storage.Image{}, core.ValidationError(
			"image must be a jpg or png file",
		)
	}

	return s.store.Upload(ctx, data, "products", filename, contentType)
}

// AddReview appends the caller's review, or replaces their earlier
// one, then recomputes the aggregate rating.
func (s *Service) AddReview(
	ctx context.Context,
	productID, userID string,
	req AddReviewRequest,
) (*Product, error) {
	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	userName, err := s.names.ResolveName(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve reviewer: %w", err)
	}

	review := Review{
		UserID:    userID,
		Name:      userName,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}

	reviews := product.Reviews.Val
	replaced := false
	for i, existing := range reviews {
		if existing.UserID == userID {
			reviews[i] = review
			replaced = true
			break
		}
	}
	if !replaced {
		reviews = append(reviews, review)
	}

	product.Reviews = core.NewJSONColumn(reviews)
	product.RecalculateRatings()

	err = s.repo.SetReviews(ctx, productID, reviews, product.Ratings)
	if err != nil {
		return nil, err
	}

	s.products.Invalidate(ctx, productKey(productID))
	s.listings.Invalidate(ctx, listingKey)

	return product, nil
}

// IncrementLove and DecrementLove keep love_count aligned with the
// per-user love sets maintained by the user service.

func (s *Service) IncrementLove(ctx context.Context, productID string) error {
	if err := s.repo.AdjustLoveCount(ctx, productID, 1); err != nil {
		return err
	}

	s.products.Invalidate(ctx, productKey(productID))
	s.listings.Invalidate(ctx, listingKey)

	return nil
}

func (s *Service) DecrementLove(ctx context.Context, productID string) error {
	if err := s.repo.AdjustLoveCount(ctx, productID, -1); err != nil {
		return err
	}

	s.products.Invalidate(ctx, productKey(productID))
	s.listings.Invalidate(ctx, listingKey)

	return nil
}
