// AngelaMos | 2026
// dto.go

package product

import (
	"time"

	"github.com/carterperez-dev/bazaar-api/internal/storage"
)

type CreateProductRequest struct {
	Title         string          `json:"title"          validate:"required,min=1,max=200"`
	Description   string          `json:"description"    validate:"required,min=1,max=5000"`
	Brand         string          `json:"brand"          validate:"omitempty,max=100"`
	Price         float64         `json:"price"          validate:"required,gt=0"`
	DiscountPrice float64         `json:"discount_price" validate:"omitempty,gte=0"`
	Categories    []string        `json:"categories"     validate:"omitempty,dive,min=1,max=50"`
	Keywords      []string        `json:"keywords"       validate:"omitempty,dive,min=1,max=50"`
	Colors        []string        `json:"colors"         validate:"omitempty,dive,min=1,max=30"`
	Stock         int             `json:"stock"          validate:"gte=0"`
	Images        []storage.Image `json:"images"`
	Videos        []string        `json:"videos"         validate:"omitempty,dive,url"`
}

type UpdateProductRequest struct {
	Title         *string          `json:"title,omitempty"          validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description,omitempty"    validate:"omitempty,min=1,max=5000"`
	Brand         *string          `json:"brand,omitempty"          validate:"omitempty,max=100"`
	Price         *float64         `json:"price,omitempty"          validate:"omitempty,gt=0"`
	DiscountPrice *float64         `json:"discount_price,omitempty" validate:"omitempty,gte=0"`
	Categories    *[]string        `json:"categories,omitempty"     validate:"omitempty,dive,min=1,max=50"`
	Keywords      *[]string        `json:"keywords,omitempty"       validate:"omitempty,dive,min=1,max=50"`
	Colors        *[]string        `json:"colors,omitempty"         validate:"omitempty,dive,min=1,max=30"`
	Stock         *int             `json:"stock,omitempty"          validate:"omitempty,gte=0"`
	Images        *[]storage.Image `json:"images,omitempty"`
	Videos        *[]string        `json:"videos,omitempty"         validate:"omitempty,dive,url"`
}

type AddReviewRequest struct {
	Rating  float64 `json:"rating"  validate:"required,gte=1,lte=5"`
	Comment string  `json:"comment" validate:"required,min=1,max=2000"`
}

type ProductResponse struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Brand         string          `json:"brand,omitempty"`
	Price         float64         `json:"price"`
	DiscountPrice float64         `json:"discount_price,omitempty"`
	Categories    []string        `json:"categories"`
	Keywords      []string        `json:"keywords,omitempty"`
	Colors        []string        `json:"colors,omitempty"`
	Stock         int             `json:"stock"`
	ViewCount     int             `json:"view_count"`
	LoveCount     int             `json:"love_count"`
	Ratings       float64         `json:"ratings"`
	Reviews       []Review        `json:"reviews"`
	Images        []storage.Image `json:"images"`
	Videos        []string        `json:"videos,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type ListProductsParams struct {
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
	Search   string  `json:"search"`
	Category string  `json:"category"`
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
	Sort     string  `json:"sort"`
}

func (p *ListProductsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListProductsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// IsDefault reports whether this is the plain first-page listing, the
// only shape served from the list cache.
func (p *ListProductsParams) IsDefault() bool {
	return p.Page == 1 && p.Search == "" && p.Category == "" &&
		p.MinPrice == 0 && p.MaxPrice == 0 && p.Sort == ""
}

func ToProductResponse(p *Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Brand:         p.Brand,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		Categories:    p.Categories,
		Keywords:      p.Keywords,
		Colors:        p.Colors,
		Stock:         p.Stock,
		ViewCount:     p.ViewCount,
		LoveCount:     p.LoveCount,
		Ratings:       p.Ratings,
		Reviews:       p.Reviews.Val,
		Images:        p.Images.Val,
		Videos:        p.Videos,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func ToProductResponseList(products []Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, ToProductResponse(&p))
	}
	return responses
}
