// AngelaMos | 2026
// entity.go

package product

import (
	"time"

	"github.com/lib/pq"

	"github.com/carterperez-dev/bazaar-api/internal/core"
	"github.com/carterperez-dev/bazaar-api/internal/storage"
)

type Review struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type Product struct {
	ID            string                           `db:"id"`
	Title         string                           `db:"title"`
	Description   string                           `db:"description"`
	Brand         string                           `db:"brand"`
	Price         float64                          `db:"price"`
	DiscountPrice float64                          `db:"discount_price"`
	Categories    pq.StringArray                   `db:"categories"`
	Keywords      pq.StringArray                   `db:"keywords"`
	Colors        pq.StringArray                   `db:"colors"`
	Stock         int                              `db:"stock"`
	ViewCount     int                              `db:"view_count"`
	LoveCount     int                              `db:"love_count"`
	Ratings       float64                          `db:"ratings"`
	Reviews       core.JSONColumn[[]Review]        `db:"reviews"`
	Images        core.JSONColumn[[]storage.Image] `db:"images"`
	Videos        pq.StringArray                   `db:"videos"`
	CreatedBy     string                           `db:"created_by"`
	CreatedAt     time.Time                        `db:"created_at"`
	UpdatedAt     time.Time                        `db:"updated_at"`
}

// RecalculateRatings averages the review scores.
func (p *Product) RecalculateRatings() {
	reviews := p.Reviews.Val
	if len(reviews) == 0 {
		p.Ratings = 0
		return
	}

	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	p.Ratings = sum / float64(len(reviews))
}
