// AngelaMos | 2026
// product_test.go

package product

import (
	"testing"

	"github.com/carterperez-dev/bazaar-api/internal/core"
)

func TestRecalculateRatings(t *testing.T) {
	p := &Product{}

	p.RecalculateRatings()
	if p.Ratings != 0 {
		t.Errorf("no reviews: Ratings = %v, want 0", p.Ratings)
	}

	p.Reviews = core.NewJSONColumn([]Review{
		{UserID: "u1", Rating: 5},
		{UserID: "u2", Rating: 4},
		{UserID: "u3", Rating: 3},
	})
	p.RecalculateRatings()
	if p.Ratings != 4 {
		t.Errorf("Ratings = %v, want 4", p.Ratings)
	}

	p.Reviews = core.NewJSONColumn([]Review{
		{UserID: "u1", Rating: 5},
		{UserID: "u2", Rating: 4},
	})
	p.RecalculateRatings()
	if p.Ratings != 4.5 {
		t.Errorf("Ratings = %v, want 4.5", p.Ratings)
	}
}

func TestListProductsParamsNormalize(t *testing.T) {
	tests := []struct {
		name         string
		in           ListProductsParams
		wantPage     int
		wantPageSize int
		wantOffset   int
	}{
		{"zero values", ListProductsParams{}, 1, 20, 0},
		{"negative page", ListProductsParams{Page: -3, PageSize: 10}, 1, 10, 0},
		{"oversized page size", ListProductsParams{Page: 2, PageSize: 500}, 2, 100, 100},
		{"in range", ListProductsParams{Page: 3, PageSize: 25}, 3, 25, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Normalize()
			if tt.in.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", tt.in.Page, tt.wantPage)
			}
			if tt.in.PageSize != tt.wantPageSize {
				t.Errorf("PageSize = %d, want %d", tt.in.PageSize, tt.wantPageSize)
			}
			if got := tt.in.Offset(); got != tt.wantOffset {
				t.Errorf("Offset() = %d, want %d", got, tt.wantOffset)
			}
		})
	}
}

func TestListProductsParamsIsDefault(t *testing.T) {
	base := ListProductsParams{Page: 1, PageSize: 20}
	if !base.IsDefault() {
		t.Error("plain first page should be default")
	}

	variants := []ListProductsParams{
		{Page: 2, PageSize: 20},
		{Page: 1, Search: "shoes"},
		{Page: 1, Category: "electronics"},
		{Page: 1, MinPrice: 10},
		{Page: 1, MaxPrice: 100},
		{Page: 1, Sort: "popular"},
	}
	for i, p := range variants {
		if p.IsDefault() {
			t.Errorf("variant %d should not be default: %+v", i, p)
		}
	}
}

func TestSortClause(t *testing.T) {
	tests := []struct {
		sort string
		want string
	}{
		{"price_asc", "price ASC"},
		{"price_desc", "price DESC"},
		{"popular", "view_count DESC"},
		{"loved", "love_count DESC"},
		{"", "created_at DESC"},
		{"garbage", "created_at DESC"},
	}

	for _, tt := range tests {
		if got := sortClause(tt.sort); got != tt.want {
			t.Errorf("sortClause(%q) = %q, want %q", tt.sort, got, tt.want)
		}
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_off\deal`); got != `50\%\_off\\deal` {
		t.Errorf("escapeLike = %q", got)
	}
}
