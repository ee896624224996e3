// AngelaMos | 2026
// entity.go

package layout

import (
	"time"

	"github.com/carterperez-dev/bazaar-api/internal/core"
	"github.com/carterperez-dev/bazaar-api/internal/storage"
)

const (
	TypeBanner     = "banner"
	TypeCategories = "categories"
	TypeFAQ        = "faq"
)

func ValidType(layoutType string) bool {
	switch layoutType {
	case TypeBanner, TypeCategories, TypeFAQ:
		return true
	}
	return false
}

type Banner struct {
	Image    storage.Image `json:"image"`
	Title    string        `json:"title"`
	SubTitle string        `json:"sub_title"`
}

type Category struct {
	Title string `json:"title"`
}

type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Content holds the section matching the layout's type; the other
// sections stay empty.
type Content struct {
	Banner     *Banner    `json:"banner,omitempty"`
	Categories []Category `json:"categories,omitempty"`
	FAQ        []FAQItem  `json:"faq,omitempty"`
}

// Layout is a singleton page section: one row per type.
type Layout struct {
	ID        string                   `db:"id"`
	Type      string                   `db:"type"`
	Content   core.JSONColumn[Content] `db:"content"`
	CreatedAt time.Time                `db:"created_at"`
	UpdatedAt time.Time                `db:"updated_at"`
}
