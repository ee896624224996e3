// AngelaMos | 2026
// layout_test.go

package layout

import (
	"errors"
	"testing"

	"github.com/carterperez-dev/bazaar-api/internal/core"
)

func TestValidType(t *testing.T) {
	for _, typ := range []string{TypeBanner, TypeCategories, TypeFAQ} {
		if !ValidType(typ) {
			t.Errorf("ValidType(%q) = false", typ)
		}
	}
	for _, typ := range []string{"", "footer", "Banner"} {
		if ValidType(typ) {
			t.Errorf("ValidType(%q) = true", typ)
		}
	}
}

func TestValidateContent(t *testing.T) {
	tests := []struct {
		name    string
		typ     string
		content Content
		wantErr bool
	}{
		{
			"banner with banner section",
			TypeBanner,
			Content{Banner: &Banner{Title: "Sale"}},
			false,
		},
		{
			"banner without banner section",
			TypeBanner,
			Content{Categories: []Category{{Title: "Shoes"}}},
			true,
		},
		{
			"categories populated",
			TypeCategories,
			Content{Categories: []Category{{Title: "Shoes"}}},
			false,
		},
		{
			"categories empty",
			TypeCategories,
			Content{},
			true,
		},
		{
			"faq populated",
			TypeFAQ,
			Content{FAQ: []FAQItem{{Question: "Q", Answer: "A"}}},
			false,
		},
		{
			"faq empty",
			TypeFAQ,
			Content{Banner: &Banner{}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContent(tt.typ, tt.content)
			if tt.wantErr {
				if !errors.Is(err, core.ErrInvalidInput) {
					t.Errorf("got %v, want core.ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
