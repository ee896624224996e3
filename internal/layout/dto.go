// AngelaMos | 2026
// dto.go

package layout

import (
	"time"
)

type UpsertLayoutRequest struct {
	Type    string  `json:"type" validate:"required,oneof=banner categories faq"`
	Content Content `json:"content"`
}

type LayoutResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Content   Content   `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToLayoutResponse(l *Layout) LayoutResponse {
	return LayoutResponse{
		ID:        l.ID,
		Type:      l.Type,
		Content:   l.Content.Val,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
