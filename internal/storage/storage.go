// AngelaMos | 2026
// storage.go

package storage

import (
	"context"
	"path"
	"strings"
)

// Image is a stored blob reference as embedded in entities.
type Image struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// ObjectStorage abstracts the blob backend so handlers never touch the
// SDK directly.
type ObjectStorage interface {
	Upload(
		ctx context.Context,
		data []byte,
		folder, filename, contentType string,
	) (Image, error)
	Destroy(ctx context.Context, id string) error
}

var allowedImageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// IsValidImage reports whether the filename carries an allowed image
// extension.
func IsValidImage(filename string) bool {
	ext := strings.ToLower(path.Ext(filename))
	_, ok := allowedImageExts[ext]
	return ok
}
