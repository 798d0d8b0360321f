// Package media stores generated images and returns the URL a post uses to
// reference them.
package media

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"

	"github.com/shubh-37/social-strategist/internal/llm"
)

var allowedTypes = map[string]bool{
	"png":  true,
	"jpg":  true,
	"webp": true,
	"gif":  true,
}

// Detect sniffs the image type from its bytes. The declared MIME type from
// the model is not trusted.
func Detect(data []byte) (types.Type, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return types.Unknown, fmt.Errorf("unsupported file type: %w", err)
	}
	if kind == types.Unknown {
		return types.Unknown, fmt.Errorf("unsupported file type")
	}
	if !allowedTypes[kind.Extension] {
		return types.Unknown, fmt.Errorf("file type %s is not allowed", kind.Extension)
	}
	return kind, nil
}

// DataURLStore inlines images as data URLs. Used when no bucket is configured.
type DataURLStore struct{}

func (DataURLStore) Put(_ context.Context, img *llm.Image) (string, error) {
	kind, err := Detect(img.Data)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("data:%s;base64,%s", kind.MIME.Value, base64.StdEncoding.EncodeToString(img.Data)), nil
}
