package recapgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/lore-backend/internal/platform/imaging"
	"github.com/yungbote/lore-backend/internal/platform/openai"
)

const (
	ImageProviderOpenAI      = "openai"
	ImageProviderPlaceholder = "placeholder"
)

// ImageRenderer turns a prompt into encoded image bytes of any common format.
type ImageRenderer interface {
	Render(ctx context.Context, prompt string) ([]byte, error)
}

type openAIRenderer struct {
	ai openai.Client
}

func (r openAIRenderer) Render(ctx context.Context, prompt string) ([]byte, error) {
	img, err := r.ai.GenerateImage(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if len(img.Bytes) == 0 {
		return nil, fmt.Errorf("image generation returned no bytes")
	}
	return img.Bytes, nil
}

type placeholderRenderer struct {
	size int
}

func (r placeholderRenderer) Render(ctx context.Context, prompt string) ([]byte, error) {
	return imaging.Placeholder(prompt, r.size)
}

// NewImageRenderer selects the synthesis backend by name.
func NewImageRenderer(provider string, ai openai.Client) (ImageRenderer, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ImageProviderOpenAI:
		if ai == nil {
			return nil, fmt.Errorf("image provider %q requires an AI client", ImageProviderOpenAI)
		}
		return openAIRenderer{ai: ai}, nil
	case ImageProviderPlaceholder:
		return placeholderRenderer{size: 768}, nil
	default:
		return nil, fmt.Errorf("unknown RECAP_IMAGE_PROVIDER %q", provider)
	}
}
