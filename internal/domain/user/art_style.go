package user

import (
	"fmt"
	"strings"

	"github.com/yungbote/lore-backend/internal/platform/apierr"
)

type ArtStyle string

const (
	ArtStyleClassicalPainting     ArtStyle = "classical painting"
	ArtStyleEtherealAnimatedFairy ArtStyle = "ethereal animated fairy"
	ArtStyleChildrensBook         ArtStyle = "childrens book"
	ArtStyle3DAnimated            ArtStyle = "3d animated style"

	DefaultArtStyle = ArtStyleClassicalPainting
)

var ArtStyles = []ArtStyle{
	ArtStyleClassicalPainting,
	ArtStyleEtherealAnimatedFairy,
	ArtStyleChildrensBook,
	ArtStyle3DAnimated,
}

func (s ArtStyle) Valid() bool {
	for _, v := range ArtStyles {
		if s == v {
			return true
		}
	}
	return false
}

// ParseArtStyle accepts exactly the enumerated values (surrounding whitespace ignored).
func ParseArtStyle(raw string) (ArtStyle, error) {
	s := ArtStyle(strings.TrimSpace(raw))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", apierr.ErrInvalidArtStyle, raw)
	}
	return s, nil
}
