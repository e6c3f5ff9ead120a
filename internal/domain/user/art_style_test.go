package user

import (
	"errors"
	"testing"

	"github.com/yungbote/lore-backend/internal/platform/apierr"
)

func TestParseArtStyle(t *testing.T) {
	for _, s := range ArtStyles {
		got, err := ParseArtStyle(" " + string(s) + " ")
		if err != nil || got != s {
			t.Fatalf("ParseArtStyle(%q): want=%q got=%q err=%v", s, s, got, err)
		}
	}
	for _, bad := range []string{"", "Classical Painting", "watercolor", "3d animated"} {
		if _, err := ParseArtStyle(bad); !errors.Is(err, apierr.ErrInvalidArtStyle) {
			t.Fatalf("ParseArtStyle(%q): want ErrInvalidArtStyle got=%v", bad, err)
		}
	}
}

func TestUserMetaDefaults(t *testing.T) {
	m := NewUserMeta("user_1", "")
	if m.Email != "user_1" || m.Timezone != DefaultTimezone || m.ArtStyle != DefaultArtStyle {
		t.Fatalf("NewUserMeta: got=%+v", m)
	}
	var nilMeta *UserMeta
	if nilMeta.EffectiveArtStyle() != ArtStyleClassicalPainting {
		t.Fatalf("EffectiveArtStyle(nil): want default")
	}
	if nilMeta.EffectiveTimezone() != DefaultTimezone {
		t.Fatalf("EffectiveTimezone(nil): want default")
	}
}
