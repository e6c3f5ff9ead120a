package recapgen

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	types "github.com/yungbote/lore-backend/internal/domain"
	"github.com/yungbote/lore-backend/internal/platform/logger"
)

const promptsEnv = "RECAP_PROMPTS_YAML"

//go:embed prompts.yaml
var promptsFS embed.FS

type narrativePrompt struct {
	System      string `yaml:"system"`
	Intro       string `yaml:"intro"`
	FirstMoment string `yaml:"first_moment"`
	NextMoment  string `yaml:"next_moment"`
}

type imagePrompt struct {
	System       string `yaml:"system"`
	Instructions string `yaml:"instructions"`
	MaxWords     int    `yaml:"max_words"`
}

type Prompts struct {
	Narrative   narrativePrompt `yaml:"narrative"`
	ImagePrompt imagePrompt     `yaml:"image_prompt"`
}

var (
	promptsOnce sync.Once
	prompts     *Prompts
	promptsErr  error
)

// LoadPrompts reads the embedded templates, or RECAP_PROMPTS_YAML when set.
// The result is cached for the process lifetime.
func LoadPrompts(log *logger.Logger) (*Prompts, error) {
	promptsOnce.Do(func() {
		var data []byte
		data, promptsErr = readPrompts()
		if promptsErr != nil {
			return
		}
		prompts, promptsErr = ParsePrompts(data)
		if promptsErr == nil && log != nil {
			log.Debug("recap prompts loaded", "source", promptSource())
		}
	})
	return prompts, promptsErr
}

func promptSource() string {
	if p := strings.TrimSpace(os.Getenv(promptsEnv)); p != "" {
		return p
	}
	return "embedded"
}

func readPrompts() ([]byte, error) {
	if p := strings.TrimSpace(os.Getenv(promptsEnv)); p != "" {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", promptsEnv, err)
		}
		return data, nil
	}
	return promptsFS.ReadFile("prompts.yaml")
}

func ParsePrompts(data []byte) (*Prompts, error) {
	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Prompts) validate() error {
	var errs []error
	if strings.TrimSpace(p.Narrative.Intro) == "" {
		errs = append(errs, errors.New("narrative.intro is required"))
	}
	if strings.TrimSpace(p.Narrative.FirstMoment) == "" || strings.TrimSpace(p.Narrative.NextMoment) == "" {
		errs = append(errs, errors.New("narrative.first_moment and narrative.next_moment are required"))
	}
	if strings.TrimSpace(p.ImagePrompt.Instructions) == "" {
		errs = append(errs, errors.New("image_prompt.instructions is required"))
	}
	if p.ImagePrompt.MaxWords <= 0 {
		p.ImagePrompt.MaxWords = 100
	}
	return errors.Join(errs...)
}

// NarrativeRequest frames the moment texts in creation order.
func (p *Prompts) NarrativeRequest(texts []string) (system, user string) {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(p.Narrative.Intro))
	for i, t := range texts {
		b.WriteString("\n")
		if i == 0 {
			b.WriteString(p.Narrative.FirstMoment)
		} else {
			b.WriteString(p.Narrative.NextMoment)
		}
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(t))
	}
	return strings.TrimSpace(p.Narrative.System), b.String()
}

func (p *Prompts) ImagePromptRequest(narrative string) (system, user string) {
	instr := strings.ReplaceAll(strings.TrimSpace(p.ImagePrompt.Instructions), "{{max_words}}", strconv.Itoa(p.ImagePrompt.MaxWords))
	return strings.TrimSpace(p.ImagePrompt.System), instr + "\n" + strings.TrimSpace(narrative)
}

// BoundWords trims s to at most max whitespace-separated words.
func BoundWords(s string, max int) string {
	fields := strings.Fields(s)
	if max <= 0 || len(fields) <= max {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:max], " ")
}

var styleModifiers = map[types.ArtStyle]string{
	types.ArtStyleClassicalPainting:     "in the style of a classical oil painting, rich colors, dramatic lighting",
	types.ArtStyleEtherealAnimatedFairy: "in an ethereal fairy tale style, magical, dreamy, soft glowing colors",
	types.ArtStyleChildrensBook:         "in a whimsical children's book illustration style, colorful, playful",
	types.ArtStyle3DAnimated:            "in a modern 3D animated style, vibrant, polished, cinematic",
}

var ErrUnknownArtStyle = errors.New("unknown art style")

// StyleModifier resolves the descriptive suffix for an art style. An empty
// style means the default.
func StyleModifier(style types.ArtStyle) (string, error) {
	if style == "" {
		style = types.DefaultArtStyle
	}
	m, ok := styleModifiers[style]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownArtStyle, style)
	}
	return m, nil
}
