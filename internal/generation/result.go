package generation

import (
	"encoding/json"
	"errors"
	"strings"

	"cyoa-server/pkg/ai"
	"cyoa-server/shared/models"
)

const imagePromptRunes = 200

// ErrEmptyStory is returned by Normalize when the backend produced no usable story text.
var ErrEmptyStory = errors.New("generated story text is empty")

// Result is what came back from a live backend: either a structured scene or,
// when no JSON object could be read, the raw text.
type Result struct {
	scene      models.Scene
	raw        string
	structured bool
}

// Structured wraps a parsed scene.
func Structured(scene models.Scene) Result {
	return Result{scene: scene, structured: true}
}

// RawText wraps unparseable backend output.
func RawText(raw string) Result {
	return Result{raw: raw}
}

// IsStructured reports which variant r holds.
func (r Result) IsStructured() bool { return r.structured }

type wireScene struct {
	StoryText   string `json:"storyText"`
	Choices     []any  `json:"choices"`
	ImagePrompt string `json:"imagePrompt"`
}

// ParseResult reads the span from the first '{' to the last '}' as a scene.
// When that span is not valid JSON, the body of the first Markdown code fence
// gets the same treatment before the answer is taken as plain text.
func ParseResult(raw string) Result {
	w, ok := decodeScene(raw)
	if !ok {
		if fenced := ai.StripCodeFence(raw); fenced != strings.TrimSpace(raw) {
			w, ok = decodeScene(fenced)
		}
	}
	if !ok {
		return RawText(raw)
	}

	choices := make([]string, 0, len(w.Choices))
	for _, c := range w.Choices {
		if s, ok := c.(string); ok {
			choices = append(choices, s)
		}
	}
	return Structured(models.Scene{StoryText: w.StoryText, Choices: choices, ImagePrompt: w.ImagePrompt})
}

func decodeScene(text string) (wireScene, bool) {
	var w wireScene
	span, ok := ai.ExtractJSONObject(text)
	if !ok {
		return w, false
	}
	if err := json.Unmarshal([]byte(span), &w); err != nil {
		return w, false
	}
	return w, true
}

// Normalize turns a backend result into a scene that satisfies the screen
// invariants: non-empty story text, 2-3 non-empty choices and an image prompt.
func Normalize(r Result) (models.Scene, error) {
	var scene models.Scene
	if r.structured {
		scene = r.scene
	} else {
		scene = models.Scene{StoryText: r.raw}
	}

	scene.StoryText = strings.TrimSpace(scene.StoryText)
	if scene.StoryText == "" {
		return models.Scene{}, ErrEmptyStory
	}

	choices := make([]string, 0, models.MaxChoices)
	for _, c := range scene.Choices {
		if c = strings.TrimSpace(c); c != "" {
			choices = append(choices, c)
		}
		if len(choices) == models.MaxChoices {
			break
		}
	}
	if len(choices) < models.MinChoices {
		choices = models.DefaultChoices()
	}
	scene.Choices = choices

	scene.ImagePrompt = strings.TrimSpace(scene.ImagePrompt)
	if scene.ImagePrompt == "" {
		scene.ImagePrompt = ai.TruncateRunes(scene.StoryText, imagePromptRunes)
	}
	return scene, nil
}
