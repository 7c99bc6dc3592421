package models

// Scene is the structured result of one text generation call, before it gets an id.
type Scene struct {
	StoryText   string   `json:"storyText"`
	Choices     []string `json:"choices"`
	ImagePrompt string   `json:"imagePrompt"`
}

const (
	MinChoices = 2
	MaxChoices = 3
)

// DefaultChoices substitutes for missing or malformed choices from a live backend.
func DefaultChoices() []string {
	return []string{"Press forward", "Pause and observe", "Retreat and rethink"}
}
