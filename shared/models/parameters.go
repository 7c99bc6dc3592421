package models

import "time"

// Parameter keys as stored in the parameters collection.
const (
	ParamModelID     = "MODEL_ID"
	ParamTemperature = "TEMPERATURE"
	ParamMaxTokens   = "MAX_TOKENS"
	ParamMockMode    = "MOCK_MODE"
	ParamTheme       = "THEME"
	ParamImageAspect = "IMAGE_ASPECT"
)

const (
	DefaultModelID     = "gemini-1.5-flash"
	DefaultTemperature = 0.8
	DefaultMaxTokens   = 600
)

// Parameter is a single stored key/value pair. Values are always strings.
type Parameter struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// GenerationParameters is the typed snapshot passed through one generation flow.
// Temperature may be NaN when the stored value is not numeric.
type GenerationParameters struct {
	ModelID     string  `json:"modelId"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"maxTokens"`
	OfflineMode bool    `json:"offlineMode"`
	ImageAspect string  `json:"imageAspect"`
}
