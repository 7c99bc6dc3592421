package parameters

import (
	"fmt"

	"cyoa-server/shared/models"

	"github.com/kelseyhightower/envconfig"
)

// Defaults are the values a fresh store starts with. Each can be overridden by
// the environment variable of the same name.
type Defaults struct {
	ModelID     string `envconfig:"MODEL_ID" default:"gemini-1.5-flash"`
	Temperature string `envconfig:"TEMPERATURE" default:"0.8"`
	MaxTokens   string `envconfig:"MAX_TOKENS" default:"600"`
	MockMode    string `envconfig:"MOCK_MODE" default:"true"`
	Theme       string `envconfig:"THEME" default:"system"`
	ImageAspect string `envconfig:"IMAGE_ASPECT" default:"landscape"`
}

// LoadDefaults reads Defaults from the environment.
func LoadDefaults() (Defaults, error) {
	var d Defaults
	if err := envconfig.Process("", &d); err != nil {
		return Defaults{}, fmt.Errorf("failed to read parameter defaults: %w", err)
	}
	return d, nil
}

func (d Defaults) asMap() map[string]string {
	return map[string]string{
		models.ParamModelID:     d.ModelID,
		models.ParamTemperature: d.Temperature,
		models.ParamMaxTokens:   d.MaxTokens,
		models.ParamMockMode:    d.MockMode,
		models.ParamTheme:       d.Theme,
		models.ParamImageAspect: d.ImageAspect,
	}
}
