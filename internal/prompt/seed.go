package prompt

import (
	"context"
	_ "embed"
	"fmt"

	"cyoa-server/shared/interfaces"
	"cyoa-server/shared/models"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed default_templates.yaml
var defaultTemplatesYAML []byte

type templateFile struct {
	Templates []models.Template `yaml:"templates"`
}

// DefaultTemplates returns the built-in seed templates.
func DefaultTemplates() ([]models.Template, error) {
	var file templateFile
	if err := yaml.Unmarshal(defaultTemplatesYAML, &file); err != nil {
		return nil, fmt.Errorf("failed to parse default templates: %w", err)
	}
	return file.Templates, nil
}

// SeedTemplates inserts every default template whose key is not stored yet.
// Admin edits are never overwritten.
func SeedTemplates(ctx context.Context, repo interfaces.TemplateRepository, logger *zap.Logger) error {
	templates, err := DefaultTemplates()
	if err != nil {
		return err
	}
	for i := range templates {
		tpl := templates[i]
		inserted, err := repo.CreateIfAbsent(ctx, &tpl)
		if err != nil {
			return fmt.Errorf("failed to seed template %s: %w", tpl.Key, err)
		}
		if inserted {
			logger.Info("Seeded prompt template", zap.String("key", tpl.Key))
		}
	}
	return nil
}
