package models

import "time"

// Template keys used by the prompt composer.
const (
	TemplateStyle        = "style"
	TemplateInitial      = "initial"
	TemplateContinuation = "continuation"
	TemplateImage        = "image"
)

// Template is an editable prompt fragment with {{name}} placeholders.
type Template struct {
	Key       string    `db:"key" json:"key" yaml:"key"`
	Name      string    `db:"name" json:"name" yaml:"name"`
	Kind      string    `db:"kind" json:"kind" yaml:"kind"`
	Body      string    `db:"body" json:"body" yaml:"body"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt" yaml:"-"`
}
