// Package prompt builds generation prompts from stored templates.
package prompt

import (
	"context"

	"cyoa-server/internal/template"
	"cyoa-server/shared/models"
)

const (
	promptPreamble     = "You are an expert interactive fiction generator.\n"
	promptInstructions = "Return JSON with keys: storyText (string), choices (array of 2-3 strings), imagePrompt (string)."

	taskInitial      = "Write the next screen."
	taskContinuation = "Continue the story."

	fallbackStyle        = ""
	fallbackInitial      = "Begin a story in {{genre}}."
	fallbackContinuation = "Continue based on prior text and the chosen action."
	fallbackImage        = "Illustrate: {{summary}}"
)

// Composer turns a story step into a self-contained prompt. Missing templates
// fall back to built-in ones, so composing never fails.
type Composer struct {
	templates TemplateSource
}

func NewComposer(templates TemplateSource) *Composer {
	return &Composer{templates: templates}
}

func (c *Composer) BuildInitialPrompt(ctx context.Context, genre string) string {
	vars := map[string]string{"genre": genre}
	return c.wrap(ctx, taskInitial, c.render(ctx, models.TemplateInitial, fallbackInitial, vars), vars)
}

func (c *Composer) BuildContinuationPrompt(ctx context.Context, genre, parentText, choice string) string {
	vars := map[string]string{"genre": genre, "parentText": parentText, "choice": choice}
	return c.wrap(ctx, taskContinuation, c.render(ctx, models.TemplateContinuation, fallbackContinuation, vars), vars)
}

// BuildImagePrompt renders the image template only; it carries no JSON instructions.
func (c *Composer) BuildImagePrompt(ctx context.Context, summary string) string {
	return c.render(ctx, models.TemplateImage, fallbackImage, map[string]string{"summary": summary})
}

func (c *Composer) wrap(ctx context.Context, task, body string, vars map[string]string) string {
	style := c.render(ctx, models.TemplateStyle, fallbackStyle, vars)
	return promptPreamble + style + "\n\nTask: " + task + "\n\n" + body + "\n\n" + promptInstructions
}

func (c *Composer) render(ctx context.Context, key, fallback string, vars map[string]string) string {
	body, ok := c.templates.Body(ctx, key)
	if !ok {
		body = fallback
	}
	return template.Render(body, vars)
}
