package prompt_test

import (
	"context"
	"testing"

	"cyoa-server/internal/prompt"
	"cyoa-server/shared/database"
	"cyoa-server/shared/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const seededInitialPrompt = "You are an expert interactive fiction generator.\n" +
	"Write immersive second-person sci-fi with crisp pacing, vivid sensory detail, and tight scene framing. Keep paragraphs short and choices concrete. Avoid overly florid prose.\n\n" +
	"Task: Write the next screen.\n\n" +
	"Genre: military-scifi. Begin an engaging scene that ends with 2-3 actionable choices for the reader.\n\n" +
	"Return JSON with keys: storyText (string), choices (array of 2-3 strings), imagePrompt (string)."

func seededComposer(t *testing.T) (*prompt.Composer, *database.MemoryTemplateRepository) {
	t.Helper()
	repo := database.NewMemoryTemplateRepository()
	require.NoError(t, prompt.SeedTemplates(context.Background(), repo, zap.NewNop()))
	provider := prompt.NewTemplateProvider(repo, 0, zap.NewNop())
	return prompt.NewComposer(provider), repo
}

func TestComposer_BuildInitialPrompt_Seeded(t *testing.T) {
	composer, _ := seededComposer(t)
	assert.Equal(t, seededInitialPrompt, composer.BuildInitialPrompt(context.Background(), "military-scifi"))
}

func TestComposer_BuildContinuationPrompt_Seeded(t *testing.T) {
	composer, _ := seededComposer(t)

	got := composer.BuildContinuationPrompt(context.Background(), "noir", "The rain falls.", "Open the door")

	assert.Contains(t, got, "Task: Continue the story.\n\n")
	assert.Contains(t, got, `Continue the story. Prior text: "The rain falls.". The reader chose: "Open the door". Advance the scene with consequence and end with 2-3 new choices.`)
	assert.True(t, len(got) > 0 && got[len(got)-1] == '.')
}

func TestComposer_FallbacksWhenStoreEmpty(t *testing.T) {
	provider := prompt.NewTemplateProvider(database.NewMemoryTemplateRepository(), 0, zap.NewNop())
	composer := prompt.NewComposer(provider)
	ctx := context.Background()

	assert.Equal(t,
		"You are an expert interactive fiction generator.\n\n\nTask: Write the next screen.\n\nBegin a story in noir.\n\n"+
			"Return JSON with keys: storyText (string), choices (array of 2-3 strings), imagePrompt (string).",
		composer.BuildInitialPrompt(ctx, "noir"))

	assert.Contains(t, composer.BuildContinuationPrompt(ctx, "noir", "x", "y"),
		"Task: Continue the story.\n\nContinue based on prior text and the chosen action.\n\n")

	assert.Equal(t, "Illustrate: a dark alley", composer.BuildImagePrompt(ctx, "a dark alley"))
}

func TestComposer_EmptyStoredBodyUsesFallback(t *testing.T) {
	repo := database.NewMemoryTemplateRepository()
	require.NoError(t, repo.Upsert(context.Background(), &models.Template{Key: models.TemplateImage, Body: ""}))
	composer := prompt.NewComposer(prompt.NewTemplateProvider(repo, 0, zap.NewNop()))

	assert.Equal(t, "Illustrate: moon", composer.BuildImagePrompt(context.Background(), "moon"))
}

func TestComposer_BuildImagePrompt_Seeded(t *testing.T) {
	composer, _ := seededComposer(t)
	assert.Equal(t,
		"Cinematic sci-fi concept art of the current scene: cinematic sci-fi still of corridor lit by pulsing blue strips. Futuristic, high detail, moody lighting.",
		composer.BuildImagePrompt(context.Background(), "cinematic sci-fi still of corridor lit by pulsing blue strips"))
}

func TestSeedTemplates_KeepsAdminEdits(t *testing.T) {
	repo := database.NewMemoryTemplateRepository()
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, &models.Template{Key: models.TemplateStyle, Body: "Terse."}))

	require.NoError(t, prompt.SeedTemplates(ctx, repo, zap.NewNop()))
	require.NoError(t, prompt.SeedTemplates(ctx, repo, zap.NewNop()))

	style, err := repo.Get(ctx, models.TemplateStyle)
	require.NoError(t, err)
	assert.Equal(t, "Terse.", style.Body)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
