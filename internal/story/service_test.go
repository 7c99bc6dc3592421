package story_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"cyoa-server/internal/generation"
	"cyoa-server/internal/imaging"
	"cyoa-server/internal/mocks"
	"cyoa-server/internal/parameters"
	"cyoa-server/internal/prompt"
	"cyoa-server/internal/story"
	"cyoa-server/shared/database"
	"cyoa-server/shared/interfaces"
	"cyoa-server/shared/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const corridorText = "You steady your breath. The corridor lit by pulsing blue strips sharpens into focus. " +
	"Systems whisper status updates along your HUD as the ship drifts. Ahead, a decision waits."

var offlineChoices = []string{"Route power to scanners", "Call the bridge", "Slip into the maintenance shaft"}

type harness struct {
	svc      *story.Service
	screens  interfaces.ScreenRepository
	composer *prompt.Composer
}

func newHarness(t *testing.T, screens interfaces.ScreenRepository) harness {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	templates := database.NewMemoryTemplateRepository()
	require.NoError(t, prompt.SeedTemplates(ctx, templates, logger))
	composer := prompt.NewComposer(prompt.NewTemplateProvider(templates, time.Minute, logger))

	params := parameters.NewService(database.NewMemoryParameterRepository(), parameters.Defaults{
		ModelID: "gemini-1.5-flash", Temperature: "0.8", MaxTokens: "600", MockMode: "true",
	}, true, mocks.NewMockConfigEventPublisher(t), logger)
	require.NoError(t, params.Seed(ctx))

	svc := story.NewService(
		screens,
		params,
		composer,
		generation.NewOrchestrator(nil, time.Second, logger),
		imaging.NewPipeline(composer, nil, logger),
		logger,
	)
	return harness{svc: svc, screens: screens, composer: composer}
}

func TestStartStory_GoldenOffline(t *testing.T) {
	h := newHarness(t, database.NewMemoryScreenRepository())

	screen, err := h.svc.StartStory(context.Background(), "military-scifi")
	require.NoError(t, err)

	assert.NotEmpty(t, screen.ScreenID)
	assert.Nil(t, screen.ParentID)
	assert.Equal(t, "military-scifi", screen.Genre)
	assert.Equal(t, corridorText, screen.StoryText)
	assert.Equal(t, offlineChoices, screen.Choices)
	assert.Equal(t, "https://picsum.photos/seed/1329983133/960/540", screen.LandscapeURL)
	assert.Equal(t, "https://picsum.photos/seed/1329983134/540/960", screen.PortraitURL)
	assert.Equal(t, time.UTC, screen.CreatedAt.Location())
	assert.Zero(t, screen.CreatedAt.Nanosecond()%1000)

	stored, err := h.svc.GetScreen(context.Background(), screen.ScreenID)
	require.NoError(t, err)
	assert.Equal(t, screen, stored)
}

func TestStartStory_Deterministic(t *testing.T) {
	h := newHarness(t, database.NewMemoryScreenRepository())
	ctx := context.Background()

	a, err := h.svc.StartStory(ctx, "noir")
	require.NoError(t, err)
	b, err := h.svc.StartStory(ctx, "noir")
	require.NoError(t, err)

	assert.NotEqual(t, a.ScreenID, b.ScreenID)
	assert.Equal(t, a.StoryText, b.StoryText)
	assert.Equal(t, a.Choices, b.Choices)
	assert.Equal(t, a.LandscapeURL, b.LandscapeURL)
	assert.Equal(t, a.PortraitURL, b.PortraitURL)
}

func TestStartStory_Validation(t *testing.T) {
	h := newHarness(t, database.NewMemoryScreenRepository())

	for _, genre := range []string{"", "   "} {
		_, err := h.svc.StartStory(context.Background(), genre)
		assert.ErrorIs(t, err, models.ErrMissingGenre)
		assert.ErrorIs(t, err, models.ErrValidation)
	}
}

func TestStartStory_SurvivesCancelledRequest(t *testing.T) {
	h := newHarness(t, database.NewMemoryScreenRepository())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	screen, err := h.svc.StartStory(ctx, "space-opera")
	require.NoError(t, err)

	_, err = h.svc.GetScreen(context.Background(), screen.ScreenID)
	assert.NoError(t, err)
}

func TestAdvanceStory(t *testing.T) {
	h := newHarness(t, database.NewMemoryScreenRepository())
	ctx := context.Background()

	root, err := h.svc.StartStory(ctx, "military-scifi")
	require.NoError(t, err)

	child, err := h.svc.AdvanceStory(ctx, root.ScreenID, "Route power to scanners")
	require.NoError(t, err)

	require.NotNil(t, child.ParentID)
	assert.Equal(t, root.ScreenID, *child.ParentID)
	assert.Equal(t, root.Genre, child.Genre)
	assert.NotEqual(t, root.ScreenID, child.ScreenID)
	assert.Equal(t, "You steady your breath. The observation dome above a storm-wracked gas giant sharpens into focus. "+
		"Systems whisper status updates along your HUD as the ship drifts. Ahead, a decision waits.", child.StoryText)

	hint := "cinematic sci-fi still of observation dome above a storm-wracked gas giant"
	want := imaging.PlaceholderImages(h.composer.BuildImagePrompt(ctx, hint))
	assert.Equal(t, want.LandscapeURL, child.LandscapeURL)
	assert.Equal(t, want.PortraitURL, child.PortraitURL)
}

func TestAdvanceStory_Errors(t *testing.T) {
	h := newHarness(t, database.NewMemoryScreenRepository())
	ctx := context.Background()

	_, err := h.svc.AdvanceStory(ctx, "", "go")
	assert.ErrorIs(t, err, models.ErrMissingFields)
	_, err = h.svc.AdvanceStory(ctx, "abc", "  ")
	assert.ErrorIs(t, err, models.ErrMissingFields)

	_, err = h.svc.AdvanceStory(ctx, "does-not-exist", "Call the bridge")
	assert.ErrorIs(t, err, models.ErrParentNotFound)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetScreen_NotFound(t *testing.T) {
	h := newHarness(t, database.NewMemoryScreenRepository())

	_, err := h.svc.GetScreen(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = h.svc.GetScreen(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStartStory_StoreFailure(t *testing.T) {
	repo := mocks.NewMockScreenRepository(t)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Screen")).
		Return(fmt.Errorf("%w: disk full", models.ErrStoreWrite)).Once()
	h := newHarness(t, repo)

	_, err := h.svc.StartStory(context.Background(), "horror")
	assert.ErrorIs(t, err, models.ErrStoreWrite)
}

func TestStartStory_UnclassifiedStoreFailure(t *testing.T) {
	repo := mocks.NewMockScreenRepository(t)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()
	h := newHarness(t, repo)

	_, err := h.svc.StartStory(context.Background(), "horror")
	assert.ErrorIs(t, err, models.ErrStoreWrite)
}

func TestLineageAndChildren(t *testing.T) {
	h := newHarness(t, database.NewMemoryScreenRepository())
	ctx := context.Background()

	root, err := h.svc.StartStory(ctx, "cyberpunk")
	require.NoError(t, err)
	a, err := h.svc.AdvanceStory(ctx, root.ScreenID, "Call the bridge")
	require.NoError(t, err)
	b, err := h.svc.AdvanceStory(ctx, a.ScreenID, "Slip into the maintenance shaft")
	require.NoError(t, err)
	sibling, err := h.svc.AdvanceStory(ctx, root.ScreenID, "Route power to scanners")
	require.NoError(t, err)

	path, err := h.svc.Lineage(ctx, b.ScreenID)
	require.NoError(t, err)
	require.Len(t, path, 3)
	assert.Equal(t, []string{root.ScreenID, a.ScreenID, b.ScreenID},
		[]string{path[0].ScreenID, path[1].ScreenID, path[2].ScreenID})

	children, err := h.svc.Children(ctx, root.ScreenID)
	require.NoError(t, err)
	ids := make([]string, 0, len(children))
	for _, c := range children {
		ids = append(ids, c.ScreenID)
	}
	assert.ElementsMatch(t, []string{a.ScreenID, sibling.ScreenID}, ids)

	_, err = h.svc.Children(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestLineage_Cycle(t *testing.T) {
	repo := mocks.NewMockScreenRepository(t)
	x, y := "x", "y"
	repo.On("GetByID", mock.Anything, "x").Return(&models.Screen{ScreenID: "x", ParentID: &y}, nil)
	repo.On("GetByID", mock.Anything, "y").Return(&models.Screen{ScreenID: "y", ParentID: &x}, nil)
	h := newHarness(t, repo)

	_, err := h.svc.Lineage(context.Background(), "x")
	assert.ErrorIs(t, err, story.ErrLineageTooDeep)
}

func TestExportTranscriptPDF(t *testing.T) {
	h := newHarness(t, database.NewMemoryScreenRepository())
	ctx := context.Background()

	root, err := h.svc.StartStory(ctx, "café-noir")
	require.NoError(t, err)
	child, err := h.svc.AdvanceStory(ctx, root.ScreenID, "Call the bridge")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, h.svc.ExportTranscriptPDF(ctx, child.ScreenID, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	err = h.svc.ExportTranscriptPDF(ctx, "missing", &bytes.Buffer{})
	assert.ErrorIs(t, err, models.ErrNotFound)
}
