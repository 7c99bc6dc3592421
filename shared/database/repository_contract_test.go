package database_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"cyoa-server/shared/interfaces"
	"cyoa-server/shared/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Shared behaviour every storage backend must show. Backends run these from their own tests.

func newScreen(id string, parent *string, createdAt time.Time) *models.Screen {
	return &models.Screen{
		ScreenID:     id,
		ParentID:     parent,
		Genre:        "noir",
		StoryText:    "Rain hammers the window of " + id + ".",
		Choices:      []string{"Open the door", "Wait"},
		LandscapeURL: "https://picsum.photos/seed/1/960/540",
		PortraitURL:  "https://picsum.photos/seed/2/540/960",
		CreatedAt:    createdAt.UTC().Truncate(time.Microsecond),
	}
}

func runScreenRepositoryContract(t *testing.T, repo interfaces.ScreenRepository) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	root := newScreen("root-1", nil, base)
	require.NoError(t, repo.Create(ctx, root))

	t.Run("round trip", func(t *testing.T) {
		got, err := repo.GetByID(ctx, root.ScreenID)
		require.NoError(t, err)
		assert.Equal(t, root.ScreenID, got.ScreenID)
		assert.Nil(t, got.ParentID)
		assert.True(t, got.IsRoot())
		assert.Equal(t, root.Genre, got.Genre)
		assert.Equal(t, root.StoryText, got.StoryText)
		assert.Equal(t, root.Choices, got.Choices)
		assert.Equal(t, root.LandscapeURL, got.LandscapeURL)
		assert.Equal(t, root.PortraitURL, got.PortraitURL)
		assert.True(t, root.CreatedAt.Equal(got.CreatedAt), "createdAt %s != %s", got.CreatedAt, root.CreatedAt)
	})

	t.Run("created at is read back in UTC", func(t *testing.T) {
		local := newScreen("zoned-1", nil, base)
		local.CreatedAt = base.In(time.FixedZone("UTC+3", 3*3600))
		require.NoError(t, repo.Create(ctx, local))

		got, err := repo.GetByID(ctx, local.ScreenID)
		require.NoError(t, err)
		assert.Equal(t, time.UTC, got.CreatedAt.Location())
		assert.True(t, base.Equal(got.CreatedAt), "createdAt %s != %s", got.CreatedAt, base)
		assert.Equal(t, "UTC+3", local.CreatedAt.Location().String())
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "does-not-exist")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("duplicate id is rejected and the original kept", func(t *testing.T) {
		dup := newScreen(root.ScreenID, nil, base.Add(time.Hour))
		dup.StoryText = "overwritten"
		err := repo.Create(ctx, dup)
		assert.ErrorIs(t, err, models.ErrDuplicateScreen)

		got, err := repo.GetByID(ctx, root.ScreenID)
		require.NoError(t, err)
		assert.NotEqual(t, "overwritten", got.StoryText)
	})

	t.Run("children are ordered oldest first", func(t *testing.T) {
		parent := root.ScreenID
		later := newScreen("child-b", &parent, base.Add(2*time.Minute))
		earlier := newScreen("child-a", &parent, base.Add(time.Minute))
		require.NoError(t, repo.Create(ctx, later))
		require.NoError(t, repo.Create(ctx, earlier))

		children, err := repo.ListChildren(ctx, parent)
		require.NoError(t, err)
		require.Len(t, children, 2)
		assert.Equal(t, "child-a", children[0].ScreenID)
		assert.Equal(t, "child-b", children[1].ScreenID)
		require.NotNil(t, children[0].ParentID)
		assert.Equal(t, parent, *children[0].ParentID)

		none, err := repo.ListChildren(ctx, "child-a")
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("empty choices survive storage", func(t *testing.T) {
		s := newScreen("no-choices", nil, base)
		s.Choices = nil
		require.NoError(t, repo.Create(ctx, s))

		got, err := repo.GetByID(ctx, s.ScreenID)
		require.NoError(t, err)
		assert.Empty(t, got.Choices)
	})

	t.Run("returned screens are copies", func(t *testing.T) {
		got, err := repo.GetByID(ctx, root.ScreenID)
		require.NoError(t, err)
		got.Choices[0] = "mutated"

		again, err := repo.GetByID(ctx, root.ScreenID)
		require.NoError(t, err)
		assert.Equal(t, "Open the door", again.Choices[0])
	})

	t.Run("concurrent creates", func(t *testing.T) {
		parent := root.ScreenID
		var wg sync.WaitGroup
		errs := make(chan error, 10)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs <- repo.Create(ctx, newScreen(fmt.Sprintf("parallel-%02d", i), &parent, base.Add(time.Duration(10+i)*time.Minute)))
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			assert.NoError(t, err)
		}

		children, err := repo.ListChildren(ctx, parent)
		require.NoError(t, err)
		assert.Len(t, children, 12)
	})
}

func runTemplateRepositoryContract(t *testing.T, repo interfaces.TemplateRepository) {
	ctx := context.Background()

	inserted, err := repo.CreateIfAbsent(ctx, &models.Template{Key: "initial", Name: "Initial", Kind: "task", Body: "Begin a story in {{genre}}."})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.CreateIfAbsent(ctx, &models.Template{Key: "initial", Body: "ignored"})
	require.NoError(t, err)
	assert.False(t, inserted)

	tpl, err := repo.Get(ctx, "initial")
	require.NoError(t, err)
	assert.Equal(t, "Begin a story in {{genre}}.", tpl.Body)
	assert.Equal(t, "Initial", tpl.Name)
	assert.False(t, tpl.UpdatedAt.IsZero())

	require.NoError(t, repo.Upsert(ctx, &models.Template{Key: "initial", Name: "Initial", Kind: "task", Body: "Open a {{genre}} tale."}))
	require.NoError(t, repo.Upsert(ctx, &models.Template{Key: "image", Name: "Image", Kind: "image", Body: "Illustrate: {{summary}}"}))

	tpl, err = repo.Get(ctx, "initial")
	require.NoError(t, err)
	assert.Equal(t, "Open a {{genre}} tale.", tpl.Body)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "image", list[0].Key)
	assert.Equal(t, "initial", list[1].Key)

	require.NoError(t, repo.Delete(ctx, "image"))
	assert.ErrorIs(t, repo.Delete(ctx, "image"), models.ErrNotFound)
	_, err = repo.Get(ctx, "image")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func runParameterRepositoryContract(t *testing.T, repo interfaces.ParameterRepository) {
	ctx := context.Background()

	require.NoError(t, repo.CreateMissing(ctx, map[string]string{"MODEL_ID": "gemini-1.5-flash", "TEMPERATURE": "0.8"}))
	require.NoError(t, repo.UpsertMany(ctx, map[string]string{"TEMPERATURE": "0.3", "THEME": "dark"}))
	// Existing keys are left alone by seeding.
	require.NoError(t, repo.CreateMissing(ctx, map[string]string{"TEMPERATURE": "0.8", "MAX_TOKENS": "600"}))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)

	got := make(map[string]string, len(all))
	for _, p := range all {
		got[p.Key] = p.Value
		assert.False(t, p.UpdatedAt.IsZero(), p.Key)
	}
	assert.Equal(t, map[string]string{
		"MODEL_ID":    "gemini-1.5-flash",
		"TEMPERATURE": "0.3",
		"THEME":       "dark",
		"MAX_TOKENS":  "600",
	}, got)

	// Last write wins.
	require.NoError(t, repo.UpsertMany(ctx, map[string]string{"THEME": "light"}))
	all, err = repo.GetAll(ctx)
	require.NoError(t, err)
	for _, p := range all {
		if p.Key == "THEME" {
			assert.Equal(t, "light", p.Value)
		}
	}
}
