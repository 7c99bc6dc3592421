// Package story runs the start and advance pipelines and reads story trees back.
package story

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cyoa-server/shared/interfaces"
	"cyoa-server/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxLineageDepth bounds parent walks.
const MaxLineageDepth = 1000

// ErrLineageTooDeep is returned when a parent chain is longer than MaxLineageDepth or loops.
var ErrLineageTooDeep = errors.New("screen lineage too deep or cyclic")

type ParameterSource interface {
	Get(ctx context.Context) models.GenerationParameters
}

type PromptComposer interface {
	BuildInitialPrompt(ctx context.Context, genre string) string
	BuildContinuationPrompt(ctx context.Context, genre, parentText, choice string) string
}

type SceneGenerator interface {
	Generate(ctx context.Context, prompt string, params models.GenerationParameters) models.Scene
}

type ImageGenerator interface {
	GenerateImages(ctx context.Context, hint string, params models.GenerationParameters) models.ImageSet
}

// Service is the only writer of screens.
type Service struct {
	screens  interfaces.ScreenRepository
	params   ParameterSource
	composer PromptComposer
	scenes   SceneGenerator
	images   ImageGenerator
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

func NewService(
	screens interfaces.ScreenRepository,
	params ParameterSource,
	composer PromptComposer,
	scenes SceneGenerator,
	images ImageGenerator,
	logger *zap.Logger,
) *Service {
	return &Service{
		screens:  screens,
		params:   params,
		composer: composer,
		scenes:   scenes,
		images:   images,
		logger:   logger.Named("StoryService"),
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// StartStory generates and stores the root screen of a new story.
func (s *Service) StartStory(ctx context.Context, genre string) (*models.Screen, error) {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return nil, models.ErrMissingGenre
	}
	// Generation is slow; a client that gives up should not lose the screen.
	ctx = context.WithoutCancel(ctx)

	params := s.params.Get(ctx)
	prompt := s.composer.BuildInitialPrompt(ctx, genre)
	return s.buildAndStore(ctx, nil, genre, prompt, params)
}

// AdvanceStory generates and stores a child of parentID for the given choice.
// The child inherits the parent's genre.
func (s *Service) AdvanceStory(ctx context.Context, parentID, choice string) (*models.Screen, error) {
	parentID = strings.TrimSpace(parentID)
	choice = strings.TrimSpace(choice)
	if parentID == "" || choice == "" {
		return nil, models.ErrMissingFields
	}
	ctx = context.WithoutCancel(ctx)

	parent, err := s.screens.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", models.ErrParentNotFound, parentID)
		}
		return nil, fmt.Errorf("failed to load parent screen: %w", err)
	}

	params := s.params.Get(ctx)
	prompt := s.composer.BuildContinuationPrompt(ctx, parent.Genre, parent.StoryText, choice)
	return s.buildAndStore(ctx, &parent.ScreenID, parent.Genre, prompt, params)
}

func (s *Service) buildAndStore(ctx context.Context, parentID *string, genre, prompt string, params models.GenerationParameters) (*models.Screen, error) {
	scene := s.scenes.Generate(ctx, prompt, params)

	hint := scene.ImagePrompt
	if strings.TrimSpace(hint) == "" {
		hint = scene.StoryText
	}
	images := s.images.GenerateImages(ctx, hint, params)

	screen := &models.Screen{
		ScreenID:     s.newID(),
		Genre:        genre,
		StoryText:    scene.StoryText,
		Choices:      scene.Choices,
		LandscapeURL: images.LandscapeURL,
		PortraitURL:  images.PortraitURL,
		// Both SQL backends keep microseconds; truncating keeps reads equal to the returned value.
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}
	if parentID != nil {
		p := *parentID
		screen.ParentID = &p
	}

	if err := s.screens.Create(ctx, screen); err != nil {
		s.logger.Error("Failed to store screen", zap.String("screenID", screen.ScreenID), zap.Error(err))
		if errors.Is(err, models.ErrStoreWrite) || errors.Is(err, models.ErrDuplicateScreen) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", models.ErrStoreWrite, err)
	}

	s.logger.Info("Screen created",
		zap.String("screenID", screen.ScreenID),
		zap.Stringp("parentID", screen.ParentID),
		zap.String("genre", genre),
	)
	return screen, nil
}

// GetScreen returns models.ErrNotFound for unknown ids.
func (s *Service) GetScreen(ctx context.Context, id string) (*models.Screen, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, models.ErrNotFound
	}
	return s.screens.GetByID(ctx, id)
}

// Lineage returns the path from the story root to id, root first.
func (s *Service) Lineage(ctx context.Context, id string) ([]*models.Screen, error) {
	screen, err := s.GetScreen(ctx, id)
	if err != nil {
		return nil, err
	}

	path := []*models.Screen{screen}
	seen := map[string]struct{}{screen.ScreenID: {}}
	for !screen.IsRoot() {
		if len(path) >= MaxLineageDepth {
			return nil, ErrLineageTooDeep
		}
		if _, dup := seen[*screen.ParentID]; dup {
			return nil, ErrLineageTooDeep
		}
		screen, err = s.screens.GetByID(ctx, *screen.ParentID)
		if err != nil {
			return nil, fmt.Errorf("failed to walk lineage: %w", err)
		}
		seen[screen.ScreenID] = struct{}{}
		path = append(path, screen)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// Children lists the stored continuations of id, oldest first.
func (s *Service) Children(ctx context.Context, id string) ([]*models.Screen, error) {
	if _, err := s.GetScreen(ctx, id); err != nil {
		return nil, err
	}
	return s.screens.ListChildren(ctx, id)
}
