package imaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	ErrImageGenerationFailed = errors.New("image generation failed")
	ErrImageSaveFailed       = errors.New("image save failed")
)

// Backend renders one image for a prompt and returns its public URL.
type Backend interface {
	Generate(ctx context.Context, prompt, ratio string) (string, error)
}

// HTTPBackendConfig configures HTTPBackend.
type HTTPBackendConfig struct {
	BaseURL       string
	SavePath      string
	PublicBaseURL string
	// Timeout bounds one Generate call, including the wait for the rate limiter.
	Timeout time.Duration
	// RateInterval is the minimum spacing between outbound requests. Zero disables limiting.
	RateInterval time.Duration
}

// HTTPBackend posts {prompt, ratio} to <BaseURL>/generate and stores the returned bytes on disk.
type HTTPBackend struct {
	cfg     HTTPBackendConfig
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	Ratio  string `json:"ratio"`
}

func NewHTTPBackend(cfg HTTPBackendConfig, logger *zap.Logger) (*HTTPBackend, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("image backend URL is not configured")
	}
	if cfg.SavePath == "" {
		return nil, errors.New("image save path is not configured")
	}
	if err := os.MkdirAll(cfg.SavePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.RateInterval), 1)
	}

	return &HTTPBackend{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		logger:  logger.Named("ImageBackend"),
	}, nil
}

func (b *HTTPBackend) Generate(ctx context.Context, prompt, ratio string) (string, error) {
	if b.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.Timeout)
		defer cancel()
	}

	if err := b.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limiter: %v", ErrImageGenerationFailed, err)
	}

	data, err := b.call(ctx, prompt, ratio)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageGenerationFailed, err)
	}

	fileName := uuid.NewSHA1(uuid.NameSpaceURL, []byte(prompt+"|"+ratio)).String() + ".jpg"
	path := filepath.Join(b.cfg.SavePath, fileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageSaveFailed, err)
	}
	b.logger.Debug("Image saved", zap.String("path", path), zap.Int("sizeBytes", len(data)))

	return strings.TrimSuffix(b.cfg.PublicBaseURL, "/") + "/" + fileName, nil
}

func (b *HTTPBackend) call(ctx context.Context, prompt, ratio string) ([]byte, error) {
	body, err := json.Marshal(generateRequest{Prompt: prompt, Ratio: ratio})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := strings.TrimSuffix(b.cfg.BaseURL, "/") + "/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/*")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend returned status %d: %s", resp.StatusCode, truncate(data, 200))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("backend returned empty image")
	}
	return data, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
