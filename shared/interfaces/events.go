package interfaces

import "context"

// ConfigEventKind tells consumers which collection changed.
type ConfigEventKind string

const (
	ConfigEventTemplate   ConfigEventKind = "template"
	ConfigEventParameters ConfigEventKind = "parameters"
)

// ConfigEvent is broadcast after an admin edit so other instances can drop cached state.
type ConfigEvent struct {
	Kind    ConfigEventKind `json:"kind"`
	Keys    []string        `json:"keys"`
	Deleted bool            `json:"deleted,omitempty"`
}

// ConfigEventPublisher broadcasts admin edits.
type ConfigEventPublisher interface {
	PublishConfigEvent(ctx context.Context, event ConfigEvent) error
}
