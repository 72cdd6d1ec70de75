package memory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/morenodes/pkg/domain"
)

// Loader implements ports.SceneLoader over a scene held in memory.
type Loader struct {
	raw []byte
}

// NewLoader creates a loader returning copies of scene.
func NewLoader(scene domain.Scene) (*Loader, error) {
	raw, err := json.Marshal(scene)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scene %q: %w", scene.Name, err)
	}
	return &Loader{raw: raw}, nil
}

// NewLoaderFromJSON creates a loader from a JSON scene document.
func NewLoaderFromJSON(data []byte) (*Loader, error) {
	var scene domain.Scene
	if err := json.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("invalid scene document: %w", err)
	}
	return &Loader{raw: append([]byte(nil), data...)}, nil
}

// Load returns a fresh copy of the scene.
func (l *Loader) Load(ctx context.Context) (*domain.Scene, error) {
	var scene domain.Scene
	if err := json.Unmarshal(l.raw, &scene); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	return &scene, nil
}
