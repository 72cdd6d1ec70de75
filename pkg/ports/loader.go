package ports

import (
	"context"

	"github.com/aretw0/morenodes/pkg/domain"
)

// SceneLoader defines how a scene description is read from its source (a file, a document folder).
type SceneLoader interface {
	Load(ctx context.Context) (*domain.Scene, error)
}
