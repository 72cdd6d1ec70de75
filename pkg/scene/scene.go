// Package scene decodes scene documents (YAML or JSON) into domain.Scene.
//
// Attribute types may be written either as a mapping ({base: double, tuple_count: 3})
// or in the short form "double[3]".
package scene

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/aretw0/morenodes/pkg/domain"
	"github.com/aretw0/morenodes/pkg/ports"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format is a scene document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the format from a file extension. Anything but .json is YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Decode parses a scene document.
func Decode(data []byte, format Format) (*domain.Scene, error) {
	var raw map[string]any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to parse scene json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse scene yaml: %w", err)
		}
	}
	return FromMap(raw)
}

// DecodeFile reads and parses the scene at path. A scene without a name is
// named after the file.
func DecodeFile(path string) (*domain.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}
	s, err := Decode(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// FromMap decodes an already-parsed document. Unknown keys are rejected.
func FromMap(raw map[string]any) (*domain.Scene, error) {
	var s domain.Scene
	if err := decode(raw, &s); err != nil {
		return nil, err
	}
	if err := Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DecodeAttributes decodes a list of attribute specs, as found under a node's "dynamic" key.
func DecodeAttributes(raw []any) ([]domain.AttributeSpec, error) {
	var specs []domain.AttributeSpec
	if err := decode(raw, &specs); err != nil {
		return nil, err
	}
	return specs, nil
}

// DecodeConnections decodes a list of {from, to} mappings.
func DecodeConnections(raw []any) ([]domain.Connection, error) {
	var conns []domain.Connection
	if err := decode(raw, &conns); err != nil {
		return nil, err
	}
	return conns, nil
}

// Validate checks node paths are set and unique, every node has a type,
// and connection endpoints are well formed.
func Validate(s *domain.Scene) error {
	seen := make(map[string]bool, len(s.Nodes))
	for i, n := range s.Nodes {
		if n.Path == "" {
			return fmt.Errorf("node %d: path is required", i)
		}
		if seen[n.Path] {
			return fmt.Errorf("%w: %s", domain.ErrNodeExists, n.Path)
		}
		seen[n.Path] = true
		if n.Type == "" {
			return fmt.Errorf("node %s: type is required", n.Path)
		}
		for _, spec := range n.Dynamic {
			if _, err := spec.Port(); err != nil {
				return fmt.Errorf("node %s: %w", n.Path, err)
			}
		}
	}
	for _, c := range s.Connections {
		if _, err := domain.ParseEndpoint(c.From); err != nil {
			return fmt.Errorf("connection from: %w", err)
		}
		if _, err := domain.ParseEndpoint(c.To); err != nil {
			return fmt.Errorf("connection to: %w", err)
		}
	}
	if s.Steps < 0 {
		return fmt.Errorf("steps must not be negative, got %d", s.Steps)
	}
	return nil
}

func decode(input, output any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  attributeTypeHook,
		ErrorUnused: true,
		Result:      output,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("invalid scene: %w", err)
	}
	return nil
}

var attributeType = reflect.TypeOf(domain.AttributeType{})

func attributeTypeHook(from, to reflect.Type, data any) (any, error) {
	if to != attributeType || from.Kind() != reflect.String {
		return data, nil
	}
	return domain.ParseAttributeType(data.(string))
}

// FileLoader implements ports.SceneLoader over a single scene file.
// The file is read on every Load.
type FileLoader struct {
	path string
}

var _ ports.SceneLoader = (*FileLoader)(nil)

// NewFileLoader creates a loader for the scene file at path.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) Load(ctx context.Context) (*domain.Scene, error) {
	return DecodeFile(l.path)
}
