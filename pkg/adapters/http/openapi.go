package http

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var rawSpec []byte

var (
	specOnce sync.Once
	specDoc  *openapi3.T
	specErr  error
)

// errNoSchema is returned when an operation declares no JSON request body.
var errNoSchema = errors.New("no request schema")

// Spec returns the parsed and validated OpenAPI document describing the API.
func Spec() (*openapi3.T, error) {
	specOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(rawSpec)
		if err != nil {
			specErr = fmt.Errorf("failed to load openapi spec: %w", err)
			return
		}
		if err := doc.Validate(context.Background()); err != nil {
			specErr = fmt.Errorf("invalid openapi spec: %w", err)
			return
		}
		specDoc = doc
	})
	return specDoc, specErr
}

// validateBody checks a decoded JSON body against the request schema of the
// operation at path and method.
func validateBody(path, method string, body any) error {
	doc, err := Spec()
	if err != nil {
		return err
	}
	item := doc.Paths.Find(path)
	if item == nil {
		return fmt.Errorf("%w: %s", errNoSchema, path)
	}
	op := item.GetOperation(method)
	if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil {
		return fmt.Errorf("%w: %s %s", errNoSchema, method, path)
	}
	media := op.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return fmt.Errorf("%w: %s %s", errNoSchema, method, path)
	}
	if err := media.Schema.Value.VisitJSON(body); err != nil {
		return errors.New(firstLine(err.Error()))
	}
	return nil
}

// firstLine drops the schema dump kin-openapi appends to validation errors.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
