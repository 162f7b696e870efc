// Package schema validates persisted page documents against the element-tree
// JSON schema.
package schema

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/lumio/backend/internal/domain/shared"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed element_tree.schema.json
var elementTreeSchema string

// maxReported caps how many violations are listed in an error message
const maxReported = 5

// ElementTreeValidator checks raw page content. It is safe for concurrent
// use.
type ElementTreeValidator struct {
	schema *gojsonschema.Schema
}

// NewElementTreeValidator compiles the embedded schema
func NewElementTreeValidator() (*ElementTreeValidator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(elementTreeSchema))
	if err != nil {
		return nil, fmt.Errorf("compile element tree schema: %w", err)
	}
	return &ElementTreeValidator{schema: s}, nil
}

// MustElementTreeValidator is NewElementTreeValidator that panics on error
func MustElementTreeValidator() *ElementTreeValidator {
	v, err := NewElementTreeValidator()
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks raw. Blank content is a blank page and always valid.
func (v *ElementTreeValidator) Validate(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	result, err := v.schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return shared.NewDomainError(shared.ErrInvalidInput.Code, "page content is not valid JSON: "+err.Error())
	}
	if result.Valid() {
		return nil
	}

	errs := result.Errors()
	msgs := make([]string, 0, min(len(errs), maxReported))
	for _, e := range errs[:min(len(errs), maxReported)] {
		msgs = append(msgs, e.String())
	}
	if len(errs) > maxReported {
		msgs = append(msgs, fmt.Sprintf("and %d more", len(errs)-maxReported))
	}
	return shared.NewDomainError(shared.ErrInvalidInput.Code, "page content does not match the element schema: "+strings.Join(msgs, "; "))
}
