package editor

import (
	"fmt"

	"github.com/lumio/backend/internal/domain/shared"
)

// ValidateTree checks the structural rules of a page document: every element
// has an id, ids are unique, and content kind matches the element type.
func ValidateTree(elements []Element) error {
	seen := make(map[string]struct{})
	for i := range elements {
		if err := validateElement(elements[i], seen); err != nil {
			return err
		}
	}
	return nil
}

func validateElement(e Element, seen map[string]struct{}) error {
	if e.ID == "" {
		return wrapTree("element without id")
	}
	if _, dup := seen[e.ID]; dup {
		return wrapTree(fmt.Sprintf("duplicate element id %q", e.ID))
	}
	seen[e.ID] = struct{}{}

	if e.Type != "" && !e.Type.IsKnown() {
		return wrapTree(fmt.Sprintf("element %q has unknown type %q", e.ID, e.Type))
	}
	if e.Type.HasLeafContent() != e.Content.IsLeaf() {
		return wrapTree(fmt.Sprintf("element %q of type %q has the wrong content kind", e.ID, e.Type))
	}
	for _, child := range e.Content.Children() {
		if err := validateElement(child, seen); err != nil {
			return err
		}
	}
	return nil
}

func wrapTree(detail string) error {
	return shared.NewDomainError(ErrInvalidTree.Code, ErrInvalidTree.Message+": "+detail)
}
