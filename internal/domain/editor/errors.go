package editor

import "github.com/lumio/backend/internal/domain/shared"

// Editor errors
var (
	ErrUnknownAction     = shared.NewDomainError("EDITOR_UNKNOWN_ACTION", "Unknown editor action")
	ErrMissingPayload    = shared.NewDomainError("EDITOR_MISSING_PAYLOAD", "Action payload is incomplete")
	ErrElementNotFound   = shared.NewDomainError("EDITOR_ELEMENT_NOT_FOUND", "Element not found in page")
	ErrContainerNotFound = shared.NewDomainError("EDITOR_CONTAINER_NOT_FOUND", "Container not found in page")
	ErrNotAContainer     = shared.NewDomainError("EDITOR_NOT_A_CONTAINER", "Target element does not accept children")
	ErrContentNotLeaf    = shared.NewDomainError("EDITOR_CONTENT_NOT_LEAF", "Content fields can only be set on text, link and video elements")
	ErrNoSelection       = shared.NewDomainError("EDITOR_NO_SELECTION", "Select an element first")
	ErrCannotDeleteBody  = shared.NewDomainError("EDITOR_CANNOT_DELETE_BODY", "The page body cannot be deleted")
	ErrDuplicateElement  = shared.NewDomainError("EDITOR_DUPLICATE_ELEMENT", "Element id already exists in page")
	ErrInvalidDevice     = shared.NewDomainError("EDITOR_INVALID_DEVICE", "Device must be Desktop, Tablet or Mobile")
	ErrInvalidTree       = shared.NewDomainError("EDITOR_INVALID_TREE", "Page content is not a valid element tree")
)
