package editor

import (
	"encoding/json"
	"fmt"
)

// ActionType names an editor action
type ActionType string

const (
	ActionAddElement           ActionType = "ADD_ELEMENT"
	ActionUpdateElement        ActionType = "UPDATE_ELEMENT"
	ActionDeleteElement        ActionType = "DELETE_ELEMENT"
	ActionChangeClickedElement ActionType = "CHANGE_CLICKED_ELEMENT"
	ActionChangeDevice         ActionType = "CHANGE_DEVICE"
	ActionTogglePreviewMode    ActionType = "TOGGLE_PREVIEW_MODE"
	ActionToggleLiveMode       ActionType = "TOGGLE_LIVE_MODE"
	ActionRedo                 ActionType = "REDO"
	ActionUndo                 ActionType = "UNDO"
	ActionLoadData             ActionType = "LOAD_DATA"
	ActionSetFunnelPageID      ActionType = "SET_FUNNELPAGE_ID"
	ActionUpdateElementStyle   ActionType = "UPDATE_ELEMENT_STYLE"
	ActionUpdateElementContent ActionType = "UPDATE_ELEMENT_CONTENT"
)

// Payload carries the arguments of every action type. Each action reads
// only the fields it needs.
type Payload struct {
	ContainerID    string          `json:"containerId,omitempty"`
	ElementDetails *Element        `json:"elementDetails,omitempty"`
	Device         Device          `json:"device,omitempty"`
	Elements       []Element       `json:"elements,omitempty"`
	WithLive       bool            `json:"withLive,omitempty"`
	FunnelPageID   string          `json:"funnelPageId,omitempty"`
	Property       string          `json:"property,omitempty"`
	Value          json.RawMessage `json:"value,omitempty"`
}

// Action is a reducer input
type Action struct {
	Type    ActionType `json:"type"`
	Payload Payload    `json:"payload"`
}

// boolValue decodes Value as an optional bool (TOGGLE_LIVE_MODE)
func (p Payload) boolValue() (*bool, error) {
	if len(p.Value) == 0 || string(p.Value) == "null" {
		return nil, nil
	}
	var b bool
	if err := json.Unmarshal(p.Value, &b); err != nil {
		return nil, fmt.Errorf("%w: value must be a boolean", ErrMissingPayload)
	}
	return &b, nil
}

// stringValue decodes Value as a string (style and content patches).
// Numbers are accepted and kept in their JSON text form.
func (p Payload) stringValue() (string, error) {
	if len(p.Value) == 0 {
		return "", fmt.Errorf("%w: value is required", ErrMissingPayload)
	}
	var s string
	if err := json.Unmarshal(p.Value, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(p.Value, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("%w: value must be a string", ErrMissingPayload)
}

func rawString(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

// AddElement appends el to the container with containerID
func AddElement(containerID string, el Element) Action {
	return Action{Type: ActionAddElement, Payload: Payload{ContainerID: containerID, ElementDetails: &el}}
}

// UpdateElement replaces the element with el.ID
func UpdateElement(el Element) Action {
	return Action{Type: ActionUpdateElement, Payload: Payload{ElementDetails: &el}}
}

// DeleteElement removes the element with el.ID
func DeleteElement(el Element) Action {
	return Action{Type: ActionDeleteElement, Payload: Payload{ElementDetails: &el}}
}

// SelectElement selects el; nil clears the selection
func SelectElement(el *Element) Action {
	return Action{Type: ActionChangeClickedElement, Payload: Payload{ElementDetails: el}}
}

// ChangeDevice switches the preview viewport
func ChangeDevice(d Device) Action {
	return Action{Type: ActionChangeDevice, Payload: Payload{Device: d}}
}

// TogglePreview flips preview mode
func TogglePreview() Action {
	return Action{Type: ActionTogglePreviewMode}
}

// ToggleLive flips live mode, or sets it when value is given
func ToggleLive(value *bool) Action {
	a := Action{Type: ActionToggleLiveMode}
	if value != nil {
		b, _ := json.Marshal(*value)
		a.Payload.Value = b
	}
	return a
}

// Undo steps back one snapshot
func Undo() Action { return Action{Type: ActionUndo} }

// Redo steps forward one snapshot
func Redo() Action { return Action{Type: ActionRedo} }

// LoadData replaces the document
func LoadData(elements []Element, withLive bool) Action {
	return Action{Type: ActionLoadData, Payload: Payload{Elements: elements, WithLive: withLive}}
}

// SetFunnelPageID binds the state to a funnel page
func SetFunnelPageID(id string) Action {
	return Action{Type: ActionSetFunnelPageID, Payload: Payload{FunnelPageID: id}}
}

// PatchStyle sets one style property on the selected element
func PatchStyle(property, value string) Action {
	return Action{Type: ActionUpdateElementStyle, Payload: Payload{Property: property, Value: rawString(value)}}
}

// PatchContent sets one content field on the selected element
func PatchContent(property, value string) Action {
	return Action{Type: ActionUpdateElementContent, Payload: Payload{Property: property, Value: rawString(value)}}
}
