package editor

import (
	"fmt"

	"github.com/google/uuid"
)

// DefaultHistoryLimit bounds the undo stack when no limit is configured
const DefaultHistoryLimit = 100

// Reducer applies actions to editor state. The zero value uses
// DefaultHistoryLimit.
type Reducer struct {
	HistoryLimit int
}

// Reduce applies action with the default reducer
func Reduce(state State, action Action) (State, error) {
	return Reducer{}.Reduce(state, action)
}

// Reduce returns the state after applying action. The input state is never
// modified; on error it is returned unchanged.
func (r Reducer) Reduce(state State, action Action) (State, error) {
	p := action.Payload
	switch action.Type {
	case ActionAddElement:
		return r.addElement(state, p)
	case ActionUpdateElement:
		if p.ElementDetails == nil {
			return state, fmt.Errorf("%w: elementDetails is required", ErrMissingPayload)
		}
		return r.updateElement(state, *p.ElementDetails)
	case ActionDeleteElement:
		return r.deleteElement(state, p)
	case ActionChangeClickedElement:
		return selectElement(state, p)
	case ActionChangeDevice:
		if !p.Device.IsValid() {
			return state, ErrInvalidDevice
		}
		return withView(state, func(e *Editor) { e.Device = p.Device }), nil
	case ActionTogglePreviewMode:
		return withView(state, func(e *Editor) {
			e.PreviewMode = !e.PreviewMode
			e.LiveMode = !e.LiveMode
		}), nil
	case ActionToggleLiveMode:
		value, err := p.boolValue()
		if err != nil {
			return state, err
		}
		return withView(state, func(e *Editor) {
			if value != nil {
				e.LiveMode = *value
			} else {
				e.LiveMode = !e.LiveMode
			}
		}), nil
	case ActionSetFunnelPageID:
		return withView(state, func(e *Editor) { e.FunnelPageID = p.FunnelPageID }), nil
	case ActionUndo:
		if !state.CanUndo() {
			return state, nil
		}
		return moveHistory(state, state.History.CurrentIndex-1), nil
	case ActionRedo:
		if !state.CanRedo() {
			return state, nil
		}
		return moveHistory(state, state.History.CurrentIndex+1), nil
	case ActionLoadData:
		return loadData(state, p)
	case ActionUpdateElementStyle:
		return r.patchStyle(state, p)
	case ActionUpdateElementContent:
		return r.patchContent(state, p)
	default:
		return state, fmt.Errorf("%w: %q", ErrUnknownAction, action.Type)
	}
}

func (r Reducer) addElement(state State, p Payload) (State, error) {
	if p.ElementDetails == nil || p.ContainerID == "" {
		return state, fmt.Errorf("%w: containerId and elementDetails are required", ErrMissingPayload)
	}
	el := p.ElementDetails.Clone()
	if el.ID == "" {
		el.ID = uuid.NewString()
	}
	if err := ValidateTree([]Element{el}); err != nil {
		return state, err
	}
	for _, id := range collectIDs([]Element{el}) {
		if findElement(state.Editor.Elements, id) != nil {
			return state, fmt.Errorf("%w: %q", ErrDuplicateElement, id)
		}
	}

	elements := cloneElements(state.Editor.Elements)
	container := findElement(elements, p.ContainerID)
	if container == nil {
		return state, fmt.Errorf("%w: %q", ErrContainerNotFound, p.ContainerID)
	}
	if container.Content.IsLeaf() {
		return state, fmt.Errorf("%w: %q", ErrNotAContainer, p.ContainerID)
	}
	container.Content = ListContent(append(container.Content.Children(), el)...)

	next := state.Editor.clone()
	next.Elements = elements
	return r.push(state, next), nil
}

func (r Reducer) updateElement(state State, el Element) (State, error) {
	if el.ID == "" {
		return state, fmt.Errorf("%w: element id is required", ErrMissingPayload)
	}
	el = el.Clone()
	if err := ValidateTree([]Element{el}); err != nil {
		return state, err
	}

	elements := cloneElements(state.Editor.Elements)
	target := findElement(elements, el.ID)
	if target == nil {
		return state, fmt.Errorf("%w: %q", ErrElementNotFound, el.ID)
	}
	*target = el
	if err := ValidateTree(elements); err != nil {
		return state, err
	}

	next := state.Editor.clone()
	next.Elements = elements
	if state.Editor.SelectedElement.ID == el.ID {
		next.SelectedElement = el.Clone()
	} else {
		next.SelectedElement = EmptyElement()
	}
	return r.push(state, next), nil
}

func (r Reducer) deleteElement(state State, p Payload) (State, error) {
	if p.ElementDetails == nil || p.ElementDetails.ID == "" {
		return state, fmt.Errorf("%w: elementDetails.id is required", ErrMissingPayload)
	}
	id := p.ElementDetails.ID
	if id == BodyID {
		return state, ErrCannotDeleteBody
	}

	elements, removed := removeElement(cloneElements(state.Editor.Elements), id)
	if !removed {
		return state, fmt.Errorf("%w: %q", ErrElementNotFound, id)
	}

	next := state.Editor.clone()
	next.Elements = elements
	if !next.SelectedElement.IsEmpty() && findElement(elements, next.SelectedElement.ID) == nil {
		next.SelectedElement = EmptyElement()
	}
	return r.push(state, next), nil
}

func selectElement(state State, p Payload) (State, error) {
	if p.ElementDetails == nil || p.ElementDetails.ID == "" {
		return withView(state, func(e *Editor) { e.SelectedElement = EmptyElement() }), nil
	}
	found := findElement(state.Editor.Elements, p.ElementDetails.ID)
	if found == nil {
		return state, fmt.Errorf("%w: %q", ErrElementNotFound, p.ElementDetails.ID)
	}
	selected := found.Clone()
	return withView(state, func(e *Editor) { e.SelectedElement = selected }), nil
}

func loadData(state State, p Payload) (State, error) {
	elements := cloneElements(p.Elements)
	if len(elements) == 0 {
		elements = []Element{NewBody()}
	}
	if err := ValidateTree(elements); err != nil {
		return state, err
	}

	next := newEditor(state.Editor.FunnelPageID)
	next.Elements = elements
	next.LiveMode = p.WithLive
	return State{
		Editor:  next,
		History: History{Snapshots: []Editor{next.clone()}},
	}, nil
}

func (r Reducer) patchStyle(state State, p Payload) (State, error) {
	if p.Property == "" {
		return state, fmt.Errorf("%w: property is required", ErrMissingPayload)
	}
	value, err := p.stringValue()
	if err != nil {
		return state, err
	}
	el, err := selectedFromTree(state)
	if err != nil {
		return state, err
	}

	styles := make(Styles, len(el.Styles)+1)
	for k, v := range el.Styles {
		styles[k] = v
	}
	styles[p.Property] = RewriteStyleValue(p.Property, value)
	el.Styles = styles
	return r.updateElement(state, el)
}

func (r Reducer) patchContent(state State, p Payload) (State, error) {
	if p.Property == "" {
		return state, fmt.Errorf("%w: property is required", ErrMissingPayload)
	}
	value, err := p.stringValue()
	if err != nil {
		return state, err
	}
	el, err := selectedFromTree(state)
	if err != nil {
		return state, err
	}
	if !el.Content.IsLeaf() {
		return state, fmt.Errorf("%w: %q", ErrContentNotLeaf, el.ID)
	}

	leaf := make(Leaf, len(el.Content.Leaf())+1)
	for k, v := range el.Content.Leaf() {
		leaf[k] = v
	}
	leaf[p.Property] = RewriteContentValue(p.Property, value)
	el.Content = LeafContent(leaf)
	return r.updateElement(state, el)
}

// selectedFromTree returns the live tree copy of the selected element
func selectedFromTree(state State) (Element, error) {
	sel := state.Editor.SelectedElement
	if sel.IsEmpty() {
		return Element{}, ErrNoSelection
	}
	found := findElement(state.Editor.Elements, sel.ID)
	if found == nil {
		return Element{}, fmt.Errorf("%w: %q", ErrElementNotFound, sel.ID)
	}
	return found.Clone(), nil
}

// push records next as a new snapshot, dropping any redo tail
func (r Reducer) push(state State, next Editor) State {
	limit := r.HistoryLimit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	keep := state.History.CurrentIndex + 1
	if keep > len(state.History.Snapshots) {
		keep = len(state.History.Snapshots)
	}
	snapshots := make([]Editor, 0, keep+1)
	snapshots = append(snapshots, state.History.Snapshots[:keep]...)
	snapshots = append(snapshots, next.clone())
	if len(snapshots) > limit {
		snapshots = snapshots[len(snapshots)-limit:]
	}

	return State{
		Editor:  next,
		History: History{Snapshots: snapshots, CurrentIndex: len(snapshots) - 1},
	}
}

// withView applies a view-only change to the current editor and the current
// snapshot without adding an undo step
func withView(state State, mutate func(*Editor)) State {
	next := state.Editor.clone()
	mutate(&next)

	snapshots := make([]Editor, len(state.History.Snapshots))
	copy(snapshots, state.History.Snapshots)
	if idx := state.History.CurrentIndex; idx >= 0 && idx < len(snapshots) {
		snapshots[idx] = next.clone()
	}
	return State{
		Editor:  next,
		History: History{Snapshots: snapshots, CurrentIndex: state.History.CurrentIndex},
	}
}

// moveHistory restores the document at idx and keeps the current view
func moveHistory(state State, idx int) State {
	restored := state.History.Snapshots[idx].clone().withViewOf(state.Editor)
	return State{
		Editor:  restored,
		History: History{Snapshots: state.History.Snapshots, CurrentIndex: idx},
	}
}

// findElement returns a pointer into elements for id, searching depth-first
func findElement(elements []Element, id string) *Element {
	for i := range elements {
		if elements[i].ID == id {
			return &elements[i]
		}
		if children := elements[i].Content.Children(); len(children) > 0 {
			if found := findElement(children, id); found != nil {
				return found
			}
		}
	}
	return nil
}

// removeElement drops the element with id from the tree
func removeElement(elements []Element, id string) ([]Element, bool) {
	out := make([]Element, 0, len(elements))
	removed := false
	for _, e := range elements {
		if e.ID == id {
			removed = true
			continue
		}
		if !e.Content.IsLeaf() {
			children, ok := removeElement(e.Content.Children(), id)
			if ok {
				removed = true
				e.Content = ListContent(children...)
			}
		}
		out = append(out, e)
	}
	return out, removed
}

func collectIDs(elements []Element) []string {
	var ids []string
	for _, e := range elements {
		ids = append(ids, e.ID)
		ids = append(ids, collectIDs(e.Content.Children())...)
	}
	return ids
}
