package editor

// Device is the viewport the page is previewed in
type Device string

const (
	DeviceDesktop Device = "Desktop"
	DeviceTablet  Device = "Tablet"
	DeviceMobile  Device = "Mobile"
)

// IsValid reports whether d is a known device
func (d Device) IsValid() bool {
	return d == DeviceDesktop || d == DeviceTablet || d == DeviceMobile
}

// Editor is one snapshot of the editing surface
type Editor struct {
	LiveMode        bool      `json:"liveMode"`
	Elements        []Element `json:"elements"`
	SelectedElement Element   `json:"selectedElement"`
	Device          Device    `json:"device"`
	PreviewMode     bool      `json:"previewMode"`
	FunnelPageID    string    `json:"funnelPageId"`
}

// History is the undo/redo stack of document snapshots
type History struct {
	Snapshots    []Editor `json:"history"`
	CurrentIndex int      `json:"currentIndex"`
}

// State is the full editor state a session holds
type State struct {
	Editor  Editor  `json:"editor"`
	History History `json:"history"`
}

func newEditor(funnelPageID string) Editor {
	return Editor{
		Elements:        []Element{NewBody()},
		SelectedElement: EmptyElement(),
		Device:          DeviceDesktop,
		FunnelPageID:    funnelPageID,
	}
}

// NewState returns a blank page with a single-entry history
func NewState(funnelPageID string) State {
	ed := newEditor(funnelPageID)
	return State{
		Editor:  ed,
		History: History{Snapshots: []Editor{ed.clone()}},
	}
}

// CanUndo reports whether an earlier snapshot exists
func (s State) CanUndo() bool {
	return s.History.CurrentIndex > 0
}

// CanRedo reports whether a later snapshot exists
func (s State) CanRedo() bool {
	return s.History.CurrentIndex < len(s.History.Snapshots)-1
}

// FindElement returns a copy of the element with id, searching the whole tree
func (s State) FindElement(id string) (Element, bool) {
	e := findElement(s.Editor.Elements, id)
	if e == nil {
		return Element{}, false
	}
	return e.Clone(), true
}

func (e Editor) clone() Editor {
	out := e
	out.Elements = cloneElements(e.Elements)
	out.SelectedElement = e.SelectedElement.Clone()
	return out
}

// withViewOf copies the view settings (device, preview, live, page id) of
// other onto a document snapshot
func (e Editor) withViewOf(other Editor) Editor {
	e.Device = other.Device
	e.PreviewMode = other.PreviewMode
	e.LiveMode = other.LiveMode
	e.FunnelPageID = other.FunnelPageID
	return e
}
