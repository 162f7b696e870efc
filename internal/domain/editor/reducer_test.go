package editor

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var elementCmp = []cmp.Option{cmp.AllowUnexported(Content{}), cmpopts.EquateEmpty()}

func textElement(id, text string) Element {
	return Element{
		ID:      id,
		Name:    "Text",
		Type:    TypeText,
		Styles:  Styles{"color": "black"},
		Content: LeafContent(Leaf{ContentInnerText: text}),
	}
}

func containerElement(id string, children ...Element) Element {
	return Element{
		ID:      id,
		Name:    "Container",
		Type:    TypeContainer,
		Styles:  Styles{},
		Content: ListContent(children...),
	}
}

func mustReduce(t *testing.T, s State, a Action) State {
	t.Helper()
	next, err := Reduce(s, a)
	require.NoError(t, err)
	return next
}

func TestNewState(t *testing.T) {
	s := NewState("page-1")

	require.Len(t, s.Editor.Elements, 1)
	assert.Equal(t, BodyID, s.Editor.Elements[0].ID)
	assert.True(t, s.Editor.SelectedElement.IsEmpty())
	assert.Equal(t, DeviceDesktop, s.Editor.Device)
	assert.Equal(t, "page-1", s.Editor.FunnelPageID)
	assert.Len(t, s.History.Snapshots, 1)
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
}

func TestReduce_AddElement(t *testing.T) {
	t.Run("appends to container and pushes history", func(t *testing.T) {
		s := mustReduce(t, NewState(""), AddElement(BodyID, containerElement("c1")))
		s = mustReduce(t, s, AddElement("c1", textElement("t1", "hello")))

		found, ok := s.FindElement("t1")
		require.True(t, ok)
		assert.Equal(t, "hello", found.Content.Leaf()[ContentInnerText])
		assert.Len(t, s.History.Snapshots, 3)
		assert.Equal(t, 2, s.History.CurrentIndex)
	})

	t.Run("assigns an id when missing", func(t *testing.T) {
		el := textElement("", "x")
		s := mustReduce(t, NewState(""), AddElement(BodyID, el))
		children := s.Editor.Elements[0].Content.Children()
		require.Len(t, children, 1)
		assert.NotEmpty(t, children[0].ID)
	})

	t.Run("unknown container", func(t *testing.T) {
		s := NewState("")
		next, err := Reduce(s, AddElement("missing", textElement("t1", "x")))
		assert.ErrorIs(t, err, ErrContainerNotFound)
		assert.Equal(t, s, next)
	})

	t.Run("leaf is not a container", func(t *testing.T) {
		s := mustReduce(t, NewState(""), AddElement(BodyID, textElement("t1", "x")))
		_, err := Reduce(s, AddElement("t1", textElement("t2", "y")))
		assert.ErrorIs(t, err, ErrNotAContainer)
	})

	t.Run("duplicate id", func(t *testing.T) {
		s := mustReduce(t, NewState(""), AddElement(BodyID, textElement("t1", "x")))
		_, err := Reduce(s, AddElement(BodyID, textElement("t1", "y")))
		assert.ErrorIs(t, err, ErrDuplicateElement)
	})

	t.Run("leaf type with list content is rejected", func(t *testing.T) {
		bad := Element{ID: "t1", Type: TypeText, Content: ListContent()}
		_, err := Reduce(NewState(""), AddElement(BodyID, bad))
		assert.ErrorIs(t, err, ErrInvalidTree)
	})

	t.Run("input state is not mutated", func(t *testing.T) {
		s := mustReduce(t, NewState(""), AddElement(BodyID, containerElement("c1")))
		before := s.Editor.clone()
		_ = mustReduce(t, s, AddElement("c1", textElement("t1", "x")))
		assert.True(t, cmp.Equal(before, s.Editor, elementCmp...), cmp.Diff(before, s.Editor, elementCmp...))
	})
}

func TestReduce_UpdateElement(t *testing.T) {
	base := mustReduce(t, NewState(""), AddElement(BodyID, textElement("t1", "x")))

	t.Run("replaces by id", func(t *testing.T) {
		s := mustReduce(t, base, UpdateElement(textElement("t1", "changed")))
		found, _ := s.FindElement("t1")
		assert.Equal(t, "changed", found.Content.Leaf()[ContentInnerText])
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := Reduce(base, UpdateElement(textElement("nope", "x")))
		assert.ErrorIs(t, err, ErrElementNotFound)
	})

	t.Run("refreshes selection of the updated element", func(t *testing.T) {
		sel := textElement("t1", "x")
		s := mustReduce(t, base, SelectElement(&sel))
		s = mustReduce(t, s, UpdateElement(textElement("t1", "new")))
		assert.Equal(t, "new", s.Editor.SelectedElement.Content.Leaf()[ContentInnerText])
	})

	t.Run("clears selection when another element is updated", func(t *testing.T) {
		s := mustReduce(t, base, AddElement(BodyID, textElement("t2", "y")))
		sel := textElement("t2", "y")
		s = mustReduce(t, s, SelectElement(&sel))
		s = mustReduce(t, s, UpdateElement(textElement("t1", "z")))
		assert.True(t, s.Editor.SelectedElement.IsEmpty())
	})
}

func TestReduce_DeleteElement(t *testing.T) {
	s := mustReduce(t, NewState(""), AddElement(BodyID, containerElement("c1", textElement("t1", "x"))))
	sel := textElement("t1", "x")
	s = mustReduce(t, s, SelectElement(&sel))

	next := mustReduce(t, s, DeleteElement(Element{ID: "t1"}))
	_, ok := next.FindElement("t1")
	assert.False(t, ok)
	assert.True(t, next.Editor.SelectedElement.IsEmpty())

	_, err := Reduce(s, DeleteElement(Element{ID: BodyID}))
	assert.ErrorIs(t, err, ErrCannotDeleteBody)

	_, err = Reduce(s, DeleteElement(Element{ID: "ghost"}))
	assert.ErrorIs(t, err, ErrElementNotFound)
}

func TestReduce_SelectionDoesNotAddHistory(t *testing.T) {
	s := mustReduce(t, NewState(""), AddElement(BodyID, textElement("t1", "x")))
	sel := Element{ID: "t1"}
	next := mustReduce(t, s, SelectElement(&sel))

	assert.Equal(t, len(s.History.Snapshots), len(next.History.Snapshots))
	assert.Equal(t, s.History.CurrentIndex, next.History.CurrentIndex)
	// the tree copy is selected, not the payload
	assert.Equal(t, TypeText, next.Editor.SelectedElement.Type)

	cleared := mustReduce(t, next, SelectElement(nil))
	assert.True(t, cleared.Editor.SelectedElement.IsEmpty())
}

func TestReduce_ViewActions(t *testing.T) {
	s := NewState("")

	s = mustReduce(t, s, ChangeDevice(DeviceMobile))
	assert.Equal(t, DeviceMobile, s.Editor.Device)

	_, err := Reduce(s, ChangeDevice("Watch"))
	assert.ErrorIs(t, err, ErrInvalidDevice)

	s = mustReduce(t, s, TogglePreview())
	assert.True(t, s.Editor.PreviewMode)
	assert.True(t, s.Editor.LiveMode)

	s = mustReduce(t, s, ToggleLive(nil))
	assert.False(t, s.Editor.LiveMode)
	on := true
	s = mustReduce(t, s, ToggleLive(&on))
	s = mustReduce(t, s, ToggleLive(&on))
	assert.True(t, s.Editor.LiveMode)

	s = mustReduce(t, s, SetFunnelPageID("page-9"))
	assert.Equal(t, "page-9", s.Editor.FunnelPageID)
	assert.Len(t, s.History.Snapshots, 1)
}

func TestReduce_UndoRedo(t *testing.T) {
	s := NewState("")
	s = mustReduce(t, s, AddElement(BodyID, textElement("t1", "a")))
	s = mustReduce(t, s, AddElement(BodyID, textElement("t2", "b")))
	s = mustReduce(t, s, ChangeDevice(DeviceTablet))

	undone := mustReduce(t, s, Undo())
	_, ok := undone.FindElement("t2")
	assert.False(t, ok)
	assert.Equal(t, DeviceTablet, undone.Editor.Device)
	assert.True(t, undone.CanRedo())

	redone := mustReduce(t, undone, Redo())
	_, ok = redone.FindElement("t2")
	assert.True(t, ok)

	t.Run("no-op at the ends", func(t *testing.T) {
		fresh := NewState("")
		assert.Equal(t, fresh, mustReduce(t, fresh, Undo()))
		assert.Equal(t, redone, mustReduce(t, redone, Redo()))
	})

	t.Run("new change drops the redo tail", func(t *testing.T) {
		branched := mustReduce(t, undone, AddElement(BodyID, textElement("t3", "c")))
		assert.False(t, branched.CanRedo())
		assert.Len(t, branched.History.Snapshots, 3)
		_, ok := branched.FindElement("t2")
		assert.False(t, ok)
	})
}

func TestReducer_HistoryLimit(t *testing.T) {
	r := Reducer{HistoryLimit: 3}
	s := NewState("")
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		var err error
		s, err = r.Reduce(s, AddElement(BodyID, textElement(id, id)))
		require.NoError(t, err)
	}
	assert.Len(t, s.History.Snapshots, 3)
	assert.Equal(t, 2, s.History.CurrentIndex)
}

func TestReduce_LoadData(t *testing.T) {
	s := mustReduce(t, NewState("p"), AddElement(BodyID, textElement("t1", "a")))

	loaded := mustReduce(t, s, LoadData([]Element{{
		ID: BodyID, Name: "Body", Type: TypeBody, Styles: Styles{},
		Content: ListContent(textElement("x", "loaded")),
	}}, true))
	assert.True(t, loaded.Editor.LiveMode)
	assert.Equal(t, "p", loaded.Editor.FunnelPageID)
	assert.Len(t, loaded.History.Snapshots, 1)
	assert.False(t, loaded.CanUndo())
	_, ok := loaded.FindElement("x")
	assert.True(t, ok)

	empty := mustReduce(t, s, LoadData(nil, false))
	assert.True(t, cmp.Equal([]Element{NewBody()}, empty.Editor.Elements, elementCmp...))

	_, err := Reduce(s, LoadData([]Element{textElement("dup", "a"), textElement("dup", "b")}, false))
	assert.ErrorIs(t, err, ErrInvalidTree)
}

func TestReduce_PatchStyle(t *testing.T) {
	s := mustReduce(t, NewState(""), AddElement(BodyID, containerElement("c1")))

	_, err := Reduce(s, PatchStyle("color", "red"))
	assert.ErrorIs(t, err, ErrNoSelection)

	sel := Element{ID: "c1"}
	s = mustReduce(t, s, SelectElement(&sel))

	tests := []struct {
		name     string
		property string
		value    string
		want     string
	}{
		{"plain property", "color", "red", "red"},
		{"background url is wrapped", StyleBackgroundImage, " https://img.example/a.png ", "url('https://img.example/a.png')"},
		{"wrapped url kept", StyleBackgroundImage, "url('x.png')", "url('x.png')"},
		{"empty background kept empty", StyleBackgroundImage, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := mustReduce(t, s, PatchStyle(tt.property, tt.value))
			found, _ := next.FindElement("c1")
			assert.Equal(t, tt.want, found.Styles[tt.property])
			assert.Equal(t, tt.want, next.Editor.SelectedElement.Styles[tt.property])
			assert.Equal(t, len(s.History.Snapshots)+1, len(next.History.Snapshots))
		})
	}
}

func TestReduce_PatchContent(t *testing.T) {
	video := Element{ID: "v1", Name: "Video", Type: TypeVideo, Styles: Styles{}, Content: LeafContent(Leaf{ContentSrc: ""})}
	s := mustReduce(t, NewState(""), AddElement(BodyID, video))
	s = mustReduce(t, s, SelectElement(&video))

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"watch link", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"other source kept", "https://cdn.example/clip.mp4", "https://cdn.example/clip.mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := mustReduce(t, s, PatchContent(ContentSrc, tt.value))
			found, _ := next.FindElement("v1")
			assert.Equal(t, tt.want, found.Content.Leaf()[ContentSrc])
		})
	}

	t.Run("container content is rejected", func(t *testing.T) {
		body := Element{ID: BodyID}
		onBody := mustReduce(t, s, SelectElement(&body))
		_, err := Reduce(onBody, PatchContent(ContentInnerText, "x"))
		assert.ErrorIs(t, err, ErrContentNotLeaf)
	})
}

func TestReduce_UnknownAction(t *testing.T) {
	_, err := Reduce(NewState(""), Action{Type: "EXPLODE"})
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestElementJSON(t *testing.T) {
	raw := `[{"id":"__body","name":"Body","type":"__body","styles":{},"content":[
		{"id":"t1","name":"Text","type":"text","styles":{"color":"red"},"content":{"innerText":"hi"}},
		{"id":"c1","name":"Container","type":"container","styles":{}}
	]}]`
	elements, err := ParseElements(raw)
	require.NoError(t, err)
	require.NoError(t, ValidateTree(elements))

	children := elements[0].Content.Children()
	require.Len(t, children, 2)
	assert.True(t, children[0].Content.IsLeaf())
	assert.False(t, children[1].Content.IsLeaf())

	out, err := json.Marshal(EmptyElement())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"","name":"","type":null,"styles":{},"content":[]}`, string(out))

	blank, err := ParseElements("  ")
	require.NoError(t, err)
	assert.Equal(t, BodyID, blank[0].ID)

	_, err = ParseElements(`{"id":1}`)
	assert.Error(t, err)
}
