package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"go-pianoroll/widgets"
)

func Key(help string, keyboardKey ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keyboardKey...), key.WithHelp(keyboardKey[0], help))
}

type keyMap struct {
	Left, Right, Up, Down key.Binding

	Add, AddKeep        key.Binding
	Select, Toggle      key.Binding
	Marquee, MarqueeAdd key.Binding
	SelectAll, Drain    key.Binding

	DragLeft, DragRight, DragUp, DragDown key.Binding
	EndShorter, EndLonger                 key.Binding
	StartEarlier, StartLater              key.Binding
	Commit                                key.Binding

	Delete      key.Binding
	Undo, Redo  key.Binding
	Copy, Paste key.Binding
	Head        key.Binding

	ZoomIn, ZoomOut key.Binding
	ScaleToggle     key.Binding
	NextTrack       key.Binding
	NewTrack        key.Binding
	Help            key.Binding
	Quit            key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Left:  Key("cursor left", "h", "left"),
		Right: Key("cursor right", "l", "right"),
		Up:    Key("cursor up", "k", "up"),
		Down:  Key("cursor down", "j", "down"),

		Add:        Key("add note", " "),
		AddKeep:    Key("add to selection", "o", "shift+space"),
		Select:     Key("select note", "enter"),
		Toggle:     Key("toggle note", "t", "shift+enter"),
		Marquee:    Key("marquee", "v"),
		MarqueeAdd: Key("marquee (add)", "V"),
		SelectAll:  Key("select all", "a"),
		Drain:      Key("deselect / cancel", "esc"),

		DragLeft:     Key("drag left", "H", "shift+left"),
		DragRight:    Key("drag right", "L", "shift+right"),
		DragUp:       Key("drag up", "K", "shift+up"),
		DragDown:     Key("drag down", "J", "shift+down"),
		EndShorter:   Key("end earlier", "<"),
		EndLonger:    Key("end later", ">"),
		StartEarlier: Key("start earlier", "["),
		StartLater:   Key("start later", "]"),
		Commit:       Key("commit", "enter"),

		Delete: Key("delete", "x", "delete"),
		Undo:   Key("undo", "u"),
		Redo:   Key("redo", "ctrl+r"),
		Copy:   Key("copy", "y"),
		Paste:  Key("paste", "p"),
		Head:   Key("player head here", "g"),

		ZoomIn:      Key("finer grid", "+", "="),
		ZoomOut:     Key("coarser grid", "-"),
		ScaleToggle: Key("scale/chromatic", "s"),
		NextTrack:   Key("next track", "tab"),
		NewTrack:    Key("new track", "n"),
		Help:        Key("help", "?"),
		Quit:        Key("quit", "q", "ctrl+c"),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Select, k.Marquee, k.DragLeft, k.Delete, k.Undo, k.Redo, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Add, k.AddKeep, k.Select, k.Toggle, k.Marquee, k.MarqueeAdd, k.SelectAll, k.Drain},
		{k.DragLeft, k.DragRight, k.DragUp, k.DragDown, k.EndShorter, k.EndLonger, k.StartEarlier, k.StartLater},
		{k.Delete, k.Undo, k.Redo, k.Copy, k.Paste, k.Head},
		{k.ZoomIn, k.ZoomOut, k.ScaleToggle, k.NextTrack, k.NewTrack, k.Quit},
	}
}

// sections groups the bindings for the full help panel.
func (k keyMap) sections() []widgets.KeySection {
	full := k.FullHelp()
	titles := []string{"Cursor", "Select", "Edit", "History", "View"}
	out := make([]widgets.KeySection, len(full))
	for i, keys := range full {
		out[i] = widgets.KeySection{Title: titles[i], Keys: keys}
	}
	return out
}
