package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"

	"go-pianoroll/note"
)

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
)

// Event is a note message on one channel
type Event struct {
	Type     uint8 // NoteOn or NoteOff
	Channel  uint8
	Note     note.Pitch
	Velocity uint8
}

// Message encodes the event for the wire. A note-on with zero velocity is
// sent as a note-off.
func (e Event) Message() gomidi.Message {
	if e.Type == NoteOn && e.Velocity > 0 {
		return gomidi.NoteOn(e.Channel, uint8(e.Note), e.Velocity)
	}
	return gomidi.NoteOff(e.Channel, uint8(e.Note))
}

// Parse decodes a note message. Anything else reports false.
func Parse(msg gomidi.Message) (Event, bool) {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteOn(&ch, &key, &vel) && vel > 0:
		return Event{Type: NoteOn, Channel: ch, Note: note.Pitch(key), Velocity: vel}, true
	case msg.GetNoteOn(&ch, &key, &vel), msg.GetNoteOff(&ch, &key, &vel):
		return Event{Type: NoteOff, Channel: ch, Note: note.Pitch(key)}, true
	}
	return Event{}, false
}
