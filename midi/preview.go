package midi

import (
	"sync"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	gomidi "gitlab.com/gomidi/midi/v2"

	"go-pianoroll/debug"
	"go-pianoroll/note"
)

// SendFunc writes one message to an output.
type SendFunc func(gomidi.Message) error

// Previewer auditions notes on an output port. Each Play must be matched
// by a Release once Length has passed; the caller owns the timing.
type Previewer struct {
	mu       sync.Mutex
	send     SendFunc
	channel  uint8
	velocity uint8
	length   time.Duration
	sounding map[note.Pitch]int
}

func NewPreviewer(send SendFunc, channel, velocity uint8, length time.Duration) *Previewer {
	return &Previewer{
		send:     send,
		channel:  channel,
		velocity: velocity,
		length:   length,
		sounding: make(map[note.Pitch]int),
	}
}

// OpenPreviewer connects to the output port whose name matches portName.
func OpenPreviewer(portName string, channel, velocity uint8, length time.Duration) (*Previewer, error) {
	out, err := gomidi.FindOutPort(portName)
	if err != nil {
		return nil, notFound("output", portName, err)
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.WithDesc("open output", "Could not open MIDI output "+out.String()))
	}
	debug.For("midi").Info("preview port open", "port", out.String(), "channel", channel)
	return NewPreviewer(send, channel, velocity, length), nil
}

func (p *Previewer) Length() time.Duration { return p.length }

// Play starts pitch sounding.
func (p *Previewer) Play(pitch note.Pitch) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.send(Event{Type: NoteOn, Channel: p.channel, Note: pitch, Velocity: p.velocity}.Message()); err != nil {
		return fault.Wrap(err, fmsg.With("preview note on"))
	}
	p.sounding[pitch]++
	return nil
}

// Release stops one Play of pitch. The note-off is only sent when the last
// overlapping Play of that pitch is released.
func (p *Previewer) Release(pitch note.Pitch) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := p.sounding[pitch]
	if n == 0 {
		return nil
	}
	if n > 1 {
		p.sounding[pitch] = n - 1
		return nil
	}
	delete(p.sounding, pitch)
	if err := p.send(Event{Type: NoteOff, Channel: p.channel, Note: pitch}.Message()); err != nil {
		return fault.Wrap(err, fmsg.With("preview note off"))
	}
	return nil
}

// Silence sends a note-off for everything still sounding.
func (p *Previewer) Silence() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var first error
	for pitch := range p.sounding {
		err := p.send(Event{Type: NoteOff, Channel: p.channel, Note: pitch}.Message())
		if err != nil && first == nil {
			first = fault.Wrap(err, fmsg.With("silence preview"))
		}
		delete(p.sounding, pitch)
	}
	return first
}

// Sounding counts the distinct pitches currently on.
func (p *Previewer) Sounding() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sounding)
}
