package midi

import (
	"sync"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	gomidi "gitlab.com/gomidi/midi/v2"
)

// Input delivers note-ons played on a MIDI keyboard. Events are dropped
// when the reader falls behind.
type Input struct {
	name     string
	stopFunc func()
	notes    chan Event

	mu     sync.Mutex
	closed bool
}

// ListenInput opens the input port whose name matches portName.
func ListenInput(portName string) (*Input, error) {
	in, err := gomidi.FindInPort(portName)
	if err != nil {
		return nil, notFound("input", portName, err)
	}

	kb := &Input{name: in.String(), notes: make(chan Event, 32)}
	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		kb.handle(msg)
	})
	if err != nil {
		return nil, fault.Wrap(err, fmsg.WithDesc("open input", "Could not listen on MIDI input "+in.String()))
	}
	kb.stopFunc = stop
	return kb, nil
}

func (kb *Input) handle(msg gomidi.Message) {
	ev, ok := Parse(msg)
	if !ok || ev.Type != NoteOn {
		return
	}
	kb.mu.Lock()
	defer kb.mu.Unlock()
	if kb.closed {
		return
	}
	select {
	case kb.notes <- ev:
	default:
	}
}

func (kb *Input) Name() string { return kb.name }

func (kb *Input) Notes() <-chan Event { return kb.notes }

// Close stops listening and closes the Notes channel. Messages still in
// flight from the driver are dropped. Closing twice is a no-op.
func (kb *Input) Close() {
	if kb.stopFunc != nil {
		kb.stopFunc()
	}
	kb.mu.Lock()
	defer kb.mu.Unlock()
	if kb.closed {
		return
	}
	kb.closed = true
	close(kb.notes)
}
