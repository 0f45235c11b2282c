package midi

import (
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// ScanTimeout bounds a port listing. CoreMIDI can hang.
var ScanTimeout = 3 * time.Second

// Ports lists the MIDI ports by name.
type Ports struct {
	In  []string
	Out []string
}

// ListPorts queries the driver, giving up after ScanTimeout.
func ListPorts() (Ports, error) {
	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ch <- result{ins: gomidi.GetInPorts(), outs: gomidi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		var p Ports
		for _, in := range r.ins {
			p.In = append(p.In, in.String())
		}
		for _, out := range r.outs {
			p.Out = append(p.Out, out.String())
		}
		return p, nil
	case <-time.After(ScanTimeout):
		return Ports{}, fault.New("midi port scan timed out",
			ftag.With(ftag.Internal),
			fmsg.WithDesc("port scan timeout", "MIDI driver did not answer. On macOS try: sudo killall coreaudiod midiserver"))
	}
}

func notFound(kind, name string, err error) error {
	return fault.Wrap(err,
		ftag.With(ftag.NotFound),
		fmsg.WithDesc(kind+" port not found", "No MIDI "+kind+" port named "+name))
}

// Close releases the driver.
func Close() {
	gomidi.CloseDriver()
}
