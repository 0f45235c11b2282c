package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"go-pianoroll/config"
	"go-pianoroll/debug"
	"go-pianoroll/editor"
	"go-pianoroll/grid"
	"go-pianoroll/midi"
	"go-pianoroll/scale"
	"go-pianoroll/theme"
	"go-pianoroll/tui"
)

var (
	configPath string
	debugLog   bool
	portName   string
	inputName  string
	scaleName  string
	rootName   string
)

var rootCmd = &cobra.Command{
	Use:          "pianoroll",
	Short:        "Terminal piano roll note editor",
	Long:         `Edit notes on a piano roll in the terminal, auditioning them on a MIDI output.`,
	SilenceUsage: true,
	RunE:         run,
}

var scalesCmd = &cobra.Command{
	Use:   "scales",
	Short: "List the available scales",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range scale.Types {
			sc := scale.New(t, 0)
			fmt.Printf("  %-11s %d degrees, %d pitches\n", t, sc.Size(), sc.Len())
		}
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&configPath, "config", "", "config file (default ~/.config/go-pianoroll/config.json)")
	f.BoolVar(&debugLog, "debug", false, "write a debug log")
	f.StringVar(&portName, "port", "", "MIDI output to audition notes on")
	f.StringVar(&inputName, "input", "", "MIDI input to record notes from")
	f.StringVar(&scaleName, "scale", "", "scale type, see the scales command")
	f.StringVar(&rootName, "root", "", "scale root, a note name or 0-11")
	rootCmd.AddCommand(scalesCmd)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("scale") {
		t, err := scale.ParseType(scaleName)
		if err != nil {
			return nil, err
		}
		cfg.Editor.Scale = t
	}
	if cmd.Flags().Changed("root") {
		r, err := scale.ParseRoot(rootName)
		if err != nil {
			return nil, err
		}
		cfg.Editor.Root = r
	}
	if portName != "" {
		cfg.Preview.PortName = portName
		cfg.Preview.Enabled = true
	}
	return cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if debugLog || cfg.Log.Path != "" {
		path := cfg.Log.Path
		if path == "" {
			path = debug.DefaultPath()
		}
		if err := debug.Enable(path, cfg.Log.Level); err != nil {
			return err
		}
		defer debug.Disable()
	}
	log := debug.For("main")

	palette, err := theme.LoadOrDefault(cfg.UI.PalettePath)
	if err != nil {
		return err
	}
	th := theme.New(palette)

	sc := cfg.Scale()
	ed := editor.NewDefault(sc)
	g := grid.New(sc, cfg.Editor.BeatFraction)
	g.Snap = cfg.Editor.Snap
	g.EdgeWidth = cfg.Editor.EdgeWidth

	opts := tui.Options{Grid: g, Rows: cfg.UI.Rows, Cols: cfg.UI.Cols}
	defer midi.Close()

	if cfg.Preview.Enabled {
		length := time.Duration(cfg.Preview.LengthMs) * time.Millisecond
		p, err := midi.OpenPreviewer(cfg.Preview.PortName, cfg.Preview.Channel, cfg.Preview.Velocity, length)
		if err != nil {
			return err
		}
		defer p.Silence()
		opts.Preview = p
	}
	if inputName != "" {
		in, err := midi.ListenInput(inputName)
		if err != nil {
			return err
		}
		defer in.Close()
		opts.Input = in.Notes()
	}

	log.Info("starting", "scale", sc, "fraction", g.BeatFraction, "preview", cfg.Preview.Enabled)

	m := tui.NewModel(ed, th, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
