package main

import (
	"fmt"
	"os"
	"os/signal"

	"go-pianoroll/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	defer midi.Close()

	switch os.Args[1] {
	case "list":
		listPorts()
	case "monitor":
		if len(os.Args) < 3 {
			usage()
			return
		}
		monitor(os.Args[2])
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI port tools")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list          - List all MIDI ports")
	fmt.Println("  monitor NAME  - Print notes played on an input")
}

func listPorts() {
	fmt.Println("(waiting up to 3 seconds...)")
	ports, err := midi.ListPorts()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== MIDI Input Ports ===")
	for i, name := range ports.In {
		fmt.Printf("  %d: %s\n", i, name)
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, name := range ports.Out {
		fmt.Printf("  %d: %s\n", i, name)
	}
}

func monitor(name string) {
	in, err := midi.ListenInput(name)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer in.Close()
	fmt.Printf("Listening on %s. Ctrl+C to exit.\n", in.Name())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	for {
		select {
		case ev := <-in.Notes():
			fmt.Printf("  %-4s ch:%d vel:%d\n", ev.Note, ev.Channel, ev.Velocity)
		case <-stop:
			return
		}
	}
}
