// ABOUTME: Entry point for the DMuffler engine sound modulator
// ABOUTME: Parses CLI flags and wires the engine, drivers and outputs
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dmuffler/dmuffler-go/internal/audio"
	"github.com/dmuffler/dmuffler-go/internal/engine"
	"github.com/dmuffler/dmuffler-go/internal/input"
	"github.com/dmuffler/dmuffler-go/internal/output"
	"github.com/dmuffler/dmuffler-go/internal/remote"
	"github.com/dmuffler/dmuffler-go/internal/sounds"
	"github.com/dmuffler/dmuffler-go/internal/store"
	"github.com/dmuffler/dmuffler-go/internal/ui"
	"github.com/dmuffler/dmuffler-go/internal/version"
)

var (
	sound      = flag.String("sound", "", "Engine sound name from the catalog, or a path to a .wav/.mp3/.flac file")
	soundsDir  = flag.String("sounds-dir", "sounds", "Directory holding the bundled engine sounds")
	frames     = flag.Int("frames", 1024, "Samples per rendered audio block")
	logFile    = flag.String("log-file", "dmuffler.log", "Log file path")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	streamLogs = flag.Bool("stream-logs", false, "Alias for -no-tui")
	remotePort = flag.Int("remote-port", 0, "Companion-app control port (0 = disabled)")
	remoteName = flag.String("remote-name", "", "mDNS service name (default: hostname-dmuffler)")
	dbPath     = flag.String("db", "", "Garage database path (empty = no persistence)")
	vin        = flag.String("vin", "garage-default", "Vehicle VIN used for stored preferences")
)

func main() {
	flag.Parse()

	useTUI := !(*noTUI || *streamLogs)

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		// Streaming logs mode: log to both stdout and file
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log.Printf("Starting %s %s", version.Product, version.Version)

	// Garage store (optional)
	var garage *store.Store
	if *dbPath != "" {
		garage, err = store.Open(*dbPath)
		if err != nil {
			log.Fatalf("Failed to open garage database: %v", err)
		}
		defer garage.Close()
	}

	// Resolve the sound to play: explicit file path, catalog name, stored
	// preference, then the default, in that order.
	library := sounds.NewLibrary(*soundsDir)
	soundName := *sound
	startPitch := engine.NeutralPitch

	if soundName == "" && garage != nil {
		if pref, err := garage.Preference(*vin); err == nil {
			soundName = pref.Sound
			startPitch = engine.ClampPitch(pref.PitchFactor)
			log.Printf("Restored preference for %s: %s at %.2fx", *vin, pref.Sound, pref.PitchFactor)
		}
	}

	var clipPath string
	if isFilePath(soundName) {
		clipPath = soundName
	} else {
		clipPath, soundName = library.Resolve(soundName)
	}

	clip, err := audio.LoadClip(clipPath)
	if err != nil {
		log.Fatalf("Failed to load engine sound: %v", err)
	}

	// Audio device
	out := output.New()
	if err := out.Open(clip.SampleRate, 1); err != nil {
		log.Fatalf("Failed to open audio output: %v", err)
	}

	// Playback engine
	eng := engine.New(engine.Config{
		Clip:   clip,
		Sound:  soundName,
		Frames: *frames,
		Loader: func(name string) (*audio.Clip, string, error) {
			path, err := library.Path(name)
			if err != nil {
				return nil, "", err
			}
			c, err := audio.LoadClip(path)
			return c, name, err
		},
	})
	go eng.Run()

	if startPitch != engine.NeutralPitch {
		eng.Commands() <- engine.Command{Op: engine.OpPitchDelta, Delta: startPitch - engine.NeutralPitch}
	}

	// Device writer drains rendered blocks at the device's pace.
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for block := range eng.Blocks() {
			if err := out.WriteBlock(block); err != nil {
				log.Printf("Playback error: %v", err)
				return
			}
		}
	}()

	// Continuous gas-pedal driver
	pedal := input.NewPedal(eng.Commands())
	go pedal.Run()

	// TUI and discrete key driver
	ctrl := ui.NewControl()
	uiDone := make(chan struct{})
	var tuiProg *tea.Program

	if useTUI {
		tuiProg, err = ui.Run(ctrl)
		if err != nil {
			log.Fatalf("Failed to start TUI: %v", err)
		}
		go func() {
			if _, err := tuiProg.Run(); err != nil {
				log.Printf("TUI terminated with error: %v", err)
			}
		}()
		go forwardControls(ctrl, eng.Commands(), pedal, uiDone)
		go statusUpdateLoop(eng, tuiProg, uiDone)
	} else {
		log.Printf("TUI disabled - space/pitch/pedal controls unavailable, use the remote link")
	}

	// Companion-app link (optional)
	if *remotePort > 0 {
		name := *remoteName
		if name == "" {
			hostname, err := os.Hostname()
			if err != nil {
				hostname = "unknown"
			}
			name = fmt.Sprintf("%s-dmuffler", hostname)
		}

		remoteSrv := remote.New(remote.Config{
			Port:     *remotePort,
			Name:     name,
			Commands: eng.Commands(),
			Status:   eng.Status,
			Output:   out,
		})
		if err := remoteSrv.Start(); err != nil {
			log.Fatalf("Failed to start remote control: %v", err)
		}
		defer remoteSrv.Stop()

		adv := remote.NewAdvertiser(name, *remotePort)
		if err := adv.Advertise(); err != nil {
			log.Printf("mDNS advertisement failed: %v", err)
		} else {
			defer adv.Stop()
		}
	}

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctrl.Quit:
		log.Printf("Received quit signal from TUI")
	case <-sigChan:
		log.Printf("Shutdown signal received")
	}

	// Persist the session before tearing playback down.
	if garage != nil {
		st := eng.Status()
		err := garage.SetPreference(store.Preference{
			VIN:         *vin,
			Sound:       st.Sound,
			PitchFactor: st.PitchFactor,
		})
		if err != nil {
			log.Printf("Failed to save preference: %v", err)
		}
	}

	close(uiDone)
	pedal.Stop()
	eng.Commands() <- engine.Command{Op: engine.OpQuit}

	select {
	case <-writerDone:
	case <-time.After(2 * time.Second):
		log.Printf("Device writer did not drain in time")
	}

	if err := out.Close(); err != nil {
		log.Printf("Error closing audio output: %v", err)
	}
	if tuiProg != nil {
		tuiProg.Quit()
	}

	log.Printf("DMuffler stopped")
}

// forwardControls moves TUI events onto the engine and pedal until done
// closes. The quit channel stays with main, which owns shutdown.
func forwardControls(ctrl *ui.Control, commands chan<- engine.Command, pedal *input.Pedal, done <-chan struct{}) {
	for {
		select {
		case cmd := <-ctrl.Commands:
			commands <- cmd
		case <-ctrl.PedalTaps:
			pedal.Tap()
		case <-done:
			return
		}
	}
}

// statusUpdateLoop periodically refreshes the TUI from the engine snapshot
// until done closes.
func statusUpdateLoop(eng *engine.Engine, tuiProg *tea.Program, done <-chan struct{}) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			tuiProg.Send(ui.StatusMsg{Status: eng.Status()})
		case <-done:
			return
		}
	}
}

// isFilePath reports whether the -sound flag points at a file rather than
// a catalog name.
func isFilePath(s string) bool {
	if s == "" {
		return false
	}
	if strings.ContainsAny(s, `/\`) {
		return true
	}
	_, err := os.Stat(s)
	return err == nil
}
