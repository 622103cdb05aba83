package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amalg/bomber-arena/internal/game"
	"github.com/amalg/bomber-arena/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "YAML tuning file (default: built-in settings)")
	seed := flag.Int64("seed", 0, "Random seed for a reproducible run (default: time-based)")
	width := flag.Int("width", 0, "Arena width, overrides the config (odd number)")
	height := flag.Int("height", 0, "Arena height, overrides the config (odd number)")
	repeatDelay := flag.Duration("repeat-delay", ui.DefaultRepeatDelay, "How long a key press counts as held before auto-repeat kicks in")
	logFile := flag.String("log", "", "Log file path (default: discard engine logs)")
	flag.Parse()

	// Redirect log output before the engine runs. Any stderr output will
	// corrupt Bubbletea's terminal rendering.
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	config := game.DefaultConfig()
	if *configPath != "" {
		var err error
		if config, err = game.LoadConfig(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}

	// Ensure odd dimensions for proper wall grid
	if *width > 0 {
		config.Width = *width | 1
	}
	if *height > 0 {
		config.Height = *height | 1
	}
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid settings: %v\n", err)
		os.Exit(1)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	log.Printf("[MAIN] Starting run with seed %d", *seed)

	engine := game.NewEngine(config, rand.New(rand.NewSource(*seed)))
	p := tea.NewProgram(ui.NewModel(engine, ui.WithRepeatDelay(*repeatDelay)), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
