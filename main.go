package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/momentum/internal/config"
	"github.com/sadopc/momentum/internal/notify"
	"github.com/sadopc/momentum/internal/pomodoro"
	"github.com/sadopc/momentum/internal/store"
	"github.com/sadopc/momentum/internal/todo"
	"github.com/sadopc/momentum/internal/tui"
)

func main() {
	cfgPath, err := config.Path()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	logFile, err := setupLogging(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening log file: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	notifier, player := notify.FromConfig(cfg, os.Stderr)

	// Both loaders hand back usable defaults alongside a read error.
	timer, err := pomodoro.New(s, notifier, player)
	if err != nil {
		log.Printf("pomodoro: %v", err)
	}
	list, err := todo.Load(s)
	if err != nil {
		log.Printf("tasks: %v", err)
	}

	app := tui.NewApp(s, cfg, timer, list)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging sends the standard logger to the configured file, or to
// momentum.log when MOMENTUM_DEBUG is set. Otherwise logs are dropped
// so they never draw over the alternate screen.
func setupLogging(cfg config.Config) (*os.File, error) {
	path := cfg.LogFile
	if path == "" {
		if _, ok := os.LookupEnv(config.EnvDebug); ok {
			path = config.AppName + ".log"
		}
	}
	if path == "" {
		log.SetOutput(io.Discard)
		return nil, nil
	}
	return tea.LogToFile(path, config.AppName)
}
