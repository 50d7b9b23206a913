package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/planet/asset"
	"github.com/lixenwraith/planet/audio"
	"github.com/lixenwraith/planet/config"
	"github.com/lixenwraith/planet/core"
	"github.com/lixenwraith/planet/logging"
	"github.com/lixenwraith/planet/store"
)

var (
	catalogFlag  = flag.String("catalog", "", "TOML catalog overlaid on the built-in one")
	logLevelFlag = flag.String("log-level", "", "Log level (trace, debug, info, warn, error)")
	logFileFlag  = flag.String("log-file", "", "Log file path")
	historyFlag  = flag.String("history", "", "Run history database, \":memory:\" keeps nothing")
	muteFlag     = flag.Bool("mute", false, "Disable audio")
)

func main() {
	// Panic recovery: restore the terminal before printing the trace
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()

	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read settings: %v\n", err)
		os.Exit(1)
	}
	applyFlags(&settings)

	logOut, err := logging.OpenFile(settings.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer logOut.Close()

	log, err := logging.New(logOut, logging.Options{Level: settings.LogLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	catalog := config.MustParseTOML(asset.DefaultCatalog)
	if settings.CatalogFile != "" {
		if err := catalog.MergeFile(settings.CatalogFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load catalog: %v\n", err)
			os.Exit(1)
		}
	}

	historyPath := settings.HistoryFile
	if historyPath == ":memory:" {
		historyPath = ""
	}
	history, err := store.Open(historyPath, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open history: %v\n", err)
		os.Exit(1)
	}
	defer history.Close()

	var player audio.Player = audio.Silent{}
	if !settings.Mute {
		sm := audio.NewSoundManager(log)
		if err := sm.Initialize(); err == nil {
			player = sm
			defer sm.Cleanup()
		} else {
			log.Warn().Err(err).Msg("audio initialization failed, continuing without audio")
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	core.OnCrash(screen)
	// Normal exit terminal cleanup
	defer screen.Fini()

	app := newApp(screen, catalog, player, history, log)
	if err := app.run(); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Game error: %v\n", err)
		os.Exit(1)
	}
}

// applyFlags overrides environment settings with explicitly set flags
func applyFlags(s *config.Settings) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "catalog":
			s.CatalogFile = *catalogFlag
		case "log-level":
			s.LogLevel = *logLevelFlag
		case "log-file":
			s.LogFile = *logFileFlag
		case "history":
			s.HistoryFile = *historyFlag
		case "mute":
			s.Mute = *muteFlag
		}
	})
}
