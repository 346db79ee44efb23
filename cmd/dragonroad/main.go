// Dragon Road is a turn-based road of battles played in the terminal or
// the browser.
// Usage: dragonroad [--version] [--plain] [--web] [--script <file>] [--trace] [--seed N] [game_directory]
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/nathoo/dragonroad/cli"
	"github.com/nathoo/dragonroad/config"
	"github.com/nathoo/dragonroad/engine"
	"github.com/nathoo/dragonroad/engine/state"
	"github.com/nathoo/dragonroad/games"
	"github.com/nathoo/dragonroad/loader"
	"github.com/nathoo/dragonroad/telemetry"
	"github.com/nathoo/dragonroad/tui"
	"github.com/nathoo/dragonroad/web"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: dragonroad [--version] [--plain] [--web] [--script <file>] [--trace] [--seed N] [game_directory]\n"

func main() {
	plain := false
	serve := false
	trace := false
	seed := int64(0)
	seedSet := false
	var gameDir string
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("dragonroad %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--web":
			serve = true
		case "--trace":
			trace = true
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		case "--seed":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--seed requires a number\n")
				os.Exit(1)
			}
			i++
			n, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "--seed: %v\n", err)
				os.Exit(1)
			}
			seed, seedSet = n, true
		case "-h", "--help":
			fmt.Print(usage)
			return
		default:
			if gameDir == "" {
				gameDir = args[i]
			}
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading configuration: %v\n", err)
		os.Exit(1)
	}
	if seedSet {
		cfg.Seed = seed
	}
	if gameDir == "" {
		gameDir = cfg.GameDir
	}

	interactive := !serve && scriptFile == "" && !plain && isTerminal()

	logger, closeLog, err := newLogger(cfg, interactive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracer := telemetry.NoopTracer()
	if cfg.Telemetry {
		shutdown, err := telemetry.Setup(ctx, version)
		if err != nil {
			logger.Warn("telemetry disabled", "err", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Warn("telemetry shutdown", "err", err)
				}
			}()
			tracer = telemetry.Tracer("game")
		}
	}

	defs, err := loadGame(gameDir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading game: %v\n", err)
		os.Exit(1)
	}
	logger.Info("game loaded", "title", defs.Game.Title, "locations", len(defs.Locations), "dir", gameDir)

	if serve {
		srv := web.NewServer(defs,
			web.WithSeed(cfg.Seed),
			web.WithLogger(logger),
			web.WithTracer(tracer),
			web.WithVersion(version),
		)
		if err := srv.Run(ctx, cfg.Addr); err != nil {
			logger.Error("server stopped", "err", err)
			os.Exit(1)
		}
		return
	}

	eng := engine.New(defs, engine.WithSeed(cfg.Seed), engine.WithLogger(logger))

	if !interactive {
		c := cli.New(eng, defs)
		c.SaveDir = cfg.SaveDir
		c.Trace = trace
		c.Tracer = tracer
		c.Log = logger

		// Script mode: read from the file and echo each command.
		if scriptFile != "" {
			f, err := os.Open(scriptFile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
				os.Exit(1)
			}
			defer f.Close()
			c.In = f
			c.EchoInput = true
		}

		fmt.Printf("%s v%s by %s\n\n", defs.Game.Title, defs.Game.Version, defs.Game.Author)
		c.Run(ctx)
		return
	}

	if err := tui.Run(ctx, eng, defs,
		tui.WithSaveDir(cfg.SaveDir),
		tui.WithTracer(tracer),
		tui.WithLogger(logger),
	); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadGame compiles the game in dir, or the embedded classic road when dir
// is empty.
func loadGame(dir string, logger *log.Logger) (*state.Defs, error) {
	if dir == "" {
		return loader.LoadFS(games.FS, games.Classic, loader.WithLogger(logger))
	}
	return loader.Load(dir, loader.WithLogger(logger))
}

// newLogger builds the diagnostics logger. The TUI owns the terminal, so
// without a log file its logs are discarded.
func newLogger(cfg *config.Config, interactive bool) (*log.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closer := func() {}

	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closer = func() { f.Close() }
	case interactive:
		w = io.Discard
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           cfg.LogLevel,
		ReportTimestamp: true,
		Prefix:          "dragonroad",
	})
	return logger, closer, nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
