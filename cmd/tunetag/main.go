package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ferrovax/tunetag/internal/config"
	"github.com/ferrovax/tunetag/internal/process"
)

func main() {
	// Command line flags
	var (
		archiveFlag = flag.Bool("archive", false, "Reorganize the output directory into per-artist folders")
		configFlag  = flag.String("config", "", "Path to config file")
		inputFlag   = flag.String("input", "", "Input directory (overrides config)")
		outputFlag  = flag.String("output", "", "Output directory (overrides config)")
		verboseFlag = flag.Bool("verbose", false, "Show verbose output")
	)
	flag.BoolVar(archiveFlag, "a", *archiveFlag, "Shorthand for -archive")

	flag.Parse()

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *inputFlag != "" {
		settings.InputDir = *inputFlag
	}
	if *outputFlag != "" {
		settings.OutputDir = *outputFlag
	}
	if *verboseFlag {
		settings.Verbose = true
	}

	onProgress := func(event process.ProgressEvent) {
		if event.Level == process.LevelVerbose && !settings.Verbose {
			return
		}

		prefix := ""
		switch event.Level {
		case process.LevelError:
			prefix = "❌ "
		case process.LevelWarning:
			prefix = "⚠️  "
		case process.LevelSuccess:
			prefix = "✅ "
		case process.LevelInfo:
			prefix = "➖ "
		default:
			prefix = "   "
		}

		fmt.Println(prefix + event.Message)
	}

	// Archive mode needs no credentials and no network
	if *archiveFlag {
		archiver := process.NewArchiver(settings, onProgress)
		if err := archiver.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error archiving: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("\n📍 Program Ended!")
		return
	}

	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "✏️  %v\n", err)
		os.Exit(1)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	manager, err := process.NewManager(settings, onProgress)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := manager.Run(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nRun cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n📍 Program Ended!")
}
