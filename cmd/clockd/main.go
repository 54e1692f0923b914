package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/clockrobustus/clockd/internal/app"
	"github.com/clockrobustus/clockd/internal/log"
	"github.com/clockrobustus/clockd/pkg/config"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	cfgFile := flag.String("config", "", "Path to a YAML configuration file (optional; built-in defaults and CLOCKD_* environment variables apply otherwise)")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("clockd %s\n", version)
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load(*cfgFile)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set up logging
	if err := log.Init(*debug, cfg.LogFile); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Place the alarm database under the user config dir unless a path was
	// configured explicitly.
	if cfg.Database.Path == "" {
		cfg.Database.Path, err = defaultDBPath()
		if err != nil {
			log.Errorf("Failed to resolve default database path: %v", err)
			os.Exit(1)
		}
	}

	// Create and run the application
	application := app.New(&cfg, log.GetSugaredLogger())
	if err := application.Run(context.Background()); err != nil {
		log.Errorf("Application error: %v", err)
		os.Exit(1)
	}
}

func defaultDBPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("error locating user config dir: %w", err)
	}

	dir := filepath.Join(base, "clockd")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating config dir: %w", err)
	}

	return filepath.Join(dir, "alarms.sqlite"), nil
}
