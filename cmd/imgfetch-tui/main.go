package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/srihari-humbarwadi/imgfetch/internal/config"
	"github.com/srihari-humbarwadi/imgfetch/internal/tui"
)

func main() {
	configFlag := flag.String("config", "", "Path to a JSON or YAML config file")
	flag.Parse()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	settings.ApplyEnv()

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
