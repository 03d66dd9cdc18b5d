package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/aeonark/aeonark-labs/internal/client/api"
	"github.com/aeonark/aeonark-labs/internal/client/cli"
	"github.com/aeonark/aeonark-labs/internal/client/sessioncache"
	"github.com/aeonark/aeonark-labs/pkg/helpers"
)

func main() {
	_ = godotenv.Load()

	defaultURL := os.Getenv("AEONARK_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	apiURL := flag.String("api", defaultURL, "base URL of the API")
	verbose := flag.Bool("v", false, "log session cache activity")
	flag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger := helpers.NewLogger("aeonark-cli", "production", level)
	logger.SetOutput(os.Stderr)

	primary, mirror, legacy, err := sessioncache.DefaultSlots("aeonark-labs")
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot locate session directories:", err)
		os.Exit(1)
	}
	cache := sessioncache.New(logger, legacy, primary, mirror)
	app := cli.NewApp(api.New(*apiURL), cache, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := app.Run(ctx, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
