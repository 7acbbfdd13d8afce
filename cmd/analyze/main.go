package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/commentflow/config"
	"github.com/spacesedan/commentflow/internal/app"
	"github.com/spacesedan/commentflow/internal/logging"
)

type output struct {
	URL     string `json:"url"`
	Warning string `json:"warning,omitempty"`
	Error   string `json:"error,omitempty"`
	Result  any    `json:"result,omitempty"`
}

func main() {
	mode := flag.String("mode", "timeseries", "analysis mode: timeseries or distribution")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-mode timeseries|distribution] <youtube-link>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Analyze] Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("[Analyze] Failed to initialize", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer a.Close()

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)

	failed := false
	for _, link := range flag.Args() {
		out := output{URL: link}
		result, err := a.Service.Analyze(ctx, link, *mode)
		if err != nil {
			failed = true
			out.Error = err.Error()
		} else {
			out.Warning = result.Warning
			out.Result = result.Payload()
		}
		if err := enc.Encode(out); err != nil {
			slog.Error("[Analyze] Failed to write output", slog.String("error", err.Error()))
			failed = true
		}
	}

	if failed {
		a.Close()
		os.Exit(1)
	}
}
