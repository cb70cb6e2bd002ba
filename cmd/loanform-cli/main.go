package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-loanform/internal/config"
	"github.com/goliatone/go-loanform/internal/logger"
	"github.com/goliatone/go-loanform/internal/metrics"
	"github.com/goliatone/go-loanform/pkg/client"
	"github.com/goliatone/go-loanform/pkg/controller"
	"github.com/goliatone/go-loanform/pkg/form"
	"github.com/goliatone/go-loanform/pkg/renderers/tui"
)

func main() {
	configFile := flag.String("config", "", "config file (defaults to ./loanform.yaml when present)")
	baseURL := flag.String("base-url", "", "loans API base URL (overrides config)")
	document := flag.String("openapi", "", "OpenAPI document describing the loan form (embedded if empty)")
	flag.Parse()

	if err := run(*configFile, *baseURL, *document); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configFile, baseURL, document string) error {
	var loadOpts []config.LoadOption
	if configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(configFile))
	}
	if baseURL != "" {
		loadOpts = append(loadOpts, config.WithOverrides(map[string]any{"api.base_url": baseURL}))
	}
	cfg, err := config.Load(loadOpts...)
	if err != nil {
		return err
	}

	// Logs go to stderr; stdout belongs to the prompts.
	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	recorder := metrics.New()

	api, err := client.New(cfg.API.BaseURL,
		client.WithTimeout(cfg.API.Timeout),
		client.WithLogger(log),
		client.WithMetrics(recorder),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var buildOpts []form.Option
	if document != "" {
		buildOpts = append(buildOpts, form.WithDocumentFile(document))
	}
	model, err := form.Build(ctx, buildOpts...)
	if err != nil {
		return err
	}

	page := tui.New(tui.WithForm(model), tui.WithOutput(os.Stdout))
	ctrl := controller.New(api, page,
		controller.WithNoticeInterval(cfg.UI.NoticeInterval),
		controller.WithLogger(log),
		controller.WithNoticeObserver(recorder),
	)
	return page.Run(ctx, ctrl)
}
