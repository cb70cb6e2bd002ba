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
	"github.com/goliatone/go-loanform/pkg/renderers/vanilla"
	"github.com/goliatone/go-loanform/pkg/server"
)

func main() {
	configFile := flag.String("config", "", "config file (defaults to ./loanform.yaml when present)")
	addr := flag.String("addr", "", "listen address (overrides config)")
	templates := flag.String("templates", "", "directory with page templates (embedded if empty)")
	variant := flag.String("theme-variant", "", "variant of the default theme (light or dark)")
	flag.Parse()

	if err := run(*configFile, *addr, *templates, *variant); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configFile, addr, templates, variant string) error {
	var loadOpts []config.LoadOption
	if configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(configFile))
	}
	if addr != "" {
		loadOpts = append(loadOpts, config.WithOverrides(map[string]any{"server.addr": addr}))
	}
	cfg, err := config.Load(loadOpts...)
	if err != nil {
		return err
	}

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

	model, err := form.Build(ctx)
	if err != nil {
		return err
	}
	themeCfg, err := vanilla.ThemeConfig(vanilla.DefaultManifest(), variant)
	if err != nil {
		return err
	}
	page, err := vanilla.New(
		vanilla.WithForm(model),
		vanilla.WithTemplatesDir(templates),
		vanilla.WithTheme(themeCfg),
	)
	if err != nil {
		return err
	}

	ctrl := controller.New(api, page,
		controller.WithNoticeInterval(cfg.UI.NoticeInterval),
		controller.WithLogger(log),
		controller.WithNoticeObserver(recorder),
	)
	srv := server.New(ctrl, page,
		server.WithLogger(log),
		server.WithMetricsHandler(recorder.Handler()),
	)
	return srv.Serve(ctx, cfg.Server.Addr)
}
