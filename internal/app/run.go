package app

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jmaris/webserv/internal/config"
)

// run loads and validates the configuration and, with --watch, keeps
// revalidating it on file change or SIGHUP. Binding listeners and serving
// requests is the runtime's job, not this command's.
func run(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "./application.conf", "path to config file")
	logLevel := fs.String("log-level", "info", "log level (debug|info|warn|error)")
	watch := fs.Bool("watch", false, "watch config file for changes and revalidate")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger, err := newLogger(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 2
	}
	slog.SetDefault(logger)

	cfg, diags, err := config.Load(*configPath)
	if err != nil {
		logger.Error("config_load_failed", slog.String("path", *configPath), slog.Any("err", err))
		return 1
	}
	logWarnings(logger, diags)
	logSummary(logger, *configPath, cfg)

	if !*watch {
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				reloadConfig(*configPath, logger, "sighup")
			}
		}
	}()

	watchConfig(ctx, *configPath, logger, func() {
		reloadConfig(*configPath, logger, "fsnotify")
	})
	return 0
}

func logSummary(logger *slog.Logger, path string, cfg *config.ServerConfig) {
	logger.Info("config_loaded",
		slog.String("path", path),
		slog.Int("servers", len(cfg.Servers)),
		slog.Int("error_pages", len(cfg.ErrorPages)))
	for _, srv := range cfg.Servers {
		ports := make([]int, 0, len(srv.Ports))
		for _, p := range srv.Ports {
			ports = append(ports, int(p))
		}
		logger.Info("server",
			slog.String("name", srv.Name),
			slog.String("host", srv.Host),
			slog.Any("ports", ports),
			slog.Bool("default", srv.IsDefault),
			slog.Int("routes", len(srv.Routes)))
	}
}

func logWarnings(logger *slog.Logger, diags config.Diagnostics) {
	for _, w := range diags.Warnings {
		logger.Warn("config_warning", slog.String("warning", w))
	}
}

// reloadConfig revalidates the file at path. A failed reload keeps the last
// good configuration in effect and only logs the error.
func reloadConfig(path string, logger *slog.Logger, trigger string) (*config.ServerConfig, bool) {
	cfg, diags, err := config.Load(path)
	if err != nil {
		logger.Error("config_reload_failed",
			slog.String("path", path),
			slog.String("trigger", trigger),
			slog.Any("err", err))
		return nil, false
	}
	logWarnings(logger, diags)
	logger.Info("config_reloaded_ok",
		slog.String("path", path),
		slog.String("trigger", trigger),
		slog.Int("servers", len(cfg.Servers)))
	return cfg, true
}

func watchConfig(ctx context.Context, path string, logger *slog.Logger, reload func()) {
	if reload == nil {
		return
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("watch_disabled", slog.Any("err", err))
		return
	}
	defer w.Close()

	// Watch the directory, not the file: editors and atomic writes replace
	// the file node.
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if err := w.Add(dir); err != nil {
		logger.Warn("watch_disabled", slog.Any("err", err))
		return
	}

	logger.Info("watching_config", slog.String("path", path))

	// Debounce to coalesce bursty editor events.
	var timer *time.Timer
	var timerCh <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(200 * time.Millisecond)
		} else {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(200 * time.Millisecond)
		}
		timerCh = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			schedule()
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("watch_error", slog.Any("err", err))
		case <-timerCh:
			timerCh = nil
			reload()
		}
	}
}
