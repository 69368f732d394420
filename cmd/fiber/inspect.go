package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/fiber/internal/watch"
	"github.com/vango-dev/fiber/pkg/host"
	"github.com/vango-dev/fiber/pkg/inspect"
	"github.com/vango-dev/fiber/pkg/scene"
	"github.com/vango-dev/fiber/pkg/telemetry"
	"github.com/vango-dev/fiber/pkg/vango"
)

func inspectCmd(flags *globalFlags) *cobra.Command {
	var (
		addr      string
		watchFile bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <scene.yaml>",
		Short: "Serve a devtools API for a live scene",
		Long: `Render a scene on a slice loop and serve the inspector API.

Listeners can be fired with POST /dispatch; the resulting renders are
sliced and committed on the loop and streamed to /ws clients.

Examples:
  fiber inspect scenes/counter.yaml
  fiber inspect scenes/counter.yaml --addr :7070 --watch
  curl -XPOST localhost:7070/dispatch -d '{"target":"counter-inc"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Inspect.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			logger := newLogger(cfg, cmd.ErrOrStderr())
			path := args[0]

			reg := scene.Builtins()
			sc, err := scene.Load(path, reg)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			metrics := prometheus.NewRegistry()
			metrics.MustRegister(collectors.NewGoCollector())
			stream := inspect.NewStream()

			loop := newLoop(cfg, logger)
			mem := host.NewMemory()
			root := mem.NewContainer("root")
			rt := vango.New(mem, runtimeOptions(cfg, logger, telemetry.Multi{
				telemetry.NewMetrics(telemetry.WithRegistry(metrics)),
				telemetry.NewTracer(telemetry.WithParentContext(ctx)),
				stream,
			})...)

			loopErr := make(chan error, 1)
			go func() { loopErr <- loop.Run(ctx) }()

			if err := loop.Do(ctx, func() {
				rt.Start(loop)
				rt.Render(sc.Root, root)
			}); err != nil {
				return err
			}

			if watchFile {
				fw := watch.New(watch.Config{Paths: []string{path}, Logger: logger})
				fw.OnChange(func([]watch.Change) {
					next, err := scene.Load(path, reg)
					if err != nil {
						warn(out, "%s", err)
						return
					}
					if err := loop.Submit(func() { rt.Render(next.Root, root) }); err != nil {
						warn(out, "%s", err)
						return
					}
					info(out, "%s reloaded", path)
				})
				go fw.Start(ctx)
			}

			srv := inspect.New(inspect.Config{
				Loop:     loop,
				Runtime:  rt,
				Host:     mem,
				Stream:   stream,
				Gatherer: metrics,
				Logger:   logger,
			})
			httpSrv := &http.Server{
				Addr:              cfg.Inspect.Addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			serveErr := make(chan error, 1)
			go func() { serveErr <- httpSrv.ListenAndServe() }()

			printBanner(out)
			success(out, "Inspecting %s on http://%s", sc.Name, cfg.Inspect.Addr)

			select {
			case <-ctx.Done():
			case err := <-serveErr:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case err := <-loopErr:
				return err
			}

			info(out, "Shutting down...")
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelShutdown()
			srv.Close()
			loop.Close()
			return httpSrv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from fiber.json)")
	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "Re-render when the scene file changes")

	return cmd
}
