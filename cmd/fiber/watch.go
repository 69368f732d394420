package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/fiber/internal/config"
	"github.com/vango-dev/fiber/internal/errors"
	"github.com/vango-dev/fiber/internal/watch"
	"github.com/vango-dev/fiber/pkg/host"
	"github.com/vango-dev/fiber/pkg/scene"
	"github.com/vango-dev/fiber/pkg/snapshot"
	"github.com/vango-dev/fiber/pkg/vango"
)

func watchCmd(flags *globalFlags) *cobra.Command {
	var (
		debounce  time.Duration
		mutations bool
		snap      bool
	)

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-render scenes as they change",
		Long: `Watch scene files and re-render them on every change.

Each scene keeps its runtime between changes, so an edit is reconciled
against the previously committed tree and only the resulting host
mutations are reported.

Without arguments the "scenes" list from fiber.json is watched.

Examples:
  fiber watch scenes/
  fiber watch scenes/counter.yaml --mutations`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			paths := args
			if len(paths) == 0 {
				paths = cfg.ScenePaths()
			}
			if len(paths) == 0 {
				return usageError("no scene paths given and none configured in fiber.json")
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			w := newSceneWatcher(cfg, cmd.OutOrStdout(), newLogger(cfg, cmd.ErrOrStderr()))
			w.mutations = mutations
			if snap {
				w.store = newStore(cfg, "")
			}
			return w.run(ctx, paths, debounce)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 100*time.Millisecond, "Quiet period before re-rendering")
	cmd.Flags().BoolVarP(&mutations, "mutations", "m", false, "Print the host mutations of every commit")
	cmd.Flags().BoolVar(&snap, "snapshot", false, "Store a snapshot after every re-render")

	return cmd
}

// liveScene is a scene file with its own runtime and host.
type liveScene struct {
	mem  *host.Memory
	rec  *host.Recorder
	root *host.MemNode
	rt   *vango.Runtime
	gen  int
}

type sceneWatcher struct {
	cfg       *config.Config
	out       io.Writer
	logger    *slog.Logger
	reg       *scene.Registry
	mutations bool
	store     snapshot.Store
	scenes    map[string]*liveScene
}

func newSceneWatcher(cfg *config.Config, out io.Writer, logger *slog.Logger) *sceneWatcher {
	return &sceneWatcher{
		cfg:    cfg,
		out:    out,
		logger: logger,
		reg:    scene.Builtins(),
		scenes: make(map[string]*liveScene),
	}
}

func (w *sceneWatcher) run(ctx context.Context, paths []string, debounce time.Duration) error {
	for _, p := range paths {
		w.renderTree(ctx, p)
	}

	fw := watch.New(watch.Config{Paths: paths, Debounce: debounce, Logger: w.logger})
	fw.OnChange(func(changes []watch.Change) {
		for _, c := range changes {
			if c.Removed {
				delete(w.scenes, c.Path)
				info(w.out, "%s removed", c.Path)
				continue
			}
			w.reload(ctx, c.Path)
		}
	})

	go func() {
		<-fw.Ready()
		success(w.out, "Watching %d path(s)", len(paths))
	}()
	if err := fw.Start(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// renderTree renders p, or every scene below it when p is a directory.
func (w *sceneWatcher) renderTree(ctx context.Context, p string) {
	fi, err := os.Stat(p)
	if err != nil {
		warn(w.out, "%s: %v", p, err)
		return
	}
	if !fi.IsDir() {
		w.reload(ctx, p)
		return
	}
	entries, err := os.ReadDir(p)
	if err != nil {
		warn(w.out, "%s: %v", p, err)
		return
	}
	for _, e := range entries {
		w.renderTree(ctx, filepath.Join(p, e.Name()))
	}
}

// reload parses the scene at path and renders it into its runtime. Parse
// and render failures are reported and the last committed tree is kept.
func (w *sceneWatcher) reload(ctx context.Context, path string) {
	if !isSceneFile(path) {
		return
	}
	sc, err := scene.Load(path, w.reg)
	if err != nil {
		warn(w.out, "%s", errors.FromError(err, "E130").FormatCompact())
		return
	}

	live := w.scenes[path]
	if live == nil {
		mem := host.NewMemory()
		rec := host.NewRecorder(mem)
		live = &liveScene{
			mem:  mem,
			rec:  rec,
			root: mem.NewContainer("root"),
			rt:   vango.New(rec, runtimeOptions(w.cfg, w.logger.With("scene", sc.Name), nil)...),
		}
		w.scenes[path] = live
	}
	live.gen++
	live.rec.Reset()

	live.rt.Render(sc.Root, live.root)
	if err := live.rt.Flush(); err != nil {
		warn(w.out, "%s: %s", sc.Name, err)
		return
	}

	success(w.out, "%s #%d: %d mutations", sc.Name, live.gen, live.rec.Len())
	if w.mutations {
		for _, m := range live.rec.Mutations() {
			fmt.Fprintf(w.out, "    %s\n", m)
		}
	}
	for _, c := range live.root.Children {
		info(w.out, "%s", c.String())
	}

	if w.store != nil {
		if err := w.store.Put(ctx, snapshot.Capture(sc.Name, live.gen, live.root)); err != nil {
			warn(w.out, "%s", err)
		}
	}
}

func isSceneFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range watch.DefaultExtensions {
		if ext == want {
			return true
		}
	}
	return false
}
