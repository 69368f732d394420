package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/fiber/pkg/host"
	"github.com/vango-dev/fiber/pkg/scene"
	"github.com/vango-dev/fiber/pkg/snapshot"
	"github.com/vango-dev/fiber/pkg/vango"
)

type renderOptions struct {
	format      string
	mutations   bool
	snapshot    bool
	snapshotDir string
}

func renderCmd(flags *globalFlags) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render <scene.yaml>",
		Short: "Render a scene and replay its steps",
		Long: `Render a scene into an in-memory host, replay its scripted steps
and print the committed tree after each one.

Formats:
  html    compact markup of the host tree (default)
  json    host tree snapshot as JSON
  fibers  the committed fiber tree with effect tags

Examples:
  fiber render scenes/counter.yaml
  fiber render scenes/list.yaml --mutations
  fiber render scenes/list.yaml --snapshot --snapshot-dir out/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, flags, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "html", "Output format: html, json, fibers")
	cmd.Flags().BoolVarP(&opts.mutations, "mutations", "m", false, "Print the host mutations of every commit")
	cmd.Flags().BoolVar(&opts.snapshot, "snapshot", false, "Store a snapshot after every step")
	cmd.Flags().StringVar(&opts.snapshotDir, "snapshot-dir", "", "Write snapshots to this directory instead of the configured store")

	return cmd
}

func runRender(cmd *cobra.Command, flags *globalFlags, opts renderOptions, path string) error {
	switch opts.format {
	case "html", "json", "fibers":
	default:
		return usageError("unknown format %q", opts.format)
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	logger := newLogger(cfg, cmd.ErrOrStderr())

	sc, err := scene.Load(path, scene.Builtins())
	if err != nil {
		return err
	}

	var store snapshot.Store
	if opts.snapshot || opts.snapshotDir != "" {
		store = newStore(cfg, opts.snapshotDir)
	}

	mem := host.NewMemory()
	rec := host.NewRecorder(mem)
	root := mem.NewContainer("root")
	rt := vango.New(rec, runtimeOptions(cfg, logger, nil)...)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	err = sc.Play(rt, mem, root, func(step int) error {
		label := "initial render"
		if step > 0 {
			s := sc.Steps[step-1]
			label = fmt.Sprintf("step %d: %s #%s", step, s.Event, s.Target)
		}
		fmt.Fprintf(out, "# %s (%d mutations)\n", label, rec.Len())
		if opts.mutations {
			for _, m := range rec.Mutations() {
				fmt.Fprintf(out, "  %s\n", m)
			}
		}
		if err := printTree(out, opts.format, rt, root); err != nil {
			return err
		}
		rec.Reset()

		if store != nil {
			if err := store.Put(ctx, snapshot.Capture(sc.Name, step, root)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	st := rt.Stats()
	logger.Info("scene rendered",
		"scene", sc.Name,
		"steps", len(sc.Steps),
		"commits", st.Commits,
		"units", st.Units,
		"fibers", st.LiveFibers,
	)
	return nil
}

func printTree(w io.Writer, format string, rt *vango.Runtime, root *host.MemNode) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(root.Snapshot(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n", data)
	case "fibers":
		fmt.Fprint(w, rt.Dump())
	default:
		var b strings.Builder
		for _, c := range root.Children {
			b.WriteString(c.String())
		}
		fmt.Fprintln(w, b.String())
	}
	return nil
}
