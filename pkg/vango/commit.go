package vango

import (
	"time"

	"github.com/vango-dev/fiber/internal/errors"
	"github.com/vango-dev/fiber/pkg/fiber"
	"github.com/vango-dev/fiber/pkg/hooks"
	"github.com/vango-dev/fiber/pkg/host"
	"github.com/vango-dev/fiber/pkg/vdom"
)

// commitRoot applies the finished build to the host and promotes it. On an
// adapter failure the walk stops where it is and the committed tree keeps
// pointing at the previous build.
func (r *Runtime) commitRoot() error {
	start := time.Now()
	stats := CommitStats{Ops: make(map[host.Op]int)}

	err := r.commitWork(&stats)
	if err != nil {
		err = errors.New("E020").Wrap(err).
			WithSuggestion("The host tree may be partially updated; the next render reconciles against the last committed tree")
		r.wipRoot = fiber.Nil
		r.nextUnit = fiber.Nil
		r.deletions = nil
		r.carried = nil
		r.stats.FailedCommits++
		r.logger.Error("commit aborted", "error", err, "ops", stats.Mutations())
		r.observer.Committed(stats, time.Since(start), err)
		return err
	}

	r.arena.Walk(r.wipRoot, func(_ fiber.ID, f *fiber.Fiber) bool {
		if f.IsComponent() {
			hooks.Commit(f.Hooks)
		}
		return true
	})

	r.currentRoot = r.wipRoot
	r.wipRoot = fiber.Nil
	r.deletions = nil
	r.restarts = 0
	r.carried = nil
	stats.Freed = r.arena.Sweep(r.currentRoot)

	r.stats.Commits++
	r.stats.Last = stats
	d := time.Since(start)
	r.logger.Debug("commit",
		"placements", stats.Placements,
		"updates", stats.Updates,
		"deletions", stats.Deletions,
		"ops", stats.Mutations(),
		"freed", stats.Freed,
		"duration", d,
	)
	r.observer.Committed(stats, d, nil)
	return nil
}

func (r *Runtime) commitWork(stats *CommitStats) error {
	for _, id := range r.deletions {
		if err := r.commitDeletion(id, stats); err != nil {
			return err
		}
		stats.Deletions++
	}

	var err error
	r.arena.Walk(r.wipRoot, func(id fiber.ID, f *fiber.Fiber) bool {
		if err != nil {
			return false
		}
		if id == r.wipRoot {
			return true
		}
		switch f.Effect {
		case fiber.Placement:
			stats.Placements++
			if f.Node != nil {
				err = r.commitPlacement(id, f, stats)
			}
		case fiber.Update:
			stats.Updates++
			if f.Node != nil {
				err = r.commitUpdate(f, stats)
			}
		}
		return err == nil
	})
	return err
}

// commitPlacement appends the fiber's node to its host parent. Appending
// puts it last, so nodes of kept fibers that follow it are appended again to
// restore tree order. Later placements are appended in their own turn.
func (r *Runtime) commitPlacement(id fiber.ID, f *fiber.Fiber, stats *CommitStats) error {
	parent := r.arena.Get(r.arena.HostParent(id)).Node
	if err := r.op(stats, host.OpAppendChild, func() error {
		return r.adapter.AppendChild(parent, f.Node)
	}); err != nil {
		return err
	}
	for _, after := range r.arena.HostsAfter(id) {
		af := r.arena.Get(after)
		if af.Effect == fiber.Placement {
			continue
		}
		if err := r.op(stats, host.OpAppendChild, func() error {
			return r.adapter.AppendChild(parent, af.Node)
		}); err != nil {
			return err
		}
	}
	return nil
}

// commitDeletion removes the host nodes of a deleted subtree. A fiber
// without a node is a component; its top-most host descendants are removed
// instead, from the nearest host ancestor above the deleted fiber.
func (r *Runtime) commitDeletion(id fiber.ID, stats *CommitStats) error {
	parentID := r.arena.HostParent(id)
	if parentID == fiber.Nil {
		return errors.New("E024").WithDetail("deleted fiber has no host ancestor")
	}
	parent := r.arena.Get(parentID).Node
	for _, top := range r.arena.TopHosts(id) {
		node := r.arena.Get(top).Node
		if err := r.op(stats, host.OpRemoveChild, func() error {
			return r.adapter.RemoveChild(parent, node)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runtime) commitUpdate(f *fiber.Fiber, stats *CommitStats) error {
	var prev vdom.Props
	if f.Alternate != fiber.Nil {
		prev = r.arena.Get(f.Alternate).Props
	}
	for _, c := range vdom.DiffProps(prev, f.Props) {
		if err := r.applyChange(f.Node, c, stats); err != nil {
			return err
		}
	}
	return nil
}

// applyChange performs one property or listener change. stats may be nil.
func (r *Runtime) applyChange(node host.Node, c vdom.PropChange, stats *CommitStats) error {
	switch c.Op {
	case vdom.OpSetProp:
		return r.op(stats, host.OpSetProperty, func() error {
			return r.adapter.SetProperty(node, c.Name, c.Value)
		})
	case vdom.OpRemoveProp:
		return r.op(stats, host.OpRemoveProperty, func() error {
			return r.adapter.RemoveProperty(node, c.Name)
		})
	case vdom.OpAddListener:
		return r.op(stats, host.OpAddListener, func() error {
			return r.adapter.AddListener(node, c.Name, c.Value)
		})
	case vdom.OpRemoveListener:
		return r.op(stats, host.OpRemoveListener, func() error {
			return r.adapter.RemoveListener(node, c.Name, c.Value)
		})
	}
	return nil
}

func (r *Runtime) op(stats *CommitStats, op host.Op, fn func() error) error {
	if err := fn(); err != nil {
		return err
	}
	if stats != nil {
		stats.Ops[op]++
	}
	return nil
}
