package scene

import (
	"github.com/vango-dev/fiber/internal/errors"
	"github.com/vango-dev/fiber/pkg/host"
	"github.com/vango-dev/fiber/pkg/vango"
)

// Play renders the scene into container, then dispatches each step and
// flushes the resulting render. after is called once the first render
// commits (step 0) and after every step (1..len(Steps)); it may be nil.
func (s *Scene) Play(rt *vango.Runtime, mem *host.Memory, container *host.MemNode, after func(step int) error) error {
	rt.Render(s.Root, container)
	if err := rt.Flush(); err != nil {
		return err
	}
	if after != nil {
		if err := after(0); err != nil {
			return err
		}
	}

	for i, step := range s.Steps {
		target := container.FindByID(step.Target)
		if target == nil {
			return errors.New("E133").WithDetailf("step %d: no node with id %q", i+1, step.Target)
		}
		handled, err := mem.Dispatch(target, step.Event, step.Payload)
		if err != nil {
			return errors.New("E133").WithDetailf("step %d", i+1).Wrap(err)
		}
		if !handled {
			return errors.New("E133").WithDetailf("step %d: %q has no %s listener", i+1, step.Target, step.Event)
		}
		if err := rt.Flush(); err != nil {
			return err
		}
		if after != nil {
			if err := after(i + 1); err != nil {
				return err
			}
		}
	}
	return nil
}
