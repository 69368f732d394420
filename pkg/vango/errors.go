package vango

import (
	"github.com/vango-dev/fiber/internal/errors"
)

// ErrCommitAborted is returned when a host adapter call fails during
// commit. The host tree may be partially mutated; the committed fiber tree
// is left unchanged.
var ErrCommitAborted = errors.New("E020")

// ErrRenderPanic is returned when a component panics during its unit. The
// build is abandoned and the host tree is untouched.
var ErrRenderPanic = errors.New("E021")

// ErrNoRoot is returned by Rerender before anything was rendered, and
// reported by Render when it is given a nil container.
var ErrNoRoot = errors.New("E022")

// ErrTooManyRerenders is returned when components keep requesting
// re-renders while rendering.
var ErrTooManyRerenders = errors.New("E025")
