package fabric

import (
	"log/slog"
	"sync"

	"github.com/tebeka/atexit"
)

// LevelTrace is a project-specific log level below Info, the way
// core/util.go defines one for the teacher's fine-grained component
// tracing. The only fabric log at this level is the exit-time node-count
// flush registered by EnableExitTrace; node registration, scope push/pop
// and domain allocation are not logged.
const LevelTrace = slog.Level(-8)

var (
	atexitOnce     sync.Once
	tracingMu      sync.Mutex
	tracingContexts []*Context
)

// EnableExitTrace marks ctx for a final trace flush on process exit,
// registering a single process-wide atexit hook the first time any context
// asks for it — the same fire-and-forget idiom the teacher's sample mains
// use for atexit.Exit(0), just wired from library code instead of a main
// package.
func (c *Context) EnableExitTrace() {
	atexitOnce.Do(func() {
		atexit.Register(flushTracedContexts)
	})
	tracingMu.Lock()
	tracingContexts = append(tracingContexts, c)
	tracingMu.Unlock()
}

func flushTracedContexts() {
	tracingMu.Lock()
	defer tracingMu.Unlock()
	for _, c := range tracingContexts {
		slog.Log(nil, LevelTrace, "fabric: context node count at exit", "context", c.name, "nodes", len(c.Nodes()))
	}
}
