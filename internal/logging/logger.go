// Package logging provides a process-wide structured logger for the
// reasoner, with a small per-subsystem category wrapper so individual
// subsystems can be silenced independently, the way the teacher silences
// CategoryBoot, CategoryKernel, etc.
package logging

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Category names a reasoner subsystem for independent log silencing.
type Category string

const (
	CategoryTerm     Category = "term"
	CategoryProver   Category = "prover"
	CategoryForward  Category = "forward"
	CategoryBuiltins Category = "builtins"
	CategoryFetch    Category = "fetch"

	// CategoryTrace is log:trace's diagnostic side channel (spec §4.5):
	// every line a goal writes via log:trace is logged here at debug
	// level rather than through a bespoke writer.
	CategoryTrace Category = "trace"
)

var allCategories = []Category{
	CategoryTerm, CategoryProver, CategoryForward, CategoryBuiltins, CategoryFetch, CategoryTrace,
}

var (
	mu      sync.RWMutex
	base    = zap.NewNop()
	enabled = map[Category]bool{}
)

func init() {
	for _, c := range allCategories {
		enabled[c] = true
	}
}

// Init builds the process-wide logger. verbose selects the teacher's
// development config (debug level, console-encoded); otherwise a
// production JSON config at info level is built.
func Init(verbose bool) error {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("logging: building logger: %w", err)
	}
	mu.Lock()
	base = l
	mu.Unlock()
	return nil
}

// SetLogger installs an already-built logger, for hosts embedding the
// reasoner with their own zap configuration.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	if l == nil {
		l = zap.NewNop()
	}
	base = l
	mu.Unlock()
}

// Disable silences a category.
func Disable(c Category) {
	mu.Lock()
	enabled[c] = false
	mu.Unlock()
}

// Enable re-enables a previously disabled category.
func Enable(c Category) {
	mu.Lock()
	enabled[c] = true
	mu.Unlock()
}

// Get returns the process logger scoped to category, annotated with a
// "category" field, or a no-op logger if category has been silenced.
func Get(c Category) *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if on, ok := enabled[c]; ok && !on {
		return zap.NewNop()
	}
	return base.With(zap.String("category", string(c)))
}

// Trace logs one log:trace diagnostic line under CategoryTrace.
func Trace(line string) {
	Get(CategoryTrace).Debug(line)
}

// Sync flushes any buffered log entries, called at shutdown.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return base.Sync()
}
