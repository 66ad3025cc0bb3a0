// Package engine evaluates a single zako script: it checks the host, bootstraps
// the version gate, installs a fresh sandbox and module namespace, runs the
// script and finalizes every entity it declared.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aidarkhanov/nanoid"
	"github.com/rotisserie/eris"
	"go.starlark.net/resolve"
	"go.starlark.net/starlark"

	"github.com/moefra/zako/pkg/bridge"
	"github.com/moefra/zako/pkg/entity"
	"github.com/moefra/zako/pkg/kind"
	"github.com/moefra/zako/pkg/modules"
	"github.com/moefra/zako/pkg/rt"
	"github.com/moefra/zako/pkg/sandbox"
	"github.com/moefra/zako/pkg/version"
)

func init() {
	// top-level if and for statements are common in build descriptions
	resolve.AllowGlobalReassign = true
}

// Request describes one evaluation.
type Request struct {
	// Filename is used in backtraces and, if Source is nil, read from disk.
	Filename string
	Source   []byte
	Host     bridge.Host
	// MaxSteps limits the number of Starlark computation steps; 0 disables the
	// limit.
	MaxSteps uint64
}

// Result is what a successful evaluation produced.
type Result struct {
	ID       string
	Kind     kind.Kind
	Version  string
	Modules  []string
	Entities []entity.Entity
}

// Error is returned when the script itself failed. Err is the
// *rt.InternalError, *rt.RuntimeError or *rt.ConfigError describing the
// failure.
type Error struct {
	Script    string
	Err       error
	Backtrace string
}

func (e *Error) Error() string {
	if e.Backtrace != "" {
		return fmt.Sprintf("failed to execute %s:\n%s", e.Script, e.Backtrace)
	}
	return fmt.Sprintf("failed to execute %s: %v", e.Script, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Evaluate runs the script described by req. Host contract violations found
// before the script starts are returned as *rt.InternalError; failures of the
// script are returned as *Error.
func Evaluate(ctx context.Context, req Request) (*Result, error) {
	b, err := bridge.New(req.Host)
	if err != nil {
		return nil, err
	}

	gate, err := version.Bootstrap(b.Version())
	if err != nil {
		return nil, err
	}

	box := sandbox.New(b)
	collector := &entity.Collector{}
	ns, err := modules.Resolve(&modules.Env{
		Bridge:    b,
		Gate:      gate,
		Sandbox:   box,
		Collector: collector,
	})
	if err != nil {
		return nil, err
	}

	src := req.Source
	if src == nil {
		src, err = os.ReadFile(req.Filename)
		if err != nil {
			return nil, eris.Wrapf(err, "failed to read %s", req.Filename)
		}
	}

	evalID := nanoid.New()
	thread := &starlark.Thread{
		Name:  "eval#" + evalID,
		Print: box.Print,
		Load:  ns.Load,
	}
	if req.MaxSteps > 0 {
		thread.SetMaxExecutionSteps(req.MaxSteps)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			thread.Cancel(ctx.Err().Error())
		case <-done:
		}
	}()

	log(ctx).Debug().
		Str("script", req.Filename).
		Str("eval", evalID).
		Str("kind", string(b.Kind())).
		Msgf("evaluating with zako %s", gate)

	_, err = starlark.ExecFile(thread, req.Filename, src, box.Predeclared())
	if err != nil {
		if ctx.Err() != nil {
			return nil, eris.Wrapf(ctx.Err(), "evaluation of %s was cancelled", req.Filename)
		}
		return nil, classify(thread, req.Filename, err)
	}

	result := &Result{
		ID:       evalID,
		Kind:     b.Kind(),
		Version:  gate.String(),
		Modules:  ns.Modules(),
		Entities: collector.Finalize(),
	}

	log(ctx).Debug().
		Str("script", req.Filename).
		Str("eval", evalID).
		Int("entities", len(result.Entities)).
		Msg("evaluation finished")
	return result, nil
}

// classify recovers the zako error kind of a failed execution. Failures that
// did not originate from a zako builtin (syntax errors, fail(), type errors)
// are runtime errors.
func classify(thread *starlark.Thread, filename string, err error) error {
	result := &Error{Script: filename}

	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		result.Backtrace = evalErr.Backtrace()
	}

	var (
		internal  *rt.InternalError
		runtime   *rt.RuntimeError
		configErr *rt.ConfigError
	)

	switch {
	case rt.Raised(thread) != nil:
		result.Err = rt.Raised(thread)
	case errors.As(err, &internal):
		result.Err = internal
	case errors.As(err, &configErr):
		result.Err = configErr
	case errors.As(err, &runtime):
		result.Err = runtime
	case evalErr != nil:
		result.Err = rt.Runtimef("%s", evalErr.Msg)
	default:
		result.Err = rt.Runtimef("%v", err)
	}
	return result
}
