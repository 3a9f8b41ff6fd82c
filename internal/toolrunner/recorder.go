package toolrunner

import (
	"context"
	"strings"
	"sync"
)

// Call is one command seen by a Recorder.
type Call struct {
	Name string
	Args []string
}

// String returns the call as a command line.
func (c Call) String() string {
	return commandLine(c.Name, c.Args)
}

// Recorder is an Executor that records calls instead of running them.
// Respond, when set, decides the result of each call; otherwise every call
// succeeds with empty output.
type Recorder struct {
	mu      sync.Mutex
	calls   []Call
	Respond func(call Call) (*CommandResult, error)
}

// Exec records the call.
func (r *Recorder) Exec(ctx context.Context, name string, args ...string) (*CommandResult, error) {
	call := Call{Name: name, Args: append([]string(nil), args...)}

	r.mu.Lock()
	r.calls = append(r.calls, call)
	respond := r.Respond
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if respond != nil {
		return respond(call)
	}
	return &CommandResult{}, nil
}

// Npx records an npx call.
func (r *Recorder) Npx(ctx context.Context, args ...string) (*CommandResult, error) {
	return r.Exec(ctx, "npx", args...)
}

// Shell records a shell call as sh -c script args...
func (r *Recorder) Shell(ctx context.Context, script string, args ...string) (*CommandResult, error) {
	return r.Exec(ctx, "sh", append([]string{"-c", script}, args...)...)
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Lines returns the recorded calls as command lines.
func (r *Recorder) Lines() []string {
	calls := r.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.String()
	}
	return lines
}

// HasPrefix reports whether any recorded command line starts with prefix.
func (r *Recorder) HasPrefix(prefix string) bool {
	for _, l := range r.Lines() {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}
