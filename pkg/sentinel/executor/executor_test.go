package executor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/types"
)

func descriptor(name string, timeout time.Duration, critical bool) types.TaskDescriptor {
	return types.TaskDescriptor{
		Name:     name,
		Action:   types.ActionFlushDNSCache,
		Priority: 1,
		Critical: critical,
		Timeout:  timeout,
		Enabled:  true,
	}
}

func TestPoolSize(t *testing.T) {
	tests := []struct {
		name          string
		configuredMax int
		cpus          int
		workers       int
		want          int
	}{
		{"worker count smallest", 8, 8, 2, 2},
		{"cpu count smallest", 8, 4, 6, 4},
		{"configured cap smallest", 2, 8, 6, 2},
		{"zero workers clamps to one", 8, 8, 0, 1},
		{"all equal", 4, 4, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(tt.configuredMax, tt.cpus)
			if got := e.PoolSize(tt.workers); got != tt.want {
				t.Errorf("PoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestExecuteNormalization(t *testing.T) {
	tests := []struct {
		name          string
		invoke        func(ctx context.Context) (any, error)
		wantSuccess   bool
		wantErrorKind types.ErrorKind
		wantWarning   bool
	}{
		{
			name:        "boolean true",
			invoke:      func(ctx context.Context) (any, error) { return true, nil },
			wantSuccess: true,
		},
		{
			name:        "boolean false",
			invoke:      func(ctx context.Context) (any, error) { return false, nil },
			wantSuccess: false,
		},
		{
			name: "structured outcome",
			invoke: func(ctx context.Context) (any, error) {
				return &types.ActionOutcome{Success: true, Details: "done"}, nil
			},
			wantSuccess: true,
		},
		{
			name: "error return",
			invoke: func(ctx context.Context) (any, error) {
				return nil, errors.New("boom")
			},
			wantSuccess:   false,
			wantErrorKind: types.ErrorException,
		},
		{
			name: "panic is recovered",
			invoke: func(ctx context.Context) (any, error) {
				panic("unreachable state")
			},
			wantSuccess:   false,
			wantErrorKind: types.ErrorException,
		},
		{
			name: "unexpected return type",
			invoke: func(ctx context.Context) (any, error) {
				return 42, nil
			},
			wantSuccess:   true,
			wantErrorKind: types.ErrorUnexpectedReturn,
			wantWarning:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(4, 4)
			tasks := []Task{{Desc: descriptor("probe", time.Second, false), Invoke: tt.invoke}}

			results := e.Execute(context.Background(), tasks, 1)
			if len(results) != 1 {
				t.Fatalf("Execute returned %d results, want 1", len(results))
			}

			r := results[0]
			if r.Success != tt.wantSuccess {
				t.Errorf("Success = %v, want %v", r.Success, tt.wantSuccess)
			}
			if r.ErrorKind != tt.wantErrorKind {
				t.Errorf("ErrorKind = %q, want %q", r.ErrorKind, tt.wantErrorKind)
			}
			if tt.wantWarning && r.Warning == "" {
				t.Error("expected a warning, got none")
			}
		})
	}
}

func TestExecuteTimeout(t *testing.T) {
	e := New(4, 4)
	timeout := 50 * time.Millisecond
	tasks := []Task{{
		Desc: descriptor("sleeper", timeout, true),
		Invoke: func(ctx context.Context) (any, error) {
			select {
			case <-time.After(5 * time.Second):
				return true, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	}}

	results := e.Execute(context.Background(), tasks, 1)
	if len(results) != 1 {
		t.Fatalf("Execute returned %d results, want 1", len(results))
	}

	r := results[0]
	if r.Success {
		t.Error("timed-out task reported success")
	}
	if r.ErrorKind != types.ErrorTimeout {
		t.Errorf("ErrorKind = %q, want %q", r.ErrorKind, types.ErrorTimeout)
	}
	if r.Duration < timeout {
		t.Errorf("Duration = %s, want at least %s", r.Duration, timeout)
	}
	if !r.Critical {
		t.Error("result lost the critical flag")
	}
}

func TestExecuteFailureIsolation(t *testing.T) {
	e := New(4, 4)
	tasks := []Task{
		{Desc: descriptor("fails", time.Second, false), Invoke: func(ctx context.Context) (any, error) {
			return nil, errors.New("broken")
		}},
		{Desc: descriptor("panics", time.Second, false), Invoke: func(ctx context.Context) (any, error) {
			panic("broken")
		}},
		{Desc: descriptor("succeeds", time.Second, false), Invoke: func(ctx context.Context) (any, error) {
			return true, nil
		}},
	}

	results := e.Execute(context.Background(), tasks, 3)
	if len(results) != 3 {
		t.Fatalf("Execute returned %d results, want 3", len(results))
	}

	byName := make(map[string]types.TaskResult, len(results))
	for _, r := range results {
		byName[r.Name] = r
	}
	if !byName["succeeds"].Success {
		t.Error("healthy task failed alongside broken siblings")
	}
	if byName["fails"].Success || byName["panics"].Success {
		t.Error("broken task reported success")
	}
}

func TestExecuteBoundedParallelism(t *testing.T) {
	e := New(2, 8)

	var mu sync.Mutex
	running, peak := 0, 0

	invoke := func(ctx context.Context) (any, error) {
		mu.Lock()
		running++
		if running > peak {
			peak = running
		}
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)

		mu.Lock()
		running--
		mu.Unlock()
		return true, nil
	}

	tasks := make([]Task, 6)
	for i := range tasks {
		tasks[i] = Task{Desc: descriptor("t"+string(rune('a'+i)), time.Second, false), Invoke: invoke}
	}

	results := e.Execute(context.Background(), tasks, 6)
	if len(results) != 6 {
		t.Fatalf("Execute returned %d results, want 6", len(results))
	}
	if peak > 2 {
		t.Errorf("observed %d concurrent tasks, cap is 2", peak)
	}
}

func TestExecuteCancelDropsPending(t *testing.T) {
	e := New(1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	tasks := []Task{
		{Desc: descriptor("first", time.Second, false), Invoke: func(ctx context.Context) (any, error) {
			close(started)
			time.Sleep(50 * time.Millisecond)
			return true, nil
		}},
		{Desc: descriptor("second", time.Second, false), Invoke: func(ctx context.Context) (any, error) {
			return true, nil
		}},
	}

	go func() {
		<-started
		cancel()
	}()

	results := e.Execute(ctx, tasks, 1)
	if len(results) != 1 {
		t.Fatalf("Execute returned %d results after cancel, want 1", len(results))
	}
	if results[0].Name != "first" {
		t.Errorf("got result for %q, want the in-flight task", results[0].Name)
	}
	if !results[0].Success {
		t.Errorf("in-flight task reported failure after cancel: %+v", results[0])
	}
}

func TestExecuteCancelDoesNotInterruptRunningTask(t *testing.T) {
	e := New(1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	tasks := []Task{
		{Desc: descriptor("inflight", 10*time.Second, true), Invoke: func(ctx context.Context) (any, error) {
			close(started)
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(50 * time.Millisecond):
			}
			return true, nil
		}},
	}

	go func() {
		<-started
		cancel()
	}()

	start := time.Now()
	results := e.Execute(ctx, tasks, 1)
	elapsed := time.Since(start)

	if len(results) != 1 {
		t.Fatalf("Execute returned %d results, want 1", len(results))
	}
	r := results[0]
	if !r.Success {
		t.Fatalf("cancelled run turned a succeeding task into a failure: %+v", r)
	}
	if r.ErrorKind == types.ErrorTimeout {
		t.Errorf("task reported a timeout that never happened: %+v", r)
	}
	if elapsed < 50*time.Millisecond {
		t.Errorf("task finished in %s, was not awaited to completion", elapsed)
	}
}

func TestExecuteEmptyBatch(t *testing.T) {
	e := New(4, 4)
	if results := e.Execute(context.Background(), nil, 4); results != nil {
		t.Errorf("Execute(nil) = %v, want nil", results)
	}
}
