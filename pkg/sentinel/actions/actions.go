// Package actions implements the built-in optimization actions behind a
// uniform contract. The set is closed: every action kind is registered at
// construction and looked up by the optimizer during initialization, so an
// unknown kind is a configuration error before any task runs.
//
// An action returns either a bare bool or a *types.ActionOutcome; the
// executor normalizes anything else into an unexpected-return result.
package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/config"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/memtier"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/sysmon"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/types"
)

// ErrUnknownAction is returned when a descriptor references an action kind
// that is not registered.
var ErrUnknownAction = errors.New("action not registered")

// Request carries the per-run inputs an action may consume. It is built once
// by the optimizer before dispatch and treated as immutable by actions.
type Request struct {
	// Params are the task's resolved parameters.
	Params types.Params

	// Memory is the tier evaluation snapshot taken before dispatch.
	// Actions must not re-read live memory for policy decisions.
	Memory memtier.Evaluation

	// Cleanup is the temp cleanup configuration.
	Cleanup config.CleanupConfig

	// Metrics supplies live system metrics for non-policy reads such as
	// disk usage.
	Metrics sysmon.Provider
}

// BoolParam returns a bool parameter or the fallback when absent or not a
// bool.
func (r Request) BoolParam(key string, fallback bool) bool {
	if v, ok := r.Params[key].(bool); ok {
		return v
	}
	return fallback
}

// StringParam returns a string parameter or the fallback.
func (r Request) StringParam(key, fallback string) string {
	if v, ok := r.Params[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// Action is one optimization action.
type Action interface {
	// Kind identifies the action.
	Kind() types.ActionKind

	// Run performs the action. The context carries the task's deadline;
	// cooperative actions stop when it is cancelled. The first return
	// value is either a bool or a *types.ActionOutcome.
	Run(ctx context.Context, req Request) (any, error)
}

// Set is the registry of built-in actions.
type Set struct {
	actions map[types.ActionKind]Action
}

// DefaultSet returns the set of all built-in actions.
func DefaultSet() *Set {
	s := &Set{actions: make(map[types.ActionKind]Action)}
	s.register(&AdjustMemory{})
	s.register(&CleanTempFiles{})
	s.register(&DefragmentDisk{})
	s.register(&ThemePerformance{})
	s.register(&FlushDNSCache{})
	s.register(&StartupAudit{})
	return s
}

// NewSet builds a set from the given actions. Used to substitute fakes in
// tests and to build restricted sets.
func NewSet(actions ...Action) *Set {
	s := &Set{actions: make(map[types.ActionKind]Action, len(actions))}
	for _, a := range actions {
		s.register(a)
	}
	return s
}

// register adds an action to the set.
func (s *Set) register(a Action) {
	s.actions[a.Kind()] = a
}

// Get returns the action for a kind.
func (s *Set) Get(kind types.ActionKind) (Action, error) {
	a, ok := s.actions[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, kind)
	}
	return a, nil
}

// Has reports whether the kind is registered.
func (s *Set) Has(kind types.ActionKind) bool {
	_, ok := s.actions[kind]
	return ok
}
