package sched

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownPolicy = errors.New("unknown scheduling policy")

const (
	DefaultPolicy    = "default"
	HRRNPolicy       = "hrrn"
	PriorityRRPolicy = "priority-rr"
	DMPolicy         = "dm"
	EDFCBSPolicy     = "edf-cbs"
)

var constructors = map[string]func() Policy{
	DefaultPolicy:    NewDefault,
	HRRNPolicy:       NewHRRN,
	PriorityRRPolicy: NewPriorityRR,
	DMPolicy:         NewDM,
	EDFCBSPolicy:     NewEDFCBS,
}

// Creates the policy registered under name. An empty name selects the
// default policy.
func New(name string) (Policy, error) {
	if name == "" {
		name = DefaultPolicy
	}
	newPolicy, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
	return newPolicy(), nil
}

// Names of all policies, sorted.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
