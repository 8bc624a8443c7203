package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

var ErrInvalidWorkload = errors.New("invalid workload")

// A simulation input: the policy to run and the threads to run it on.
type Workload struct {
	Policy      string     `yaml:"policy"`
	TimeQuantum int        `yaml:"quantum"`
	Horizon     int        `yaml:"horizon"`
	MissPolicy  MissPolicy `yaml:"miss"`
	Threads     []*Thread  `yaml:"threads"`
}

// Fills unset knobs with their defaults.
func (w *Workload) ApplyDefaults() {
	if w.TimeQuantum == 0 {
		w.TimeQuantum = DefaultTimeQuantum
	}
	if w.Horizon == 0 {
		w.Horizon = DefaultHorizon
	}
	if w.MissPolicy == "" {
		w.MissPolicy = MissAbort
	}
}

func (w *Workload) Validate() error {
	if w.TimeQuantum < 1 {
		return fmt.Errorf("%w: quantum must be at least 1, got %d", ErrInvalidWorkload, w.TimeQuantum)
	}
	if w.Horizon < 1 {
		return fmt.Errorf("%w: horizon must be at least 1, got %d", ErrInvalidWorkload, w.Horizon)
	}
	if !w.MissPolicy.Valid() {
		return fmt.Errorf("%w: unknown miss policy %q", ErrInvalidWorkload, w.MissPolicy)
	}
	if len(w.Threads) == 0 {
		return fmt.Errorf("%w: no threads", ErrInvalidWorkload)
	}

	seen := make(map[int]bool, len(w.Threads))
	for _, t := range w.Threads {
		if t == nil {
			return fmt.Errorf("%w: empty thread entry", ErrInvalidWorkload)
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: duplicate thread id %d", ErrInvalidWorkload, t.ID)
		}
		seen[t.ID] = true
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidWorkload, err)
		}
	}
	return nil
}

// Threads sorted by ID, deep-copied so a run never touches the workload.
func (w *Workload) CloneThreads() []*Thread {
	out := make([]*Thread, len(w.Threads))
	for i, t := range w.Threads {
		c := *t
		out[i] = &c
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Decode, default and validate a YAML workload.
func ReadWorkload(r io.Reader) (*Workload, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	w := &Workload{}
	if err := dec.Decode(w); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidWorkload)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidWorkload, err)
	}
	w.ApplyDefaults()
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

func ParseWorkload(data []byte) (*Workload, error) {
	return ReadWorkload(bytes.NewReader(data))
}

func LoadWorkload(path string) (*Workload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadWorkload(f)
}

func (w *Workload) Marshal() ([]byte, error) {
	return yaml.Marshal(w)
}
