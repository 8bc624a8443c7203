package model

// Admission class of a remote simulation request.
type Priority int

const (
	HIGH_PRIORITY Priority = iota
	LOW_PRIORITY
)

const PRIORITY_LEVEL_COUNT = 2

// What the dispatcher does with a thread whose deadline miss was signalled.
type MissPolicy string

const (
	// Remove the thread and all of its future jobs.
	MissAbort MissPolicy = "abort"
	// Drop the current job; the thread comes back at its next period.
	MissSkip MissPolicy = "skip"
	// Stop the whole run.
	MissHalt MissPolicy = "halt"
)

func (p MissPolicy) Valid() bool {
	switch p {
	case MissAbort, MissSkip, MissHalt:
		return true
	default:
		return false
	}
}

const (
	DefaultTimeQuantum = 2
	DefaultHorizon     = 1000
)
