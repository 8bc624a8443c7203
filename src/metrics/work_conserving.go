package metrics

// Idle-time accounting. A work-conserving scheduler never idles while a
// thread is runnable; DM idling on a finished queue or EDF-CBS waiting for a
// throttled server is reported as idle-with-work.
type workConserving struct {
	busy         int
	idle         int
	idleWithWork int
}

func (w *workConserving) run(n int) {
	w.busy += n
}

func (w *workConserving) idleFor(n int, hadWork bool) {
	w.idle += n
	if hadWork {
		w.idleWithWork += n
	}
}

// Share of the elapsed time the CPU was busy, in percent.
func (w *workConserving) utilizationPct() float64 {
	total := w.busy + w.idle
	if total == 0 {
		return 0
	}
	return 100.0 * float64(w.busy) / float64(total)
}

// Share of the time with runnable work during which the CPU idled, in
// percent.
func (w *workConserving) idleWithWorkPct() float64 {
	withWork := w.busy + w.idleWithWork
	if withWork == 0 {
		return 0
	}
	return 100.0 * float64(w.idleWithWork) / float64(withWork)
}
