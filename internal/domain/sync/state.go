package sync

// RunState tracks a run through its lifecycle. Transitions only move
// forward; Aborted and Failed are terminal alongside Completed.
type RunState string

const (
	StateInit        RunState = "init"
	StateConfiguring RunState = "configuring"
	StateFetching    RunState = "fetching"
	StateMapping     RunState = "mapping"
	StateDiffing     RunState = "diffing"
	StateUpserting   RunState = "upserting"
	StateCompleted   RunState = "completed"
	StateAborted     RunState = "aborted"
	StateFailed      RunState = "failed"
)

// Terminal reports whether the run has finished in any way.
func (s RunState) Terminal() bool {
	switch s {
	case StateCompleted, StateAborted, StateFailed:
		return true
	}
	return false
}
