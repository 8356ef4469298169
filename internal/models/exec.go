package models

// ExecResult is the outcome of one supervised external invocation.
type ExecResult struct {
	ExitCode int
	Log      string   // Full stdout+stderr capture, per-channel order preserved.
	Stdout   []string // Stdout lines only.
	SpawnErr error    // Set when the executable could not be started.
}

// OK returns true if the process started and exited zero.
func (r ExecResult) OK() bool {
	return r.SpawnErr == nil && r.ExitCode == 0
}
