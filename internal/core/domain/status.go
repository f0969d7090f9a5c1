package domain

import "strings"

// TargetStatus represents the lifecycle state of a target during one invocation.
type TargetStatus string

const (
	// StatusPending indicates the target is planned but has not started.
	StatusPending TargetStatus = "pending"
	// StatusRunning indicates the target's commands are executing.
	StatusRunning TargetStatus = "running"
	// StatusCompleted indicates every command of the target succeeded.
	StatusCompleted TargetStatus = "completed"
	// StatusFailed indicates one of the target's commands failed.
	StatusFailed TargetStatus = "failed"
	// StatusSkipped indicates the target was only printed (dry run).
	StatusSkipped TargetStatus = "skipped"
)

// IsTerminal checks if a status is a terminal state (Completed, Failed, Skipped).
func (s TargetStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusSkipped:
		return true
	default:
		return false
	}
}

// NormalizeTargetStatus converts a string to a TargetStatus, defaulting to pending if unknown.
func NormalizeTargetStatus(s string) TargetStatus {
	switch st := TargetStatus(strings.ToLower(s)); st {
	case StatusPending, StatusRunning, StatusCompleted, StatusFailed, StatusSkipped:
		return st
	default:
		return StatusPending
	}
}
