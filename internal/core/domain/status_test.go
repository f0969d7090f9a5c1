package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/grit/internal/core/domain"
)

func TestTargetStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     domain.TargetStatus
		isTerminal bool
	}{
		{"Pending", domain.StatusPending, false},
		{"Running", domain.StatusRunning, false},
		{"Completed", domain.StatusCompleted, true},
		{"Failed", domain.StatusFailed, true},
		{"Skipped", domain.StatusSkipped, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isTerminal, tt.status.IsTerminal())
		})
	}
}

func TestNormalizeTargetStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected domain.TargetStatus
	}{
		{"pending", domain.StatusPending},
		{"RUNNING", domain.StatusRunning},
		{"completed", domain.StatusCompleted},
		{"failed", domain.StatusFailed},
		{"skipped", domain.StatusSkipped},
		{"unknown", domain.StatusPending},
		{"", domain.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.NormalizeTargetStatus(tt.input))
		})
	}
}
