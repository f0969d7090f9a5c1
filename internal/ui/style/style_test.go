package style_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/grit/internal/core/domain"
	"go.trai.ch/grit/internal/ui/style"
)

func TestStatusIcon(t *testing.T) {
	tests := []struct {
		status domain.TargetStatus
		icon   string
	}{
		{domain.StatusCompleted, style.Check},
		{domain.StatusFailed, style.Cross},
		{domain.StatusSkipped, style.Tilde},
		{domain.StatusRunning, style.Dot},
		{domain.StatusPending, style.Circle},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			icon, color := style.StatusIcon(tt.status)
			assert.Equal(t, tt.icon, icon)
			assert.NotEmpty(t, string(color))
		})
	}
}
