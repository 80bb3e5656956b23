package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		env          string
		debugEnabled bool
	}{
		{"production", false},
		{"development", true},
		{"local", true},
		{"", true},
		{"staging", true},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			l, err := New(tt.env)
			assert.NoError(t, err)
			assert.Equal(t, tt.debugEnabled, l.Core().Enabled(zapcore.DebugLevel))
			assert.True(t, l.Core().Enabled(zapcore.ErrorLevel))
		})
	}
}
