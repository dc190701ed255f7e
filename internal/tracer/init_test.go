package tracer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleRatio(t *testing.T) {
	tests := []struct {
		env  string
		want float64
	}{
		{"", 1},
		{"0.25", 0.25},
		{"0", 0},
		{"2", 1},
		{"abc", 1},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("OTEL_SAMPLE_RATIO", tt.env)
			assert.Equal(t, tt.want, sampleRatio())
		})
	}
}

func TestInitTracerDisabled(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "false")
	shutdown := InitTracer()
	assert.NoError(t, shutdown(context.Background()))
}
