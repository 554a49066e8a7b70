package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldMigrate(t *testing.T) {
	tests := []struct {
		name  string
		force bool
		mode  string
		want  bool
	}{
		{"debug migrates by default", false, "debug", true},
		{"release skips by default", false, "release", false},
		{"release migrates when forced", true, "release", true},
		{"debug with force stays on", true, "debug", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldMigrate(tt.force, tt.mode))
		})
	}
}
