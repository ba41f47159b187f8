package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if BuildTime == "" || GitCommit == "" {
		t.Error("build info should be initialized")
	}
}

func TestCompatible(t *testing.T) {
	tests := []struct {
		target, host string
		compatible   bool
		ok           bool
	}{
		{"0.4.40", "0.4.40", true, true},
		{"0.4.40", "0.4.52", true, true},
		{"0.4.40", "0.4.39", false, true},
		{"0.4.40", "0.5.0", false, true},
		{"1.2.0", "1.9.3", true, true},
		{"1.2.0", "2.0.0", false, true},
		{"0.4.40", "v0.4.41", true, true},
		{"0.4.40", "0.4.41-rc.1", true, true},
		{"0.4.40", "not-a-version", false, false},
		{"0.4.40", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.target+"/"+tt.host, func(t *testing.T) {
			compatible, ok := Compatible(tt.target, tt.host)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.compatible, compatible)
		})
	}
}

func TestCompatibleWith_UsesProtocolVersion(t *testing.T) {
	compatible, ok := CompatibleWith(MdbookVersion)
	assert.True(t, ok)
	assert.True(t, compatible)
}
