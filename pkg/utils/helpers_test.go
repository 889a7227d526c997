package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want string
	}{
		{"sub-second keeps native form", 250 * time.Millisecond, "250ms"},
		{"seconds", 12*time.Second + 340*time.Millisecond, "12.34s"},
		{"minutes", 90 * time.Second, "1.5m"},
		{"hours", 90 * time.Minute, "1.5h"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.in))
		})
	}
}

func TestGetStringOrDefault(t *testing.T) {
	assert.Equal(t, "first_name", GetStringOrDefault("first_name", "fn"))
	assert.Equal(t, "fn", GetStringOrDefault("", "fn"))
	assert.Equal(t, "", GetStringOrDefault("", ""))
}

func TestGenerateRequestIDUnique(t *testing.T) {
	assert.NotEqual(t, GenerateRequestID(), GenerateRequestID())
}
