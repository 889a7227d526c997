package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerateRequestID returns a unique id for correlating a request across
// handler logs and responses.
func GenerateRequestID() string {
	return uuid.New().String()
}

// FormatDuration renders a duration at a precision suited to human-facing
// status output. Sub-second values keep Go's native formatting.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return d.String()
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.1fm", d.Minutes())
	default:
		return fmt.Sprintf("%.1fh", d.Hours())
	}
}

// GetStringOrDefault returns value unless it is empty, in which case the
// fallback is used.
func GetStringOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
