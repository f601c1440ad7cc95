package codec

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Score bounds applied to every decoded record.
const (
	MaxCGPA       = 10.0
	MaxAttendance = 100.0
)

// NewID returns a fresh record identifier.
func NewID() string {
	return uuid.NewString()
}

// clamp pins v into [0, hi]; NaN becomes 0.
func clamp(v, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(hi, v))
}

// parseScore reads a numeric cell, falling back to 0 when it does not parse.
func parseScore(s string, hi float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return clamp(f, hi)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
