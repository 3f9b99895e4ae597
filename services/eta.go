package services

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultEtaHours is assumed when a delivery SLA is absent or unparseable.
const DefaultEtaHours = 72

// DefaultEta is the display value used when a material carries no SLA string.
const DefaultEta = "48–72h"

var (
	etaRangePattern  = regexp.MustCompile(`(?i)(\d+)\s*[–-]\s*(\d+)\s*h`)
	etaSinglePattern = regexp.MustCompile(`(?i)(\d+)\s*h`)
)

// ParseEtaHours turns a free-text delivery SLA into hours. The contract:
// two numbers separated by a dash denote an hour range (averaged), a single
// number followed by "h" is taken as-is, anything else defaults to 72h.
func ParseEtaHours(eta string) float64 {
	v := strings.TrimSpace(eta)
	if m := etaRangePattern.FindStringSubmatch(v); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		return (float64(lo) + float64(hi)) / 2
	}
	if m := etaSinglePattern.FindStringSubmatch(v); m != nil {
		h, _ := strconv.Atoi(m[1])
		return float64(h)
	}
	return DefaultEtaHours
}
