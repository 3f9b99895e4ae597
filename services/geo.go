package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// UnreachableKm is the sentinel distance returned for malformed pincodes.
// Callers filter by a radius threshold, so such candidates fall out of range
// instead of failing the run.
const UnreachableKm = 9999

var pincodePattern = regexp.MustCompile(`^\d{6}$`)

// IsValidPincode reports whether the value is a six-digit postal code.
func IsValidPincode(pincode string) bool {
	return pincodePattern.MatchString(strings.TrimSpace(pincode))
}

// ApproxKmBetweenPincodes is a deterministic, pincode-only distance
// approximation: 100 difference ≈ 10km, capped at 500km. A production system
// would swap this for a real distance service behind the same signature
// (two postal codes in, kilometers out, never fails).
func ApproxKmBetweenPincodes(a, b string) float64 {
	pa, errA := strconv.Atoi(strings.TrimSpace(a))
	pb, errB := strconv.Atoi(strings.TrimSpace(b))
	if errA != nil || errB != nil {
		return UnreachableKm
	}
	diff := math.Abs(float64(pa - pb))
	return math.Min(500, math.Round(diff/10))
}
