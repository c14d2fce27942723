package utils

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

var (
	nonAlnumRegex  = regexp.MustCompile(`[^a-z0-9]+`)
	multiDashRegex = regexp.MustCompile(`-+`)
)

// Slugify turns a display name into a URL-safe slug.
func Slugify(input string) string {
	slug := strings.ToLower(strings.TrimSpace(input))
	slug = nonAlnumRegex.ReplaceAllString(slug, "-")
	slug = multiDashRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// MaxID is the largest value a SERIAL id column holds.
const MaxID = math.MaxInt32

var ErrIDOutOfRange = errors.New("id out of range")

// ToUint parses an id. Values past MaxID are rejected since no row can carry them.
func ToUint(id string) (uint, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return 0, err
	}
	if n > MaxID {
		return 0, ErrIDOutOfRange
	}
	return uint(n), nil
}

// ValidID reports whether id can name a stored row.
func ValidID(id uint) bool {
	return id > 0 && uint64(id) <= MaxID
}

func WriteJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}
