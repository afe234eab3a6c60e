// Package id provides unique identifier generation for exported trailers.
package id

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Generate creates a new unique export ID.
// Format: trailer-<timestamp>-<random>
// Example: trailer-1701432000-a1b2c3d4
func Generate() string {
	random, _, _ := strings.Cut(uuid.NewString(), "-")
	return fmt.Sprintf("trailer-%d-%s", time.Now().Unix(), random)
}
