// Package checksum fingerprints file contents for the run journal.
package checksum

import (
	"crypto/sha256"
	"fmt"
)

// Sum returns the lower-case hex SHA-256 of data.
func Sum(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
