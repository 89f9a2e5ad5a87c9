package utils

import (
	"crypto/rand"
	"fmt"
	"log"
	"time"
)

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewSessionID creates a session id in the `<unixMillis>_<9-char base36>`
// wire format the front-end already stores. The suffix comes from
// crypto/rand, so collisions are vanishingly unlikely but the format
// carries no uniqueness guarantee.
func NewSessionID() string {
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), randomBase36(9))
}

func randomBase36(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		log.Printf("ERROR: Failed to generate random bytes for session ID: %v", err)
		return fmt.Sprintf("%09d", time.Now().UnixNano()%1_000_000_000)
	}
	for i := range b {
		b[i] = base36Alphabet[int(b[i])%len(base36Alphabet)]
	}
	return string(b)
}
