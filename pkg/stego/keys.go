package stego

import (
	"crypto/sha256"
	"encoding/binary"

	"golang.org/x/crypto/pbkdf2"
)

const (
	passphraseSalt       = "STG1-key"
	passphraseIterations = 100000
)

// KeyFromPassphrase derives a numeric embedding key from a passphrase with PBKDF2-SHA256.
// The key only seeds the cell permutation; payload bytes are not encrypted.
func KeyFromPassphrase(passphrase string) uint64 {
	derived := pbkdf2.Key([]byte(passphrase), []byte(passphraseSalt), passphraseIterations, 8, sha256.New)
	return binary.BigEndian.Uint64(derived)
}
