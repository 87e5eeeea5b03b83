package helpers

import "crypto/rand"

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// rejectAbove is the largest multiple of len(tokenAlphabet) that fits in a
// byte; bytes at or above it are discarded so every symbol is equally likely.
const rejectAbove = 256 - 256%len(tokenAlphabet)

// SecureRandomString returns a high-entropy alphanumeric string of the
// given length from crypto/rand.
func SecureRandomString(length int) (string, error) {
	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= rejectAbove {
				continue
			}
			out = append(out, tokenAlphabet[int(b)%len(tokenAlphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
