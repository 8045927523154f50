package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// TokenLength is the length of opaque one-time token strings. Tokens are the
// bearer credential for out-of-band actions (password reset), so they must be
// unguessable: 50 alphanumeric chars is ~297 bits of entropy.
const TokenLength = 50

const tokenCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateTokenString returns a uniformly random alphanumeric string of the
// given length, drawn from crypto/rand. rand.Int avoids the modulo bias a
// naive byte-mask approach would introduce.
func GenerateTokenString(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("token length must be positive, got %d", length)
	}

	out := make([]byte, length)
	max := big.NewInt(int64(len(tokenCharset)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random token: %w", err)
		}
		out[i] = tokenCharset[n.Int64()]
	}
	return string(out), nil
}
