package utils

import (
	"crypto/rand"
	"math/big"
)

const tokenCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRandomToken returns a URL-safe random string, used for invitation codes.
func GenerateRandomToken(length int) string {
	max := big.NewInt(int64(len(tokenCharset)))
	token := make([]byte, length)
	for i := range token {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		token[i] = tokenCharset[n.Int64()]
	}
	return string(token)
}
