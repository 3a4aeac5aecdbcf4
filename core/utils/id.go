package utils

import (
	"crypto/rand"
	"encoding/base64"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateID returns a short lowercase id used in object keys.
func GenerateID() string {
	id, err := gonanoid.Generate(idAlphabet, 10)
	if err != nil {
		return ""
	}
	return id
}

// GenerateNonce returns a url-safe random string of the given length.
func GenerateNonce(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		id, _ := gonanoid.New(length)
		return id
	}
	return base64.RawURLEncoding.EncodeToString(buf)[:length]
}
