package compiler

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// EncryptOutput obfuscates generated text: the passphrase is hashed to a
// fixed-length key, the text's UTF-8 bytes are XORed cyclically against the
// key, and the result is base64-encoded with the URL-safe alphabet.
//
// This is obfuscation, not encryption. There is no authentication and no
// confidentiality guarantee; it only keeps artifacts from being casually
// readable.
func EncryptOutput(text, passphrase string) string {
	key := sha256.Sum256([]byte(passphrase))
	data := []byte(text)
	for i := range data {
		data[i] ^= key[i%len(key)]
	}
	return base64.URLEncoding.EncodeToString(data)
}

// DecryptOutput reverses EncryptOutput. A wrong passphrase is not detected:
// the XOR step silently produces garbage instead of failing. Only malformed
// base64 input returns an error.
func DecryptOutput(encoded, passphrase string) (string, error) {
	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode obfuscated output: %w", err)
	}
	key := sha256.Sum256([]byte(passphrase))
	for i := range data {
		data[i] ^= key[i%len(key)]
	}
	return string(data), nil
}
