package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2SaltSize   = 16
	pbkdf2KeySize    = 32
	pbkdf2Iterations = 100000
)

var ErrPasswordMismatch = errors.New("password does not match")

// HashPassword derives a salted PBKDF2-SHA256 key and encodes it as
// "iterations.salt.key" with base64 salt and key.
func HashPassword(password string) (string, error) {
	salt := make([]byte, pbkdf2SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeySize, sha256.New)

	return fmt.Sprintf("%d.%s.%s",
		pbkdf2Iterations,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key)), nil
}

// CheckPassword re-derives the key with the stored salt and iteration count
// and compares in constant time. Any malformed hash fails closed.
func CheckPassword(password, encodedHash string) error {
	parts := strings.SplitN(encodedHash, ".", 3)
	if len(parts) != 3 {
		return ErrPasswordMismatch
	}

	iterations, err := strconv.Atoi(parts[0])
	if err != nil || iterations <= 0 {
		return ErrPasswordMismatch
	}

	salt, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return ErrPasswordMismatch
	}

	expectedKey, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil || len(expectedKey) == 0 {
		return ErrPasswordMismatch
	}

	actualKey := pbkdf2.Key([]byte(password), salt, iterations, len(expectedKey), sha256.New)
	if subtle.ConstantTimeCompare(actualKey, expectedKey) != 1 {
		return ErrPasswordMismatch
	}

	return nil
}
