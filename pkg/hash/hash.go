package hash

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"strings"
)

type Hasher interface {
	Calculate(data []byte) (string, error)
	CalculateReader(reader io.Reader) (string, error)
	Verify(data []byte, expectedHash string) (bool, error)
	Algorithm() string
}

type fileHasher struct {
	algorithm string
}

func New(algorithm string) Hasher {
	return &fileHasher{
		algorithm: strings.ToLower(algorithm),
	}
}

func (h *fileHasher) Calculate(data []byte) (string, error) {
	hasher, err := h.getHasher()
	if err != nil {
		return "", err
	}

	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func (h *fileHasher) CalculateReader(reader io.Reader) (string, error) {
	hasher, err := h.getHasher()
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(hasher, reader); err != nil {
		return "", fmt.Errorf("failed to read data: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func (h *fileHasher) Verify(data []byte, expectedHash string) (bool, error) {
	calculatedHash, err := h.Calculate(data)
	if err != nil {
		return false, err
	}

	return strings.EqualFold(calculatedHash, expectedHash), nil
}

func (h *fileHasher) Algorithm() string {
	return h.algorithm
}

func (h *fileHasher) getHasher() (hash.Hash, error) {
	switch h.algorithm {
	case "md5":
		return md5.New(), nil
	case "sha1":
		return sha1.New(), nil
	case "sha256":
		return sha256.New(), nil
	case "sha512":
		return sha512.New(), nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", h.algorithm)
	}
}
