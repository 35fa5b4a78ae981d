package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// Short returns the first 12 hex digits, enough to tell runs apart in logs
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// ComputeParamsHash fingerprints an ordered list of named numeric inputs.
// Identical inputs always produce the same hash; floats are written in
// their shortest round-trip form so 0.1 and 0.10 agree.
func ComputeParamsHash(fields ...Field) Hash {
	var data strings.Builder
	for _, f := range fields {
		data.WriteString(f.Name)
		data.WriteByte('=')
		switch v := f.Value.(type) {
		case float64:
			data.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		default:
			data.WriteString(fmt.Sprintf("%v", v))
		}
		data.WriteByte(';')
	}
	return NewHash([]byte(data.String()))
}

// Field is one named input to ComputeParamsHash
type Field struct {
	Name  string
	Value interface{}
}
