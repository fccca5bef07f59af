package core

import (
	"crypto/sha256"
	"encoding/hex"
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

// Short returns the first 12 hex characters, for display.
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

// Domain-specific hash types
type (
	ArtifactHash Hash
	DatasetHash  Hash
)

func NewArtifactHash(data []byte) ArtifactHash { return ArtifactHash(NewHash(data)) }

func (h ArtifactHash) String() string { return Hash(h).String() }
func (h DatasetHash) String() string  { return Hash(h).String() }
func (h ArtifactHash) Short() string  { return Hash(h).Short() }
func (h DatasetHash) Short() string   { return Hash(h).Short() }

// ComputeDatasetHash fingerprints a numeric table. Row order matters.
func ComputeDatasetHash(header []string, rows [][]float64) DatasetHash {
	var data strings.Builder
	data.WriteString(strings.Join(header, "\x1f"))
	data.WriteByte('\n')
	for _, row := range rows {
		for i, v := range row {
			if i > 0 {
				data.WriteByte(',')
			}
			data.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		data.WriteByte('\n')
	}
	return DatasetHash(NewHash([]byte(data.String())))
}
