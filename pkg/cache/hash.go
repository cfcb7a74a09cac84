package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds "prefix:sha256(json(parts))".
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// GraphParams are the inputs that fully determine a generated graph.
type GraphParams struct {
	Nodes       int     `json:"nodes"`
	Probability float64 `json:"probability"`
	Seed        int64   `json:"seed"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
}

// GraphKey returns the cache key for a generated graph.
func GraphKey(p GraphParams) string {
	return hashKey("graph", p)
}
