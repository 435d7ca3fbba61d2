package design

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoDocument is returned when a file payload carries no document tree.
var ErrNoDocument = errors.New("design: payload has no document")

// Decode parses a file payload. The only check is that a root node is present.
func Decode(data []byte) (*Document, error) {
	var payload struct {
		Name     string `json:"name"`
		Document *Node  `json:"document"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if payload.Document == nil {
		return nil, ErrNoDocument
	}
	return &Document{Name: payload.Name, Document: *payload.Document}, nil
}
