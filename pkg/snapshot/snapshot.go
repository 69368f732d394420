package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vango-dev/fiber/pkg/host"
)

// Record is one captured host tree.
type Record struct {
	Scene string        `json:"scene"`
	Step  int           `json:"step"`
	Time  time.Time     `json:"time"`
	Nodes int           `json:"nodes"`
	Tree  host.Snapshot `json:"tree"`
}

// Capture copies the subtree under root.
func Capture(scene string, step int, root *host.MemNode) *Record {
	tree := root.Snapshot()
	return &Record{
		Scene: scene,
		Step:  step,
		Time:  time.Now().UTC(),
		Nodes: tree.Count(),
		Tree:  tree,
	}
}

// Key returns the store key of the record, e.g. "counter/002.json".
func (r *Record) Key() string {
	name := strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
			return c
		default:
			return '_'
		}
	}, r.Scene)
	if name == "" {
		name = "scene"
	}
	return fmt.Sprintf("%s/%03d.json", name, r.Step)
}

// Encode returns the indented JSON form of the record.
func (r *Record) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Decode parses a record produced by Encode.
func Decode(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Store persists records.
type Store interface {
	// Put writes rec under rec.Key(), replacing any previous record.
	Put(ctx context.Context, rec *Record) error
}
