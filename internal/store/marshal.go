package store

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/roach88/jitfront/internal/compiler"
	"github.com/roach88/jitfront/internal/ir"
)

// Entry is a cached translation.
type Entry struct {
	Unit string `msgpack:"unit"`
	Kind string `msgpack:"kind"`

	// IRHash is the content ID from ir.UnitHash.
	IRHash string `msgpack:"ir_hash"`

	// Canonical is the RFC 8785 encoding of the tree.
	Canonical []byte `msgpack:"canonical"`

	// Text is the ir.Sprint dump of the tree.
	Text string `msgpack:"text"`
}

// NewEntry builds the cache entry for a translated unit.
func NewEntry(u compiler.Unit, n ir.Node) (Entry, error) {
	hash, err := ir.UnitHash(n)
	if err != nil {
		return Entry{}, fmt.Errorf("entry for %s: %w", u.Name, err)
	}
	canonical, err := ir.MarshalCanonical(ir.ToValue(n))
	if err != nil {
		return Entry{}, fmt.Errorf("entry for %s: %w", u.Name, err)
	}
	return Entry{
		Unit:      u.Name,
		Kind:      string(u.Kind),
		IRHash:    hash,
		Canonical: canonical,
		Text:      ir.Sprint(n),
	}, nil
}

// Key computes the cache key of a unit translated from src. dropped
// reports whether the drop policy replaced the body with a stub;
// droppedMembers lists the stubbed members of a class unit, as returned by
// compiler.DroppedMembers.
func Key(u compiler.Unit, src compiler.SourceInfo, dropped bool, droppedMembers []compiler.Handle) (string, error) {
	members := make(ir.Array, len(droppedMembers))
	for i, h := range droppedMembers {
		members[i] = ir.String(h)
	}
	return ir.CacheKey(ir.Object{
		"unit":            ir.String(u.Name),
		"kind":            ir.String(u.Kind),
		"self_name":       ir.String(u.SelfName),
		"dropped":         ir.Bool(dropped),
		"dropped_members": members,
		"text":            ir.String(src.Text),
		"file":            ir.String(src.File),
		"line":            ir.Int(src.Line),
		"indent":          ir.Int(src.Indent),
		"true_division":   ir.Bool(src.TrueDivision),
		"legacy":          ir.Bool(src.Legacy),
		"ir_version":      ir.String(ir.IRVersion),
	})
}

func marshalEntry(e Entry) ([]byte, error) {
	data, err := msgpack.Marshal(&e)
	if err != nil {
		return nil, fmt.Errorf("marshal entry: %w", err)
	}
	return data, nil
}

func unmarshalEntry(data []byte) (Entry, error) {
	var e Entry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return Entry{}, fmt.Errorf("unmarshal entry: %w", err)
	}
	return e, nil
}
