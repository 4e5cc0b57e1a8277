// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package finder

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/pdiddy/artifact-finder/pkg/types"
)

// Target is the (name, type) pair a search looks for. Build it with
// NewTarget; the folded forms are computed once.
type Target struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`

	foldedName string
	foldedType string
}

// NewTarget returns a Target for name and typ. Both are required.
func NewTarget(name, typ string) (Target, error) {
	name, typ = strings.TrimSpace(name), strings.TrimSpace(typ)
	if name == "" || typ == "" {
		return Target{}, fmt.Errorf("artifact name and type are both required")
	}
	return Target{
		Name:       name,
		Type:       typ,
		foldedName: fold(name),
		foldedType: fold(typ),
	}, nil
}

func (t Target) String() string { return t.Name + " (" + t.Type + ")" }

// Key identifies the target independent of letter case.
func (t Target) Key() string {
	if t.foldedName == "" {
		return fold(t.Name) + "\x00" + fold(t.Type)
	}
	return t.foldedName + "\x00" + t.foldedType
}

// Matches reports whether r is the target: its Name and Type fields equal
// the target's under Unicode case folding. There is no partial matching.
func Matches(r types.Record, t Target) bool {
	if t.foldedName == "" {
		t.foldedName, t.foldedType = fold(t.Name), fold(t.Type)
	}
	return fold(r.Name()) == t.foldedName && fold(r.Type()) == t.foldedType
}

// firstMatch returns the first record in records matching t.
func firstMatch(records []types.Record, t Target) (types.Record, bool) {
	for _, r := range records {
		if Matches(r, t) {
			return r, true
		}
	}
	return nil, false
}

// fold builds a fresh Caser per call; a Caser carries transform state and
// must not be shared across goroutines.
func fold(s string) string {
	return cases.Fold().String(s)
}
