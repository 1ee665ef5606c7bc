package strategy

import (
	"fmt"
	"strings"
)

// Kind identifies one member of the closed set of strategies.
type Kind int

const (
	KindChalk Kind = iota
	KindSlightContrarian
	KindAggressiveContrarian
	KindRandomMidShuffle
	KindCustom
)

var kindNames = map[Kind]string{
	KindChalk:                "Chalk-MaxPoints",
	KindSlightContrarian:     "Slight-Contrarian",
	KindAggressiveContrarian: "Aggressive-Contrarian",
	KindRandomMidShuffle:     "Random-MidShuffle",
	KindCustom:               "Custom-User",
}

var kindCodes = map[Kind]string{
	KindChalk:                "chalk",
	KindSlightContrarian:     "slight",
	KindAggressiveContrarian: "aggress",
	KindRandomMidShuffle:     "shuffle",
	KindCustom:               "user",
}

// String returns the display name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Code returns the short code used in file names.
func (k Kind) Code() string {
	return kindCodes[k]
}

// BuiltinKinds lists the probability-driven strategies in display order.
func BuiltinKinds() []Kind {
	return []Kind{KindChalk, KindSlightContrarian, KindAggressiveContrarian, KindRandomMidShuffle}
}

// ParseKind accepts either a display name or a short code, case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	for k, name := range kindNames {
		if strings.EqualFold(name, s) || strings.EqualFold(kindCodes[k], s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy %q", s)
}

// New returns the built-in strategy for kind. KindCustom needs NewCustom.
func New(kind Kind) (Strategy, error) {
	switch kind {
	case KindChalk:
		return NewChalk(), nil
	case KindSlightContrarian:
		return NewSlightContrarian(), nil
	case KindAggressiveContrarian:
		return NewAggressiveContrarian(), nil
	case KindRandomMidShuffle:
		return NewRandomMidShuffle(), nil
	case KindCustom:
		return nil, fmt.Errorf("strategy %s requires user picks", kind)
	default:
		return nil, fmt.Errorf("unknown strategy kind %d", int(kind))
	}
}

// ByName returns the built-in strategy with the given name or code.
func ByName(name string) (Strategy, error) {
	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	return New(kind)
}

// Builtins returns a fresh instance of every built-in strategy.
func Builtins() []Strategy {
	kinds := BuiltinKinds()
	out := make([]Strategy, 0, len(kinds))
	for _, k := range kinds {
		s, _ := New(k)
		out = append(out, s)
	}
	return out
}
