package model

import (
	"fmt"
	"strings"
)

// Asset selects one of the pool's two tokens.
type Asset uint8

const (
	AssetA Asset = iota + 1
	AssetB
)

func (a Asset) String() string {
	switch a {
	case AssetA:
		return "a"
	case AssetB:
		return "b"
	default:
		return fmt.Sprintf("asset(%d)", uint8(a))
	}
}

// Valid reports whether a names one of the two pool tokens.
func (a Asset) Valid() bool {
	return a == AssetA || a == AssetB
}

// Other returns the pool token that is not a.
func (a Asset) Other() Asset {
	if a == AssetA {
		return AssetB
	}
	return AssetA
}

// ParseAsset accepts "a"/"b", "token_a"/"token_b", and the boolean form
// used by older deployments where true selects token A.
func ParseAsset(input string) (Asset, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "a", "token_a", "tokena", "true":
		return AssetA, nil
	case "b", "token_b", "tokenb", "false":
		return AssetB, nil
	default:
		return 0, fmt.Errorf("invalid asset: %q", input)
	}
}

func (a Asset) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid asset: %d", uint8(a))
	}
	return []byte(a.String()), nil
}

func (a *Asset) UnmarshalText(data []byte) error {
	parsed, err := ParseAsset(string(data))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
