package domain

import (
	"fmt"
	"math/big"
	"strings"
)

// TokenKind distinguishes the two token classes issued per sku
type TokenKind uint16

const (
	KindCoA    TokenKind = 0
	KindRights TokenKind = 1
)

var (
	kindMask = big.NewInt(0xFFFF)
	// maxSKU is 2^240 - 1
	maxSKU = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), SKU_BITS), big.NewInt(1))
	// maxTokenID is 2^256 - 1
	maxTokenID = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
)

func (k TokenKind) String() string {
	switch k {
	case KindCoA:
		return "CoA"
	case KindRights:
		return "Rights"
	default:
		return fmt.Sprintf("TokenKind(%d)", uint16(k))
	}
}

// Valid reports whether k is one of the issued kinds
func (k TokenKind) Valid() bool {
	return k == KindCoA || k == KindRights
}

// ParseTokenKind accepts either the kind name or its numeric value
func ParseTokenKind(s string) (TokenKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "coa", "0":
		return KindCoA, nil
	case "rights", "1":
		return KindRights, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// ValidateSKU checks 0 < sku < 2^240
func ValidateSKU(sku *big.Int) error {
	if sku == nil || sku.Sign() <= 0 {
		return fmt.Errorf("%w: must be positive", ErrInvalidSKU)
	}
	if sku.Cmp(maxSKU) > 0 {
		return fmt.Errorf("%w: exceeds %d bits", ErrInvalidSKU, SKU_BITS)
	}
	return nil
}

// EncodeTokenID packs a sku and kind into a token id: sku << 16 | kind
func EncodeTokenID(sku *big.Int, kind TokenKind) (*big.Int, error) {
	if err := ValidateSKU(sku); err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKind, uint16(kind))
	}

	id := new(big.Int).Lsh(sku, TOKEN_KIND_BITS)
	return id.Or(id, big.NewInt(int64(kind))), nil
}

// DecodeTokenID splits a token id into its sku and kind.
// Ids that were never encoded decode to whatever their bits say; callers check Valid on the kind.
func DecodeTokenID(id *big.Int) (*big.Int, TokenKind) {
	kind := new(big.Int).And(id, kindMask)
	sku := new(big.Int).Rsh(id, TOKEN_KIND_BITS)
	return sku, TokenKind(kind.Uint64())
}

// ParseTokenID parses a decimal token id in [0, 2^256)
func ParseTokenID(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidTokenID)
	}
	id, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a decimal integer", ErrInvalidTokenID, s)
	}
	if id.Sign() < 0 || id.Cmp(maxTokenID) > 0 {
		return nil, fmt.Errorf("%w: out of range", ErrInvalidTokenID)
	}
	return id, nil
}

// ParseSKU parses a decimal sku and validates its range
func ParseSKU(s string) (*big.Int, error) {
	sku, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a decimal integer", ErrInvalidSKU, s)
	}
	if err := ValidateSKU(sku); err != nil {
		return nil, err
	}
	return sku, nil
}
