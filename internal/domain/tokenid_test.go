package domain

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bigFromString(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok)
	return v
}

func TestEncodeTokenID(t *testing.T) {
	maxSKUValue := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 240), big.NewInt(1))

	tests := []struct {
		name     string
		sku      *big.Int
		kind     TokenKind
		expected string
		wantErr  error
	}{
		{
			name:     "coa for sku 1",
			sku:      big.NewInt(1),
			kind:     KindCoA,
			expected: "65536",
		},
		{
			name:     "rights for sku 1",
			sku:      big.NewInt(1),
			kind:     KindRights,
			expected: "65537",
		},
		{
			name:     "coa for sku 42",
			sku:      big.NewInt(42),
			kind:     KindCoA,
			expected: "2752512",
		},
		{
			name:     "rights for sku 42",
			sku:      big.NewInt(42),
			kind:     KindRights,
			expected: "2752513",
		},
		{
			name:     "max sku",
			sku:      maxSKUValue,
			kind:     KindRights,
			expected: new(big.Int).Or(new(big.Int).Lsh(maxSKUValue, 16), big.NewInt(1)).String(),
		},
		{
			name:    "zero sku",
			sku:     big.NewInt(0),
			kind:    KindCoA,
			wantErr: ErrInvalidSKU,
		},
		{
			name:    "negative sku",
			sku:     big.NewInt(-5),
			kind:    KindCoA,
			wantErr: ErrInvalidSKU,
		},
		{
			name:    "sku of 2^240",
			sku:     new(big.Int).Lsh(big.NewInt(1), 240),
			kind:    KindCoA,
			wantErr: ErrInvalidSKU,
		},
		{
			name:    "nil sku",
			sku:     nil,
			kind:    KindCoA,
			wantErr: ErrInvalidSKU,
		},
		{
			name:    "unknown kind",
			sku:     big.NewInt(1),
			kind:    TokenKind(2),
			wantErr: ErrInvalidKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := EncodeTokenID(tt.sku, tt.kind)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
				assert.Nil(t, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id.String())
		})
	}
}

func TestDecodeTokenIDRoundTrip(t *testing.T) {
	skus := []*big.Int{
		big.NewInt(1),
		big.NewInt(42),
		big.NewInt(65535),
		big.NewInt(65536),
		bigFromString(t, "123456789012345678901234567890"),
		new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 240), big.NewInt(1)),
	}

	for _, sku := range skus {
		for _, kind := range []TokenKind{KindCoA, KindRights} {
			id, err := EncodeTokenID(sku, kind)
			require.NoError(t, err)

			gotSKU, gotKind := DecodeTokenID(id)
			assert.Equal(t, 0, sku.Cmp(gotSKU), "sku %s", sku)
			assert.Equal(t, kind, gotKind)
		}
	}
}

func TestEncodeTokenIDNoCollision(t *testing.T) {
	seen := make(map[string]struct{})
	for i := int64(1); i <= 500; i++ {
		for _, kind := range []TokenKind{KindCoA, KindRights} {
			id, err := EncodeTokenID(big.NewInt(i), kind)
			require.NoError(t, err)
			_, dup := seen[id.String()]
			require.False(t, dup, "collision at sku %d kind %s", i, kind)
			seen[id.String()] = struct{}{}
		}
	}
}

func TestDecodeTokenIDUnknownKind(t *testing.T) {
	sku, kind := DecodeTokenID(big.NewInt(65538))
	assert.Equal(t, int64(1), sku.Int64())
	assert.Equal(t, TokenKind(2), kind)
	assert.False(t, kind.Valid())
}

func TestParseTokenID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "simple", input: "65536", want: "65536"},
		{name: "zero", input: "0", want: "0"},
		{name: "whitespace", input: " 65537 ", want: "65537"},
		{name: "empty", input: "", wantErr: true},
		{name: "negative", input: "-1", wantErr: true},
		{name: "hex", input: "0x10000", wantErr: true},
		{name: "letters", input: "abc", wantErr: true},
		{name: "too large", input: new(big.Int).Lsh(big.NewInt(1), 256).String(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseTokenID(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTokenID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id.String())
		})
	}
}

func TestParseTokenKind(t *testing.T) {
	kind, err := ParseTokenKind("CoA")
	require.NoError(t, err)
	assert.Equal(t, KindCoA, kind)

	kind, err = ParseTokenKind("rights")
	require.NoError(t, err)
	assert.Equal(t, KindRights, kind)

	kind, err = ParseTokenKind("1")
	require.NoError(t, err)
	assert.Equal(t, KindRights, kind)

	_, err = ParseTokenKind("license")
	assert.ErrorIs(t, err, ErrInvalidKind)

	assert.Equal(t, "CoA", KindCoA.String())
	assert.Equal(t, "Rights", KindRights.String())
}

func TestParseSKU(t *testing.T) {
	sku, err := ParseSKU("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), sku.Int64())

	_, err = ParseSKU("0")
	assert.ErrorIs(t, err, ErrInvalidSKU)

	_, err = ParseSKU("1.5")
	assert.ErrorIs(t, err, ErrInvalidSKU)
}
