package types

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/artivio/artivio-chain/internal/domain"
)

var (
	positiveNumericRegex = regexp.MustCompile(`^[1-9][0-9]*$`)
	hexAddressRegex      = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
)

// StringPtr converts a string to a pointer to a string
func StringPtr(s string) *string {
	return &s
}

// StringNilOrEmpty checks if a pointer to a string is nil or empty
func StringNilOrEmpty(s *string) bool {
	return s == nil || *s == ""
}

// SafeString returns a safe string from a pointer to a string
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// IsPositiveNumeric checks if a string is a valid positive numeric value
func IsPositiveNumeric(s string) bool {
	return positiveNumericRegex.MatchString(s)
}

// IsEthereumAddress checks if a string is a 0x-prefixed 20-byte hex address
func IsEthereumAddress(s string) bool {
	return hexAddressRegex.MatchString(s)
}

// ParseEthereumAddress validates an account address.
// All-lowercase and all-uppercase forms are accepted as is; mixed case must carry a valid EIP-55 checksum.
// The zero address is rejected.
func ParseEthereumAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !IsEthereumAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, s)
	}

	addr := common.HexToAddress(s)
	body := s[2:]
	mixedCase := strings.ToLower(body) != body && strings.ToUpper(body) != body
	if mixedCase && addr.Hex() != s {
		return common.Address{}, fmt.Errorf("%w: bad checksum", domain.ErrInvalidAddress)
	}
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: zero address", domain.ErrInvalidAddress)
	}
	return addr, nil
}

// IsValidURI checks if a string is an absolute URI with a scheme and an authority or opaque part
func IsValidURI(s string) bool {
	if strings.TrimSpace(s) != s || s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

// IsValidURL checks if a string is an absolute http(s) URL
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
