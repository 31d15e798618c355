// Package types defines the value and container primitives shared by the
// EVM interpreter: 256-bit words, addresses, hashes, and byte strings.
package types

import (
	"encoding/hex"
	"fmt"
)

const (
	HashLength    = 32
	AddressLength = 20
)

// Hash is the 32-byte Keccak-256 digest of some byte range.
type Hash [HashLength]byte

// Address is the 20-byte account identifier.
type Address [AddressLength]byte

// Bytes is a variable-length byte string used for code, call input, and
// return data. It is a plain alias so callers can pass []byte literals
// directly.
type Bytes []byte

// BytesToHash left-pads (or truncates from the left) b into a Hash.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// HexToHash parses a hex string (optional "0x" prefix) into a Hash.
func HexToHash(s string) Hash {
	return BytesToHash(fromHex(s))
}

// Bytes returns the big-endian byte representation of the hash.
func (h Hash) Bytes() []byte { return h[:] }

// Hex renders the hash as a "0x"-prefixed hex string.
func (h Hash) Hex() string { return fmt.Sprintf("0x%x", h[:]) }

// SetBytes sets the hash from b, left-padding with zero bytes if b is
// shorter than HashLength and keeping only the low HashLength bytes
// otherwise.
func (h *Hash) SetBytes(b []byte) {
	*h = Hash{}
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

// IsZero reports whether every byte of the hash is zero.
func (h Hash) IsZero() bool { return h == Hash{} }

func (h Hash) String() string { return h.Hex() }

// BytesToAddress left-pads (or truncates from the left) b into an Address.
func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

// HexToAddress parses a hex string (optional "0x" prefix) into an Address.
// The digit count is not enforced: shorter input is left-padded and longer
// input keeps only its low 20 bytes, as in BytesToAddress.
func HexToAddress(s string) Address {
	return BytesToAddress(fromHex(s))
}

// Bytes returns the big-endian byte representation of the address.
func (a Address) Bytes() []byte { return a[:] }

// Hex renders the address as a "0x"-prefixed, 40-hex-digit string.
func (a Address) Hex() string { return fmt.Sprintf("0x%x", a[:]) }

// SetBytes sets the address from b, left-padding or truncating from the
// left as needed.
func (a *Address) SetBytes(b []byte) {
	*a = Address{}
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

// IsZero reports whether every byte of the address is zero.
func (a Address) IsZero() bool { return a == Address{} }

func (a Address) String() string { return a.Hex() }

// fromHex decodes a hex string, stripping an optional "0x"/"0X" prefix and
// left-padding an odd number of digits with a leading zero.
func fromHex(s string) []byte {
	if has0xPrefix(s) {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, _ := hex.DecodeString(s)
	return b
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
