package types

import (
	"fmt"

	"github.com/holiman/uint256"
)

// U256 is a 256-bit word with the full algebraic ring modulo 2^256 plus the
// signed (two's-complement) and bitwise views the EVM instruction set
// needs. It is a defined type over uint256.Int (itself [4]uint64) so the
// exact-width wrapping arithmetic, division-by-zero-is-zero convention,
// and SDIV(MIN_I256, -1) = MIN_I256 edge case all come from the library
// that the rest of the Ethereum Go ecosystem already relies on for this,
// rather than from a hand-rolled big.Int mask.
type U256 uint256.Int

func (u *U256) inner() *uint256.Int      { return (*uint256.Int)(u) }
func fromInner(i *uint256.Int) U256      { return U256(*i) }

// ZeroU256 is the additive identity.
func ZeroU256() U256 { return U256{} }

// OneU256 is the multiplicative identity.
func OneU256() U256 {
	var i uint256.Int
	i.SetOne()
	return U256(i)
}

// NewU256FromUint64 constructs a U256 from a machine word.
func NewU256FromUint64(v uint64) U256 {
	var i uint256.Int
	i.SetUint64(v)
	return U256(i)
}

// U256FromBytesBE constructs a U256 from a big-endian byte slice. Inputs
// shorter than 32 bytes are zero-extended on the left; inputs longer than
// 32 bytes keep only the low 32 bytes.
func U256FromBytesBE(b []byte) U256 {
	var i uint256.Int
	i.SetBytes(b)
	return U256(i)
}

// ToBytesBE renders the word as a 32-byte big-endian array.
func (u U256) ToBytesBE() [32]byte {
	i := u
	return i.inner().Bytes32()
}

// Bytes returns the minimal big-endian byte representation (no leading
// zero bytes; the zero value renders as an empty slice).
func (u U256) Bytes() []byte {
	i := u
	return i.inner().Bytes()
}

// IsZero reports whether the word is zero.
func (u U256) IsZero() bool {
	i := u
	return i.inner().IsZero()
}

// Eq reports unsigned/bitwise equality.
func (u U256) Eq(v U256) bool {
	a, b := u, v
	return a.inner().Eq(b.inner())
}

// --- Ring arithmetic: all wrap modulo 2^256. ---

func (u U256) Add(v U256) U256 {
	var out uint256.Int
	a, b := u, v
	out.Add(a.inner(), b.inner())
	return fromInner(&out)
}

func (u U256) Sub(v U256) U256 {
	var out uint256.Int
	a, b := u, v
	out.Sub(a.inner(), b.inner())
	return fromInner(&out)
}

func (u U256) Mul(v U256) U256 {
	var out uint256.Int
	a, b := u, v
	out.Mul(a.inner(), b.inner())
	return fromInner(&out)
}

// Div is unsigned division; division by zero yields zero (EVM convention).
func (u U256) Div(v U256) U256 {
	var out uint256.Int
	a, b := u, v
	out.Div(a.inner(), b.inner())
	return fromInner(&out)
}

// Mod is unsigned remainder; modulus zero yields zero.
func (u U256) Mod(v U256) U256 {
	var out uint256.Int
	a, b := u, v
	out.Mod(a.inner(), b.inner())
	return fromInner(&out)
}

// SDiv is signed (two's-complement) division. Divisor zero yields zero.
// SDiv(MIN_I256, -1) wraps to MIN_I256 rather than trapping.
func (u U256) SDiv(v U256) U256 {
	var out uint256.Int
	a, b := u, v
	out.SDiv(a.inner(), b.inner())
	return fromInner(&out)
}

// SMod is signed remainder; divisor zero yields zero.
func (u U256) SMod(v U256) U256 {
	var out uint256.Int
	a, b := u, v
	out.SMod(a.inner(), b.inner())
	return fromInner(&out)
}

// AddMod computes (u+v) mod m in extended precision, reducing only once at
// the end; modulus zero yields zero.
func (u U256) AddMod(v, m U256) U256 {
	var out uint256.Int
	a, b, c := u, v, m
	out.AddMod(a.inner(), b.inner(), c.inner())
	return fromInner(&out)
}

// MulMod computes (u*v) mod m in extended precision; modulus zero yields
// zero.
func (u U256) MulMod(v, m U256) U256 {
	var out uint256.Int
	a, b, c := u, v, m
	out.MulMod(a.inner(), b.inner(), c.inner())
	return fromInner(&out)
}

// Exp computes u**v mod 2^256 via square-and-multiply. Zero exponent
// yields one; zero base with a non-zero exponent yields zero.
func (u U256) Exp(v U256) U256 {
	var out uint256.Int
	a, b := u, v
	out.Exp(a.inner(), b.inner())
	return fromInner(&out)
}

// --- Bitwise. ---

func (u U256) And(v U256) U256 {
	var out uint256.Int
	a, b := u, v
	out.And(a.inner(), b.inner())
	return fromInner(&out)
}

func (u U256) Or(v U256) U256 {
	var out uint256.Int
	a, b := u, v
	out.Or(a.inner(), b.inner())
	return fromInner(&out)
}

func (u U256) Xor(v U256) U256 {
	var out uint256.Int
	a, b := u, v
	out.Xor(a.inner(), b.inner())
	return fromInner(&out)
}

// Not returns u XOR all-ones, i.e. the bitwise complement.
func (u U256) Not() U256 {
	var out uint256.Int
	a := u
	out.Not(a.inner())
	return fromInner(&out)
}

// Lsh shifts left by n bits; n >= 256 yields zero.
func (u U256) Lsh(n uint) U256 {
	if n >= 256 {
		return ZeroU256()
	}
	var out uint256.Int
	a := u
	out.Lsh(a.inner(), n)
	return fromInner(&out)
}

// Rsh shifts right (logical) by n bits; n >= 256 yields zero.
func (u U256) Rsh(n uint) U256 {
	if n >= 256 {
		return ZeroU256()
	}
	var out uint256.Int
	a := u
	out.Rsh(a.inner(), n)
	return fromInner(&out)
}

// Sar shifts right arithmetically (sign-preserving) by n bits; n >= 256
// yields zero for a non-negative operand and all-ones (-1) for a negative
// one.
func (u U256) Sar(n uint) U256 {
	a := u
	if n >= 256 {
		if a.inner().Sign() >= 0 {
			return ZeroU256()
		}
		var out uint256.Int
		out.SetAllOne()
		return fromInner(&out)
	}
	var out uint256.Int
	out.SRsh(a.inner(), n)
	return fromInner(&out)
}

// Byte returns the i-th most-significant byte of u (index 0 = most
// significant), zero-extended. i >= 32 yields zero.
func (u U256) Byte(i U256) U256 {
	idx := i
	if !idx.fitsUint64LT(32) {
		return ZeroU256()
	}
	var out uint256.Int
	a := u
	out.Set(a.inner())
	iv := idx.inner()
	out.Byte(iv)
	return fromInner(&out)
}

// fitsUint64LT reports whether u, interpreted as an unsigned magnitude,
// is strictly less than bound (bound assumed small, e.g. 32 or 256).
func (u U256) fitsUint64LT(bound uint64) bool {
	v, overflow := u.inner().Uint64WithOverflow()
	return !overflow && v < bound
}

// SignExtend sign-extends x, treating byte index b (0 = least-significant
// byte) as the sign-defining byte. b >= 31 leaves x unchanged.
func (u U256) SignExtend(b U256) U256 {
	bb := b
	if !bb.fitsUint64LT(31) {
		return u
	}
	var out uint256.Int
	a, c := u, b
	out.ExtendSign(a.inner(), c.inner())
	return fromInner(&out)
}

// --- Comparisons. ---

func (u U256) Lt(v U256) bool {
	a, b := u, v
	return a.inner().Lt(b.inner())
}

func (u U256) Gt(v U256) bool {
	a, b := u, v
	return a.inner().Gt(b.inner())
}

// Slt is the signed (two's-complement) less-than comparison.
func (u U256) Slt(v U256) bool {
	a, b := u, v
	return a.inner().Slt(b.inner())
}

// Sgt is the signed (two's-complement) greater-than comparison.
func (u U256) Sgt(v U256) bool {
	a, b := u, v
	return a.inner().Sgt(b.inner())
}

// --- Narrowing conversions. ---

// Uint64 truncates to the low 64 bits, discarding any higher-order bits
// silently. Use Uint64Safe when an exact-fit guarantee is required.
func (u U256) Uint64() uint64 {
	a := u
	return a.inner().Uint64()
}

// Uint64Safe returns the low 64 bits, failing if the value does not fit.
func (u U256) Uint64Safe() (uint64, error) {
	a := u
	v, overflow := a.inner().Uint64WithOverflow()
	if overflow {
		return 0, fmt.Errorf("types: value does not fit in uint64")
	}
	return v, nil
}

// Uint8Safe returns the low 8 bits, failing if the value does not fit.
func (u U256) Uint8Safe() (uint8, error) {
	v, err := u.Uint64Safe()
	if err != nil || v > 0xff {
		return 0, fmt.Errorf("types: value does not fit in uint8")
	}
	return uint8(v), nil
}

// BitLen returns the number of bits required to represent u, 0 for the
// zero value.
func (u U256) BitLen() int {
	a := u
	return a.inner().BitLen()
}

// ByteLen returns the minimal number of bytes required to represent u
// (ceil(BitLen/8)), used by the EXP dynamic gas rule.
func (u U256) ByteLen() int {
	return (u.BitLen() + 7) / 8
}

// String renders the value in decimal, for debugging and error messages.
func (u U256) String() string {
	a := u
	return a.inner().String()
}

// Hash reinterprets the word as a Hash (big-endian 32 bytes).
func (u U256) Hash() Hash {
	return Hash(u.ToBytesBE())
}

// HashToU256 reinterprets a Hash as a U256.
func HashToU256(h Hash) U256 {
	return U256FromBytesBE(h[:])
}

// Address reinterprets the low 20 bytes of u as an Address, as EVM opcodes
// do when an address is passed on the stack as a full word.
func (u U256) Address() Address {
	b := u.ToBytesBE()
	return BytesToAddress(b[12:])
}
