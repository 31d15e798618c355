package vm

import (
	"github.com/evmcore/evmcore/types"
	"golang.org/x/crypto/sha3"
)

// Keccak256 hashes data with Keccak-256, the digest the EVM uses
// everywhere (KECCAK256 opcode, code hashes).
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Keccak256Hash hashes data with Keccak-256 and returns it as a
// types.Hash.
func Keccak256Hash(data ...[]byte) types.Hash {
	return types.BytesToHash(Keccak256(data...))
}
