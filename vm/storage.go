package vm

import (
	"errors"

	"github.com/evmcore/evmcore/types"
)

// ErrInsufficientBalance is returned by SubBalance when the requested
// amount exceeds the account's current balance.
var ErrInsufficientBalance = errors.New("vm: insufficient balance")

// Account is a single address's state: balance, nonce, code, and a
// key/value storage map. A missing storage key reads as zero; writing
// zero removes the key so "absent" and "zero" remain indistinguishable
// to readers.
type Account struct {
	Balance types.U256
	Nonce   types.U256
	Code    types.Bytes
	Storage map[types.U256]types.U256
	Deleted bool
}

// newAccount returns a zero-valued account with an initialized storage
// map.
func newAccount() *Account {
	return &Account{Storage: make(map[types.U256]types.U256)}
}

// CodeHash returns Keccak-256 of the account's code, or the zero hash for
// empty code.
func (a *Account) CodeHash() types.Hash {
	if len(a.Code) == 0 {
		return types.Hash{}
	}
	return Keccak256Hash(a.Code)
}

// World is the per-frame store of account state: mapping address to
// Account. Reads of an absent account yield zero-valued defaults; writes
// auto-vivify the account.
type World struct {
	accounts map[types.Address]*Account
}

// NewWorld returns an empty account store.
func NewWorld() *World {
	return &World{accounts: make(map[types.Address]*Account)}
}

// getOrCreate returns the account at addr, creating a zero-valued one on
// first mutation.
func (w *World) getOrCreate(addr types.Address) *Account {
	a, ok := w.accounts[addr]
	if !ok {
		a = newAccount()
		w.accounts[addr] = a
	}
	return a
}

// Account returns the account at addr without creating it; the returned
// pointer is nil if no account has ever been touched there.
func (w *World) Account(addr types.Address) *Account {
	return w.accounts[addr]
}

// GetBalance returns the balance of addr, zero if the account does not
// exist.
func (w *World) GetBalance(addr types.Address) types.U256 {
	if a, ok := w.accounts[addr]; ok {
		return a.Balance
	}
	return types.ZeroU256()
}

// SetBalance sets the balance of addr, creating the account if needed.
func (w *World) SetBalance(addr types.Address, v types.U256) {
	w.getOrCreate(addr).Balance = v
}

// AddBalance credits amount to addr's balance, creating the account if
// needed.
func (w *World) AddBalance(addr types.Address, amount types.U256) {
	a := w.getOrCreate(addr)
	a.Balance = a.Balance.Add(amount)
}

// SubBalance debits amount from addr's balance, failing with
// ErrInsufficientBalance if amount exceeds the current balance.
func (w *World) SubBalance(addr types.Address, amount types.U256) error {
	a := w.getOrCreate(addr)
	if a.Balance.Lt(amount) {
		return ErrInsufficientBalance
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// GetCode returns the code stored at addr, nil if the account does not
// exist.
func (w *World) GetCode(addr types.Address) types.Bytes {
	if a, ok := w.accounts[addr]; ok {
		return a.Code
	}
	return nil
}

// SetCode sets the code stored at addr, creating the account if needed.
func (w *World) SetCode(addr types.Address, code types.Bytes) {
	w.getOrCreate(addr).Code = code
}

// GetStorage returns storage[addr][key], zero for an absent mapping. This
// never creates the account.
func (w *World) GetStorage(addr types.Address, key types.U256) types.U256 {
	a, ok := w.accounts[addr]
	if !ok {
		return types.ZeroU256()
	}
	return a.Storage[key]
}

// SetStorage writes storage[addr][key] = value, creating the account if
// needed. Writing the zero value removes the key instead of storing it,
// preserving "absent == zero" and making SetStorage(addr, k, 0)
// idempotent regardless of the key's prior state.
func (w *World) SetStorage(addr types.Address, key, value types.U256) {
	a := w.getOrCreate(addr)
	if value.IsZero() {
		delete(a.Storage, key)
		return
	}
	a.Storage[key] = value
}
