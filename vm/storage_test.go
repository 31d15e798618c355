package vm

import (
	"testing"

	"github.com/evmcore/evmcore/types"
)

func TestStorageSetZeroRemovesKey(t *testing.T) {
	w := NewWorld()
	addr := types.HexToAddress("0xaa")
	key := types.NewU256FromUint64(1)
	value := types.NewU256FromUint64(42)

	w.SetStorage(addr, key, value)
	w.SetStorage(addr, key, types.ZeroU256())

	if got := w.GetStorage(addr, key); !got.IsZero() {
		t.Fatalf("GetStorage after set-to-zero = %s, want 0", got)
	}
	acct := w.Account(addr)
	if _, ok := acct.Storage[key]; ok {
		t.Fatalf("key should have been removed from the storage map entirely")
	}
}

func TestStorageAbsentAccountReadsZero(t *testing.T) {
	w := NewWorld()
	addr := types.HexToAddress("0xbb")
	if got := w.GetStorage(addr, types.NewU256FromUint64(1)); !got.IsZero() {
		t.Fatalf("absent account storage read = %s, want 0", got)
	}
	if w.Account(addr) != nil {
		t.Fatalf("a pure read must not auto-vivify the account")
	}
}

func TestStorageSubBalanceInsufficientFunds(t *testing.T) {
	w := NewWorld()
	addr := types.HexToAddress("0xcc")
	w.SetBalance(addr, types.NewU256FromUint64(10))
	if err := w.SubBalance(addr, types.NewU256FromUint64(11)); err != ErrInsufficientBalance {
		t.Fatalf("SubBalance over-draw = %v, want ErrInsufficientBalance", err)
	}
}

func TestAccountCodeHashEmptyIsZeroHash(t *testing.T) {
	a := newAccount()
	if !a.CodeHash().IsZero() {
		t.Fatalf("empty-code account should hash to the zero hash")
	}
}
