package ledger

import (
	"errors"
	"strconv"
	"strings"
	"sync"
)

// ErrNegativeAmount is returned for negative add or spend requests
var ErrNegativeAmount = errors.New("negative coin amount")

// Wallet is an in-memory coin balance safe for concurrent use
type Wallet struct {
	mu    sync.Mutex
	coins int64
}

// NewWallet creates a wallet holding initial coins
func NewWallet(initial int64) *Wallet {
	if initial < 0 {
		initial = 0
	}
	return &Wallet{coins: initial}
}

// AddCoins credits amount; negative amounts are rejected and leave the balance unchanged
func (w *Wallet) AddCoins(amount int) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	w.mu.Lock()
	w.coins += int64(amount)
	w.mu.Unlock()
	return nil
}

// SpendCoins debits amount only if affordable and reports whether it did
func (w *Wallet) SpendCoins(amount int) (bool, error) {
	if amount < 0 {
		return false, ErrNegativeAmount
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.coins < int64(amount) {
		return false, nil
	}
	w.coins -= int64(amount)
	return true, nil
}

// Balance returns the current coin count
func (w *Wallet) Balance() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.coins
}

// Formatted returns the balance through FormatCoins
func (w *Wallet) Formatted() string {
	return FormatCoins(w.Balance())
}

// FormatCoins renders amount with K/M/B suffixes and up to two decimals (1500 -> "1.5K")
func FormatCoins(amount int64) string {
	switch {
	case amount >= 1_000_000_000:
		return trimDecimals(float64(amount)/1e9) + "B"
	case amount >= 1_000_000:
		return trimDecimals(float64(amount)/1e6) + "M"
	case amount >= 1_000:
		return trimDecimals(float64(amount)/1e3) + "K"
	default:
		return strconv.FormatInt(amount, 10)
	}
}

func trimDecimals(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
