// Package engine is the order and billing core of the POS: the table
// lifecycle state machine, the order-line ledger, the customer debt ledger,
// the immutable sales archive and the atomic checkout that reconciles them.
//
// Both front-ends (the desktop admin surface and the LAN handlers serving
// mobile waiters) call into the same Engine against the same store. The
// store transaction is the only serialization point: the engine keeps no
// table or customer state in memory between calls, and every
// read-then-write is either inside one transaction or expressed as a single
// atomic SQL update, so concurrent callers cannot lose increments.
package engine

import (
	"context"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"
)

// Config carries the engine policy knobs.
type Config struct {
	// StoreTimeout bounds every store access. A timeout surfaces as
	// ErrStoreUnavailable with no partial mutation.
	StoreTimeout time.Duration
	// SalesQueryLimit caps QuerySales when no date range is given.
	SalesQueryLimit int
	// AllowOverpayment lets RecordPayment drive a customer's debt negative,
	// treating the surplus as a credit balance. When false, payments above
	// the outstanding debt are rejected.
	AllowOverpayment bool
}

// DefaultConfig mirrors the behavior of the original desktop build.
func DefaultConfig() Config {
	return Config{
		StoreTimeout:     5 * time.Second,
		SalesQueryLimit:  100,
		AllowOverpayment: true,
	}
}

// ConfigFromEnv reads the policy knobs from the environment, falling back
// to DefaultConfig for anything unset or unparsable.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("POS_STORE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.StoreTimeout = d
		}
	}
	if v := os.Getenv("POS_SALES_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SalesQueryLimit = n
		}
	}
	if v := os.Getenv("POS_ALLOW_OVERPAYMENT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AllowOverpayment = b
		}
	}
	return cfg
}

// Engine executes every operation through the store's transaction
// primitive and holds no cross-call caches.
type Engine struct {
	db  *gorm.DB
	cfg Config
}

func New(db *gorm.DB, cfg Config) *Engine {
	if cfg.SalesQueryLimit <= 0 {
		cfg.SalesQueryLimit = DefaultConfig().SalesQueryLimit
	}
	return &Engine{db: db, cfg: cfg}
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.StoreTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.cfg.StoreTimeout)
}
