// Package credits implements the per-account monthly credit ledger.
//
// Each account owns at most one entry holding the period's total allowance and
// the amount used so far. Reads of an account without an entry return the zero
// balance. Deductions never take the balance below zero: the check and the
// write happen in a single store operation, so concurrent callers cannot
// overdraw an account.
//
//	ledger := credits.NewLedger(credits.NewPostgresStore(pool), credits.WithConfig(cfg))
//	if ok, _ := ledger.HasCredits(ctx, accountID, 1); ok {
//		// do paid work, then
//		err := ledger.DeductCredits(ctx, accountID, 1)
//	}
//
// Reset, upgrade and downgrade rewrite the total, zero the usage and move the
// renewal date one period ahead.
package credits
