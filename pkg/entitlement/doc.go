// Package entitlement guards paid operations with the credit ledger.
//
// A guarded call passes through a fixed sequence: the caller must be
// authenticated, must hold at least one credit, and is charged only after the
// paid work succeeded. The charge runs detached from the request context so a
// client disconnect cannot cancel it, and a failed charge is logged without
// failing the already produced result.
//
//	gate := entitlement.NewGate(ledger, entitlement.WithLogger(log))
//	out, err := entitlement.Run(ctx, gate, accountID, func(ctx context.Context) (string, error) {
//		return generator.GenerateText(ctx, prompt)
//	})
//
// Call Wait during shutdown to let in-flight charges finish.
package entitlement
