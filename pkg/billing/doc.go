// Package billing connects accounts to the payment provider.
//
// It has three parts:
//
//   - Provider, the contract a payment provider implements, with a Paddle
//     implementation built on the official Go SDK.
//   - Processor, which verifies webhook deliveries and applies their effects to
//     subscription records, account plans and the credit ledger.
//   - Service, which creates checkout and customer portal sessions for an
//     account, creating the provider customer on first checkout.
//
// Webhook deliveries are decoded into a closed set of Event types. Types the
// processor does not handle decode to UnknownEvent and are acknowledged without
// side effects. Events that reference an account or customer the system does
// not know are acknowledged the same way.
//
// Redelivered events are applied again unless a Deduplicator is configured;
// every effect is an overwrite, so replays converge to the same state apart
// from the credit usage reset that a repeated upgrade performs.
package billing
