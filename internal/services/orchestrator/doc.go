/*
Package orchestrator drives the full lifecycle of one transfer or
withdrawal:

	Draft -> Validated -> (Resolving) -> AwaitingSecret -> Submitting -> Settled | Failed

A Session owns one draft. Form fields are mutable in Draft only; any
edit after validation drops the session back to Draft so stale
validation can never be reused. Entering Submitting applies the
optimistic balance hold and dispatches the network call as one step, so
pending can never disagree with the in-flight request.

Category-specific behavior (bank-account resolution, the server fee
preview and the withdrawal minimum) is supplied by a Strategy rather
than baked into the state machine, which is what lets one session type
serve agent, parent, school and withdrawal flows alike.

Usage:

	sess, err := mgr.Create(ctx, bearer, claims.AccountID, models.CategoryWithdrawal, profile.PINSet)
	if err != nil { ... }
	sess.SetAmount("5000")
	sess.SetRecipient("0123456789:058")
	if err := sess.Validate(ctx, bearer); err != nil { ... }
	if err := sess.Confirm(ctx, bearer); err != nil { ... }
	if err := sess.SubmitPIN("1234"); err != nil { ... }
	record, err := sess.Submit(ctx, bearer)

Error handling:

Failures are classified; only a network failure may be retried, and the
retry reuses the draft's original idempotency token. A rejected PIN
returns the session to AwaitingSecret with amount and recipient intact.
All other failures are terminal and discard cached resolutions.
*/
package orchestrator
