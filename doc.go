// Package invest keeps the investment accounts of a budget in sync with the
// market. Investment accounts are recorded in the budget like any other
// account, with an encoded memo on trades:
//
//	$VTI|BUY 10
//	$VTI|SELL 4
//	$VTI|SELL ALL
//
// The package is a stateless engine built of three steps:
//   - Reconstruction: the transaction history of an account is replayed, in
//     date order, into Holdings: a share count and a book value per ticker,
//     plus the CASH sub-ledger.
//   - Reconciliation: the market value of each open position, from the
//     latest quotes, is compared to its book value.
//   - Batching: the resulting deltas are packed into as few adjustment entries
//     as possible, each memo listing "$TICKER|delta" fragments. The next
//     replay reads them back as book value corrections.
//
// The Syncer runs the three steps for every tracked account of a budget,
// through a LedgerAPI and a QuoteResolver. It is the foundation of the
// invsync command-line tool.
package invest
