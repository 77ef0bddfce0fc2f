// Package carteira reconciles a brokerage ledger into positions and values
// them. It is designed to be local-first and auditable: the ledger is the
// single source of truth and every figure is derived from it.
//
// The core functionalities include:
//   - Ledger Management: an immutable, chronological record of the broker
//     events (buys, sells, income, charges, transfers and redemptions), stored
//     as JSONL.
//   - Position Matching: one state machine per ticker turns the events into a
//     single open position and a history of closed round trips with their
//     realized results.
//   - Fixed Income Valuation: prefixed, IPCA, CDI and SELIC indexed lots are
//     valued on any date using the monthly indexer series of package indexer.
//   - Wallet: open positions are marked to market and their allocation computed
//     per market group.
//
// This package serves as the foundational logic for the `cart` command-line
// tool.
package carteira
