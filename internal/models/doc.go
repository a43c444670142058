// Package models defines the core domain models for settleup.
//
// # Ledger Models
//
// The following models make up the debt ledger:
//   - Contact: Someone the user trades money with; carries the running Balance
//   - Transaction: One immutable monetary event between the user and one contact
//   - GroupTransaction: A shared expense split across several contacts; expands
//     into one Transaction per participant at creation time
//
// # Supporting Models
//
//   - User: Registered account that owns contacts and transactions
//   - Notification: Delivery record for an e-mail sent after a ledger write
//
// # Sign Convention
//
// Every Balance is stored from the owning user's perspective:
//   - positive: the contact owes the user
//   - negative: the user owes the contact
//   - zero: settled
//
// # Design Principles
//
// 1. **Exact money**: amounts are decimal.Decimal, never float64
// 2. **Append-only log**: transactions are never edited; a single transaction may be deleted, which reverses its delta
// 3. **Owner scoping**: every record carries OwnerUserID and every lookup filters on it
// 4. **ID strings**: relationships use UUID strings instead of pointers
package models
