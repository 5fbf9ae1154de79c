// Package models defines the core domain models for khaja.
//
// # Collections
//
// A workspace holds three collections that always travel together:
//   - Member: a person who can pay for or share in a lunch bill
//   - LunchRecord: one bill with a payer, a total and the participants' shares
//   - Payment: money received from a member toward their outstanding share
//
// The triple is modeled as a Snapshot. Persistence backends load and save
// whole snapshots, never individual collections.
//
// # Design Principles
//
//  1. **Immutable history**: records and payments are never edited once created
//  2. **ID references**: records and payments reference members by ID and keep
//     a denormalized name for display after the member is renamed or deleted
//  3. **Plain amounts**: amounts are float64 with 2-decimal precision; exact
//     arithmetic happens in the calculator package
//
// # Identity
//
// User is the authenticated account owning a workspace. It is unrelated to
// Member: members are just names tracked inside one user's workspace.
package models
