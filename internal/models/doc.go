// Package models defines the core domain models for Ekkora.
//
// # Tenancy
//
// Every record except the user profile, the church itself and the global invite
// index lives under a church (tenant) path:
//   - UserProfile: one per identity, optionally bound to a church
//   - Church: the tenant; in the MVP its ID equals the owner's identity ID
//   - Membership: role-bearing link between an identity and a church
//   - Invite: pending offer of membership, mirrored under the church and in the global index
//   - FinanceEntry, Category, Person: tenant-scoped workspace records
//
// # Field tags
//
// Models carry `doc` tags naming the document field each attribute is stored
// under. Decoding from documents is done by the storage package; encoding is
// explicit per model so that optional fields are written as null rather than
// as zero values.
package models
