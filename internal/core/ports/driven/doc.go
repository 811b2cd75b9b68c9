// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - RowSource: Supplies raw rows from a file or backend API
//   - RowSourceFactory: Creates row sources from configuration
//   - SnapshotStore: Persists ingested payloads
//   - ConfigStore: Application configuration
//
// The normalisation and aggregation functions themselves need none of
// these: they are pure functions of the records they are given.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or source package
package driven
