// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The normalisation, aggregation and table functions (Normalize,
// CategoryCounts, ViewTable, ...) are pure: they read records and
// return new values without touching any port.
package services
