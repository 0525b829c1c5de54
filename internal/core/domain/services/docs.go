// Package services provides domain services that hold business rules spanning
// more than a single work order value.
//
// The package includes:
//   - RuleTable: the status table deciding which statuses exist, which metadata
//     each one requires and how its audit description reads
//
// The table is built once at start-up from the built-in statuses plus any
// statuses configured by the shop, and is read-only afterwards.
package services
