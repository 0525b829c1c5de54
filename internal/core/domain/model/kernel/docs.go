// Package kernel holds the value objects shared by every aggregate of the repair
// shop domain: identifiers and the acting user behind a change.
package kernel
