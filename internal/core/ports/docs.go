// Package ports defines the contracts between the work order core and the
// outside world: the order and event stores, the permission source and the
// outbound notification publishers.
package ports
