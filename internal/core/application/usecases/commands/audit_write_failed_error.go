package commands

import (
	"errors"
	"fmt"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
)

// ErrAuditWriteFailed matches every AuditWriteFailedError through errors.Is.
var ErrAuditWriteFailed = errors.New("audit write failed")

// AuditWriteFailedError is the warning attached to a transition whose status
// change was stored but whose audit entry could not be written. The order stays
// in the new status.
type AuditWriteFailedError struct {
	OrderID kernel.UUID
	Status  workorder.Status
	Cause   error
}

func NewAuditWriteFailedError(orderID kernel.UUID, status workorder.Status, cause error) *AuditWriteFailedError {
	return &AuditWriteFailedError{OrderID: orderID, Status: status, Cause: cause}
}

func (e *AuditWriteFailedError) Error() string {
	msg := fmt.Sprintf("%s: order %s moved to %s without a history entry", ErrAuditWriteFailed, e.OrderID, e.Status)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *AuditWriteFailedError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrAuditWriteFailed}
	}
	return []error{ErrAuditWriteFailed, e.Cause}
}
