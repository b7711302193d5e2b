package handlers

import "errors"

// Sentinel errors returned from inside transactions so the handler can map
// them to status codes after the rollback.
var (
	errNotOwner        = errors.New("caller does not own this resource")
	errOrderNotPending = errors.New("order is not pending")
)
