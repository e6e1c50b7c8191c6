package core

import "errors"

var (
	ErrUnknownID        = errors.New("order id not found")
	ErrDuplicateOrderID = errors.New("duplicate order id")
)
