package machine

import "errors"

// Errors returned for indices outside of the valid range of the machine.
var (
	ErrKeyOutOfRange      = errors.New("key index out of range")
	ErrRegisterOutOfRange = errors.New("register index out of range")
	ErrAddressOutOfRange  = errors.New("memory address out of range")
)
