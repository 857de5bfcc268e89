package fixedpoint

import (
	errorsmod "cosmossdk.io/errors"
)

// Codespace is the error codespace for fixed-point arithmetic failures
const Codespace = "fixedpoint"

var (
	ErrDivideByZero = errorsmod.Register(Codespace, 1, "division by zero")
	ErrOverflow     = errorsmod.Register(Codespace, 2, "integer overflow")
	ErrUnderflow    = errorsmod.Register(Codespace, 3, "balance would become negative")
)
