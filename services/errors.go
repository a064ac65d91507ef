package services

import (
	"errors"
	"fmt"
)

var (
	ErrNoSuchHolding     = errors.New("no holding for this stock")
	ErrNoSuchCompetition = errors.New("competition not found")
	ErrUnknownUser       = errors.New("unknown user")
)

// InsufficientSharesError rejects a sell that asked for more shares
// than the user owns. The holding is left untouched.
type InsufficientSharesError struct {
	Symbol    string
	Owned     int
	Requested int
}

func (e *InsufficientSharesError) Error() string {
	return fmt.Sprintf("not enough shares of %s to sell: owned %d, tried to sell %d",
		e.Symbol, e.Owned, e.Requested)
}
