package faucet

import (
	"errors"
	"fmt"
)

// Kind classifies faucet failures.
type Kind uint8

const (
	KindValidation Kind = iota + 1
	KindAuthorization
	KindRateLimit
	KindLiquidity
	KindArithmetic
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindRateLimit:
		return "rate limit"
	case KindLiquidity:
		return "liquidity"
	case KindArithmetic:
		return "arithmetic"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Error is a classified faucet failure. A target with an empty Msg matches
// every Error of the same Kind under errors.Is.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String() + " error"
	}
	return e.Msg
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Msg == "" || t.Msg == e.Msg
}

// Kind sentinels.
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrUnauthorized = &Error{Kind: KindAuthorization}
	ErrRateLimited  = &Error{Kind: KindRateLimit}
	ErrLiquidity    = &Error{Kind: KindLiquidity}
	ErrArithmetic   = &Error{Kind: KindArithmetic}
)

var (
	ErrAmountNotPositive     = &Error{Kind: KindValidation, Msg: "faucet amount must be positive"}
	ErrInvalidAsset          = &Error{Kind: KindValidation, Msg: "target asset must be a or b"}
	ErrIntervalTooLarge      = &Error{Kind: KindValidation, Msg: "claim interval exceeds max int64 seconds"}
	ErrAlreadyInitialized    = &Error{Kind: KindValidation, Msg: "faucet already initialized"}
	ErrNotInitialized        = &Error{Kind: KindValidation, Msg: "faucet not initialized"}
	ErrNotAdmin              = &Error{Kind: KindAuthorization, Msg: "unauthorized"}
	ErrIntervalNotMet        = &Error{Kind: KindRateLimit, Msg: "claim interval not met"}
	ErrInsufficientLiquidity = &Error{Kind: KindLiquidity, Msg: "insufficient liquidity in pool"}
	ErrNoShares              = &Error{Kind: KindLiquidity, Msg: "faucet has no shares in the pool"}
	ErrInsufficientShares    = &Error{Kind: KindLiquidity, Msg: "faucet doesn't have enough shares"}
)

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

func isKind(err error, kind Kind) bool {
	return errors.Is(err, &Error{Kind: kind})
}
