// Package errs holds the typed failures returned by the pricing engine.
package errs

import (
	"errors"
	"fmt"
)

// Kinds of pricing failures. Match with errors.Is.
var (
	ErrInvalidInstrument = errors.New("invalid instrument")
	ErrInvalidMarketData = errors.New("invalid market data")
	ErrInvalidConfig     = errors.New("invalid config")
	ErrNonConvergence    = errors.New("non convergence")
	ErrUnknownTicker     = errors.New("unknown ticker")
)

// Error carries the failing operation and a message on top of one of the kinds above.
type Error struct {
	Kind error
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool { return e.Kind == target }

func newf(kind error, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func InvalidInstrument(op, format string, args ...any) error {
	return newf(ErrInvalidInstrument, op, format, args...)
}

func InvalidMarketData(op, format string, args ...any) error {
	return newf(ErrInvalidMarketData, op, format, args...)
}

func InvalidConfig(op, format string, args ...any) error {
	return newf(ErrInvalidConfig, op, format, args...)
}

func NonConvergence(op, format string, args ...any) error {
	return newf(ErrNonConvergence, op, format, args...)
}

// UnknownTicker wraps the store error (usually sql.ErrNoRows) that caused the miss.
func UnknownTicker(ticker string, err error) error {
	return &Error{Kind: ErrUnknownTicker, Op: "lookup", Msg: ticker, Err: err}
}

// KindOf returns the kind of err, or nil when err is not a pricing failure.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}
