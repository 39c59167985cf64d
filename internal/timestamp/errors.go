package timestamp

import (
	"errors"
	"fmt"
)

// Kind classifies why a timestamp was rejected.
type Kind int

const (
	KindShape Kind = iota + 1
	KindBadMeridiem
	KindInvalidDate
	KindInvalidTime
)

var (
	ErrShape       = errors.New("malformed timestamp")
	ErrBadMeridiem = errors.New("invalid AM/PM indicator")
	ErrInvalidDate = errors.New("invalid date")
	ErrInvalidTime = errors.New("invalid time")
	errUnknownKind = errors.New("timestamp error")
)

func (k Kind) String() string {
	switch k {
	case KindShape:
		return "shape"
	case KindBadMeridiem:
		return "bad_meridiem"
	case KindInvalidDate:
		return "invalid_date"
	case KindInvalidTime:
		return "invalid_time"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindShape:
		return ErrShape
	case KindBadMeridiem:
		return ErrBadMeridiem
	case KindInvalidDate:
		return ErrInvalidDate
	case KindInvalidTime:
		return ErrInvalidTime
	default:
		return errUnknownKind
	}
}

// ParseError reports a timestamp that could not be turned into a PointInTime.
// It unwraps to one of ErrShape, ErrBadMeridiem, ErrInvalidDate or ErrInvalidTime.
type ParseError struct {
	Kind   Kind
	Input  string
	Detail string
}

func (e *ParseError) Error() string {
	if e == nil {
		return "timestamp error"
	}
	msg := e.Kind.sentinel().Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Input == "" {
		return msg
	}
	return fmt.Sprintf("parse %q: %s", e.Input, msg)
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Kind.sentinel()
}

func newError(kind Kind, detail string) *ParseError {
	return &ParseError{Kind: kind, Detail: detail}
}
