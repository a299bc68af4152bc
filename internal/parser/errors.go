package parser

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"git.home.luguber.info/inful/scc/internal/scanner"
)

// ErrorKind classifies parse failures.
type ErrorKind int

const (
	// KindScanMismatch: an expected literal or terminator was not found.
	KindScanMismatch ErrorKind = iota + 1
	// KindUnexpectedScalar: the block dispatcher has no production for the lookahead.
	KindUnexpectedScalar
	// KindUnterminatedConstruct: a delimiter, bracket, fence or quote was never closed.
	KindUnterminatedConstruct
	// KindMalformedNumber: a list start digit run does not fit an int.
	KindMalformedNumber
	// KindNestingTooDeep: nested constructs exceeded Options.MaxNesting.
	KindNestingTooDeep
)

// Sentinels for errors.Is.
var (
	ErrScanMismatch          = errors.New("scan mismatch")
	ErrUnexpectedScalar      = errors.New("unexpected scalar")
	ErrUnterminatedConstruct = errors.New("unterminated construct")
	ErrMalformedNumber       = errors.New("malformed number")
	ErrNestingTooDeep        = errors.New("nesting too deep")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindScanMismatch:
		return ErrScanMismatch
	case KindUnexpectedScalar:
		return ErrUnexpectedScalar
	case KindUnterminatedConstruct:
		return ErrUnterminatedConstruct
	case KindMalformedNumber:
		return ErrMalformedNumber
	case KindNestingTooDeep:
		return ErrNestingTooDeep
	default:
		return nil
	}
}

func (k ErrorKind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return "unknown"
}

// Error is a structured parse failure. Offset is a byte offset into the
// buffer handed to Parse; Line and Column are derived from it.
type Error struct {
	Kind      ErrorKind
	Offset    int
	Line      int
	Column    int
	Construct string
	Expected  string
	Found     string
	Err       error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Construct != "" {
		msg += " " + e.Construct
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("%d:%d: %s", e.Line, e.Column, msg)
	} else {
		msg = fmt.Sprintf("offset %d: %s", e.Offset, msg)
	}
	switch {
	case e.Expected != "" && e.Found != "":
		msg += fmt.Sprintf(": expected %s, found %s", e.Expected, e.Found)
	case e.Expected != "":
		msg += ": expected " + e.Expected
	case e.Found != "":
		msg += ": found " + e.Found
	}
	return msg
}

// Is matches the kind sentinel, so errors.Is(err, ErrUnterminatedConstruct) works.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func (e *Error) Unwrap() error { return e.Err }

// describe renders a lookahead for error messages.
func describe(s string) string {
	switch s {
	case "", scanner.EOF:
		return scanner.EOF
	case "\n":
		return "newline"
	}
	if r, _ := utf8.DecodeRuneInString(s); r == '\n' {
		return "newline"
	}
	return strconv.Quote(s)
}

func (p *parser) lookahead() string {
	return describe(p.s.PeekMany(1))
}

// expect wraps Scanner.ConsumeExpect into a ScanMismatch error.
func (p *parser) expect(lit, construct string) error {
	if err := p.s.ConsumeExpect(lit); err != nil {
		var mm *scanner.MismatchError
		found := scanner.EOF
		if errors.As(err, &mm) {
			found = mm.Found
		}
		return &Error{
			Kind:      KindScanMismatch,
			Offset:    p.s.Offset(),
			Construct: construct,
			Expected:  strconv.Quote(lit),
			Found:     describe(found),
			Err:       err,
		}
	}
	return nil
}

func (p *parser) mismatch(construct, expected string) error {
	return &Error{
		Kind:      KindScanMismatch,
		Offset:    p.s.Offset(),
		Construct: construct,
		Expected:  expected,
		Found:     p.lookahead(),
	}
}

func (p *parser) unexpected() error {
	return &Error{
		Kind:   KindUnexpectedScalar,
		Offset: p.s.Offset(),
		Found:  p.lookahead(),
	}
}

// unterminated reports a construct opened at offset that was never closed.
func (p *parser) unterminated(construct string, offset int, expected string) error {
	return &Error{
		Kind:      KindUnterminatedConstruct,
		Offset:    offset,
		Construct: construct,
		Expected:  strconv.Quote(expected),
		Found:     p.lookahead(),
	}
}

func (p *parser) malformedNumber(digits string, offset int, err error) error {
	return &Error{
		Kind:      KindMalformedNumber,
		Offset:    offset,
		Construct: "list",
		Expected:  "integer",
		Found:     strconv.Quote(digits),
		Err:       err,
	}
}

func (p *parser) tooDeep(construct string) error {
	return &Error{
		Kind:      KindNestingTooDeep,
		Offset:    p.s.Offset(),
		Construct: construct,
		Expected:  fmt.Sprintf("at most %d nested levels", p.opts.MaxNesting),
	}
}
