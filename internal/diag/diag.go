// Package diag implements the closed error taxonomy shared by the Assembler
// and the VM Translator. Every failure that can be attributed to a single
// source line carries that line number and the offending raw text, which
// the CLI layer prints verbatim before mapping the Kind to an exit code.
package diag

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Kind enumerates every diagnosable failure across both pipelines.
type Kind uint8

const (
	UsageError Kind = iota
	InputNotFound
	InvalidLabel
	LabelRedefined
	ConstantOutOfRange
	InvalidCompField
	InvalidDestField
	InvalidJumpField
	InvalidPointerIndex
	UnknownSegment
	UnknownArithmeticOp
	IoError
)

var names = map[Kind]string{
	UsageError:          "UsageError",
	InputNotFound:       "InputNotFound",
	InvalidLabel:        "InvalidLabel",
	LabelRedefined:      "LabelRedefined",
	ConstantOutOfRange:  "ConstantOutOfRange",
	InvalidCompField:    "InvalidCompField",
	InvalidDestField:    "InvalidDestField",
	InvalidJumpField:    "InvalidJumpField",
	InvalidPointerIndex: "InvalidPointerIndex",
	UnknownSegment:      "UnknownSegment",
	UnknownArithmeticOp: "UnknownArithmeticOp",
	IoError:             "IoError",
}

func (k Kind) String() string {
	if name, found := names[k]; found {
		return name
	}
	return "UnknownKind"
}

// Error is the diagnostic shape threaded through both pipelines: a Kind, the
// 1-based source line it was raised for (0 when not tied to one line), the
// raw offending text, and the underlying cause.
type Error struct {
	Kind Kind
	Line int
	Raw  string
	Err  error
}

// New builds a line-attributed Error from a format string, matching the
// 'errors.Errorf' idiom used for constructing fresh diagnostics.
func New(kind Kind, line int, raw, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Line: line, Raw: raw, Err: pkgerrors.Errorf(format, args...)}
}

// Wrap attaches a Kind and source position to an already existing error,
// preserving it as the cause.
func Wrap(kind Kind, line int, raw string, cause error) *Error {
	return &Error{Kind: kind, Line: line, Raw: raw, Err: pkgerrors.Wrap(cause, kind.String())}
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s at line %d (%q): %s", e.Kind, e.Line, e.Raw, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ExitCode maps a diagnosed error to the three-tier exit status scheme
// shared by 'cmd/hackasm' and 'cmd/vmtranslate'. A nil error exits 0, an
// error that never passed through this package exits 3 (treated as an
// unexpected I/O failure), and errors tagged IoError do likewise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var tagged *Error
	if !errors.As(err, &tagged) {
		return 3
	}

	switch tagged.Kind {
	case UsageError, InputNotFound:
		return 1
	case IoError:
		return 3
	default:
		return 2
	}
}
