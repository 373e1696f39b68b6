// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package jent

import "fmt"

// Code is the single error currency used throughout the engine (§7). Health
// and initialization failures are reported as Code values rather than as
// distinct sentinel types so that C-style callers (the CLI, an eventual FFI
// surface) can recover the same taxonomy the reference implementation uses.
type Code int

// Error code taxonomy, as specified in §6. Some source snapshots reuse
// value 14 for both THREAD and APT; this implementation resolves that
// ambiguity (per spec §9 Open Questions) by giving APT its own slot so the
// two failure conditions are never confused in logs or return values.
const (
	CodeNoTime Code = iota + 1
	CodeCoarseTime
	CodeNonMonotonic
	CodeMinVariation
	CodeVarVar
	CodeMinVarVar
	CodeProgErr
	CodeStuck
	CodeHealth
	CodeRCT
	CodeHash
	CodeMem
	CodeGCD
	CodeThread
	CodeLag
	CodeDist
	CodeAPT
)

var codeNames = map[Code]string{
	CodeNoTime:       "NOTIME",
	CodeCoarseTime:   "COARSETIME",
	CodeNonMonotonic: "NONMONOTONIC",
	CodeMinVariation: "MINVARIATION",
	CodeVarVar:       "VARVAR",
	CodeMinVarVar:    "MINVARVAR",
	CodeProgErr:      "PROGERR",
	CodeStuck:        "STUCK",
	CodeHealth:       "HEALTH",
	CodeRCT:          "RCT",
	CodeHash:         "HASH",
	CodeMem:          "MEM",
	CodeGCD:          "GCD",
	CodeThread:       "THREAD",
	CodeLag:          "LAG",
	CodeDist:         "DIST",
	CodeAPT:          "APT",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Error wraps a Code with a human-readable message. It is the concrete type
// returned by every exported operation that can fail per §7; use
// errors.As to recover the Code from a generic error value.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsPermanent reports whether code denotes a health failure whose
// _PERMANENT shadow bit, once set, is never cleared for the life of a
// handle (§3, §7).
func (c Code) IsPermanent() bool {
	switch c {
	case CodeRCT, CodeAPT, CodeLag, CodeDist:
		return true
	default:
		return false
	}
}
