/*
 * interfaces.go, part of gonmr.
 *
 * Copyright 2026 The gonmr authors.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package nmr

import (
	"fmt"
	"strings"
)

//Errors

// Decorator is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing its type or wrapping it around something else.
// The decoration slice holds the functions in the calling stack, innermost first, optionally
// followed by ": extra info".
type Decorator interface {
	Error() string
	Decorate(string) []string
}

// Kind classifies the errors returned by gonmr. Kinds are comparable, so
// errors.Is(err, nmr.ErrInvalidDimension) works on any error produced by the library.
type Kind string

func (k Kind) Error() string { return "gonmr: " + string(k) }

const (
	//Shifts/couplings shape mismatch, non-square or asymmetric coupling matrix.
	ErrInvalidDimension Kind = "invalid dimension"
	//The eigensolver failed to converge or produced non-finite values.
	ErrNumericalDivergence Kind = "numerical divergence"
	//A lineshape was requested for zero peaks.
	ErrEmptyPeakList Kind = "empty peak list"
	//Non-finite or out-of-range scalar input.
	ErrInvalidParameter Kind = "invalid parameter"
)

// Error is the error type returned by all gonmr packages.
type Error struct {
	kind    Kind
	message string
	deco    []string
}

// NewError returns an error of the given kind, decorated with the name of the
// function that produced it.
func NewError(kind Kind, caller, format string, args ...interface{}) *Error {
	err := &Error{kind: kind, message: fmt.Sprintf(format, args...)}
	if caller != "" {
		err.deco = []string{caller}
	}
	return err
}

// Error returns a string with an error message.
func (err *Error) Error() string {
	if len(err.deco) == 0 {
		return fmt.Sprintf("%s: %s", err.kind.Error(), err.message)
	}
	return fmt.Sprintf("%s: %s (%s)", err.kind.Error(), err.message, strings.Join(err.deco, " <- "))
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice. An empty string only returns the current slice.
func (err *Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Kind returns the class of the error.
func (err *Error) Kind() Kind { return err.kind }

// Unwrap exposes the kind to errors.Is and errors.As.
func (err *Error) Unwrap() error { return err.kind }

// Decorate adds caller to err if err implements Decorator, and returns err.
// Other errors are wrapped with the caller name. nil is returned unchanged.
func Decorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if d, ok := err.(Decorator); ok {
		d.Decorate(caller)
		return err
	}
	return fmt.Errorf("%s: %w", caller, err)
}

// PanicMsg is a message used for panics, even though it does satisfy the error interface.
// for errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	errShape     = PanicMsg("gonmr: Dimension mismatch")
	errBlockSize = PanicMsg("gonmr: Hamiltonian block of size zero")
)
