// Copyright 2025 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package blas

import (
	"fmt"

	"github.com/juju/errors"
)

// ShapeError reports incompatible dimensions, strides, structures or aliasing.
// It is always returned before the backend is invoked.
type ShapeError struct {
	Op      string
	Operand string
	Dim     string
	Got     int
	Want    int
	Reason  string
}

func (e *ShapeError) Error() string {
	msg := fmt.Sprintf("%s: operand %s: %s", e.Op, e.Operand, e.Reason)
	if e.Got != e.Want {
		msg += fmt.Sprintf(" (%s: got %d, want %d)", e.Dim, e.Got, e.Want)
	}
	return msg
}

// Is makes shape errors match errors.NotValid.
func (e *ShapeError) Is(target error) bool {
	return target == errors.NotValid
}

// DomainMismatchError reports a scalar or operand whose domain disagrees with
// the domain of the operation.
type DomainMismatchError struct {
	Op      string
	Operand string
	Got     Domain
	Want    Domain
	Reason  string
}

func (e *DomainMismatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Operand, e.Reason)
	}
	return fmt.Sprintf("%s: %s is %v, want %v", e.Op, e.Operand, e.Got, e.Want)
}

// Is makes domain errors match errors.NotValid.
func (e *DomainMismatchError) Is(target error) bool {
	return target == errors.NotValid
}

// UnsupportedFlagError reports a flag outside its enumeration, a flag value
// that is illegal for the operation, or a complex-only operation requested
// in the real domain.
type UnsupportedFlagError struct {
	Op    string
	Flag  string
	Value string
}

func (e *UnsupportedFlagError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("unsupported %s: %s", e.Flag, e.Value)
	}
	return fmt.Sprintf("%s: unsupported %s: %s", e.Op, e.Flag, e.Value)
}

// Is makes flag errors match errors.NotSupported.
func (e *UnsupportedFlagError) Is(target error) bool {
	return target == errors.NotSupported
}

// NumericalError is raised by a backend after dispatch. The output operand
// may already be partially overwritten.
type NumericalError struct {
	Op     string
	Reason string
	Err    error
}

func (e *NumericalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *NumericalError) Unwrap() error {
	return e.Err
}
