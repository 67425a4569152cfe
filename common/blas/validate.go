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

	"github.com/samber/lo"
)

// Validate checks flags, scalar and operand domains, storage, structure,
// shapes and aliasing of a call. It never reads matrix elements, and it runs
// in full whatever the values of alpha and beta.
func Validate(call *Call) error {
	if err := call.Legal(); err != nil {
		return err
	}
	op := call.Name()
	if !call.Order.Valid() {
		return &UnsupportedFlagError{Op: op, Flag: "order", Value: call.Order.String()}
	}
	if err := validateFlags(call); err != nil {
		return err
	}
	if err := validateScalars(call); err != nil {
		return err
	}
	for _, role := range call.Kind.Roles() {
		if err := validateOperand(call, role.Name); err != nil {
			return err
		}
	}
	if err := validateShapes(call); err != nil {
		return err
	}
	return validateAliasing(call)
}

// legalTransposes returns the transpose flags an operation accepts.
func legalTransposes(d Descriptor) []Transpose {
	switch {
	case d.Domain == Real:
		return []Transpose{NoTrans, Trans}
	case d.Kind == Herk || d.Kind == Her2k:
		return []Transpose{NoTrans, ConjTrans}
	case d.Kind == Syrk || d.Kind == Syr2k:
		return []Transpose{NoTrans, Trans}
	default:
		return []Transpose{NoTrans, Trans, ConjTrans}
	}
}

func validateFlags(call *Call) error {
	op := call.Name()
	checkTranspose := func(flag string, t Transpose) error {
		if !lo.Contains(legalTransposes(call.Descriptor), t) {
			return &UnsupportedFlagError{Op: op, Flag: flag, Value: t.String()}
		}
		return nil
	}
	checkSide := func() error {
		if !call.Side.Valid() {
			return &UnsupportedFlagError{Op: op, Flag: "side", Value: call.Side.String()}
		}
		return nil
	}
	checkUplo := func() error {
		if !call.Uplo.Valid() {
			return &UnsupportedFlagError{Op: op, Flag: "uplo", Value: call.Uplo.String()}
		}
		return nil
	}
	checkDiag := func() error {
		if !call.Diag.Valid() {
			return &UnsupportedFlagError{Op: op, Flag: "diag", Value: call.Diag.String()}
		}
		return nil
	}

	var checks []func() error
	switch call.Kind {
	case Gemm:
		checks = []func() error{
			func() error { return checkTranspose("transA", call.TransA) },
			func() error { return checkTranspose("transB", call.TransB) },
		}
	case Symm, Hemm:
		checks = []func() error{checkSide, checkUplo}
	case Syrk, Syr2k, Herk, Her2k:
		checks = []func() error{checkUplo, func() error { return checkTranspose("trans", call.TransA) }}
	case Trmm, Trsm:
		checks = []func() error{checkSide, checkUplo, func() error { return checkTranspose("transA", call.TransA) }, checkDiag}
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func validateScalars(call *Call) error {
	op := call.Name()
	scalars := []lo.Tuple2[string, Scalar]{{A: "alpha", B: call.Alpha}}
	if call.Kind.HasBeta() {
		scalars = append(scalars, lo.Tuple2[string, Scalar]{A: "beta", B: call.Beta})
	}
	for _, s := range scalars {
		if s.B.Domain() != call.Domain {
			return &DomainMismatchError{Op: op, Operand: s.A, Got: s.B.Domain(), Want: call.Domain}
		}
	}
	// A Hermitian result needs real scaling of the Hermitian terms.
	realOnly := map[Kind][]string{Herk: {"alpha", "beta"}, Her2k: {"beta"}}[call.Kind]
	for _, s := range scalars {
		if lo.Contains(realOnly, s.A) && imag(s.B.Complex128()) != 0 {
			return &DomainMismatchError{Op: op, Operand: s.A, Got: Complex, Want: Real,
				Reason: fmt.Sprintf("%s must have zero imaginary part, got %v", s.A, s.B)}
		}
	}
	return nil
}

// requiredStructure is the structure an operand slot holds.
func requiredStructure(k Kind, name string) Structure {
	switch {
	case k == Symm && name == "A":
		return Symmetric
	case k == Hemm && name == "A":
		return Hermitian
	case (k == Trmm || k == Trsm) && name == "A":
		return Triangular
	case (k == Syrk || k == Syr2k) && name == "C":
		return Symmetric
	case (k == Herk || k == Her2k) && name == "C":
		return Hermitian
	default:
		return General
	}
}

func validateOperand(call *Call, name string) error {
	op := call.Name()
	m := call.Operand(name)

	// domain
	switch m.Domain() {
	case 0:
		return &DomainMismatchError{Op: op, Operand: name, Want: call.Domain,
			Reason: "operand must carry exactly one of a real or complex buffer"}
	case call.Domain:
	default:
		return &DomainMismatchError{Op: op, Operand: name, Got: m.Domain(), Want: call.Domain}
	}
	if m.Order != 0 && m.Order != call.Order {
		return &UnsupportedFlagError{Op: op, Flag: "order of " + name, Value: m.Order.String()}
	}

	// storage
	if m.Rows <= 0 {
		return &ShapeError{Op: op, Operand: name, Dim: "rows", Got: m.Rows, Want: 1, Reason: "dimension must be positive"}
	}
	if m.Cols <= 0 {
		return &ShapeError{Op: op, Operand: name, Dim: "cols", Got: m.Cols, Want: 1, Reason: "dimension must be positive"}
	}
	_, inner := m.extent(call.Order)
	if m.Stride < 0 || (m.Stride != 0 && m.Stride < inner) {
		return &ShapeError{Op: op, Operand: name, Dim: "stride", Got: m.Stride, Want: inner, Reason: "leading dimension too small"}
	}
	if span := m.span(call.Order); m.len() < span {
		return &ShapeError{Op: op, Operand: name, Dim: "length", Got: m.len(), Want: span, Reason: "buffer too short"}
	}

	// structure
	if m.Structure < General || m.Structure > Triangular {
		return &UnsupportedFlagError{Op: op, Flag: "structure of " + name, Value: m.Structure.String()}
	}
	if m.Diag != 0 && m.Structure != Triangular {
		return &UnsupportedFlagError{Op: op, Flag: "diag of " + name, Value: m.Diag.String()}
	}
	if m.Structure == General {
		return nil
	}
	if required := requiredStructure(call.Kind, name); m.Structure != required {
		return &ShapeError{Op: op, Operand: name,
			Reason: fmt.Sprintf("%v operand where %v is required", m.Structure, required)}
	}
	if m.Rows != m.Cols {
		return &ShapeError{Op: op, Operand: name, Dim: "cols", Got: m.Cols, Want: m.Rows,
			Reason: fmt.Sprintf("%v matrix must be square", m.Structure)}
	}
	if m.Uplo != 0 && m.Uplo != call.Uplo {
		return &UnsupportedFlagError{Op: op, Flag: "uplo of " + name, Value: m.Uplo.String()}
	}
	if m.Diag != 0 && m.Diag != call.Diag {
		return &UnsupportedFlagError{Op: op, Flag: "diag of " + name, Value: m.Diag.String()}
	}
	return nil
}

// opShape returns the shape of op(m).
func opShape(m Matrix, t Transpose) (rows, cols int) {
	if t == NoTrans {
		return m.Rows, m.Cols
	}
	return m.Cols, m.Rows
}

func validateShapes(call *Call) error {
	op := call.Name()
	a, b, c := call.A, call.B, call.C
	square := func(name string, m Matrix) error {
		if m.Rows != m.Cols {
			return &ShapeError{Op: op, Operand: name, Dim: "cols", Got: m.Cols, Want: m.Rows, Reason: "matrix must be square"}
		}
		return nil
	}
	match := func(name, dim string, got, want int, reason string) error {
		if got != want {
			return &ShapeError{Op: op, Operand: name, Dim: dim, Got: got, Want: want, Reason: reason}
		}
		return nil
	}

	switch call.Kind {
	case Gemm:
		m, k := opShape(a, call.TransA)
		kb, n := opShape(b, call.TransB)
		return firstError(
			match("B", "k", kb, k, "inner dimensions of op(A) and op(B) differ"),
			match("C", "m", c.Rows, m, "rows of C differ from rows of op(A)"),
			match("C", "n", c.Cols, n, "columns of C differ from columns of op(B)"),
		)
	case Symm, Hemm:
		m, n := c.Rows, c.Cols
		want, dim := m, "m"
		if call.Side == Right {
			want, dim = n, "n"
		}
		return firstError(
			square("A", a),
			match("B", "m", b.Rows, m, "rows of B differ from rows of C"),
			match("B", "n", b.Cols, n, "columns of B differ from columns of C"),
			match("A", dim, a.Rows, want, fmt.Sprintf("order of A does not match C for side %v", call.Side)),
		)
	case Syrk, Herk:
		n, _ := opShape(a, call.TransA)
		return firstError(
			square("C", c),
			match("A", "n", n, c.Rows, "rows of op(A) differ from the order of C"),
		)
	case Syr2k, Her2k:
		n, _ := opShape(a, call.TransA)
		return firstError(
			square("C", c),
			match("A", "n", n, c.Rows, "rows of op(A) differ from the order of C"),
			match("B", "rows", b.Rows, a.Rows, "B must have the shape of A"),
			match("B", "cols", b.Cols, a.Cols, "B must have the shape of A"),
		)
	case Trmm, Trsm:
		m, n := b.Rows, b.Cols
		want, dim := m, "m"
		if call.Side == Right {
			want, dim = n, "n"
		}
		errs := []error{
			square("A", a),
			match("A", dim, a.Rows, want, fmt.Sprintf("order of A does not match B for side %v", call.Side)),
		}
		if call.Kind == Trmm {
			errs = append(errs,
				match("C", "m", c.Rows, m, "C must have the shape of B"),
				match("C", "n", c.Cols, n, "C must have the shape of B"))
		}
		return firstError(errs...)
	}
	return nil
}

func validateAliasing(call *Call) error {
	out := call.Kind.Output()
	for _, role := range call.Kind.Roles() {
		if role.Access != ReadOnly {
			continue
		}
		if overlaps(call.Operand(role.Name), call.Order, call.Operand(out), call.Order) {
			return &ShapeError{Op: call.Name(), Operand: out, Dim: "alias",
				Reason: fmt.Sprintf("output shares memory with input %s", role.Name)}
		}
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
