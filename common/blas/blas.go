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
	gonum "gonum.org/v1/gonum/blas"
)

// Flag values carry the CBLAS enumeration codes so that they can be passed to
// native libraries without translation.

type Order int

const (
	RowMajor Order = 101
	ColMajor Order = 102
)

type Transpose int

const (
	NoTrans   Transpose = 111
	Trans     Transpose = 112
	ConjTrans Transpose = 113
)

type Uplo int

const (
	Upper Uplo = 121
	Lower Uplo = 122
)

type Diag int

const (
	NonUnit Diag = 131
	Unit    Diag = 132
)

type Side int

const (
	Left  Side = 141
	Right Side = 142
)

// Domain is the numeric field an operation works in.
type Domain int

const (
	Real Domain = iota + 1
	Complex
)

// Structure tells which part of a square matrix is authoritative.
type Structure int

const (
	General Structure = iota
	Symmetric
	Hermitian
	Triangular
)

func NewTranspose(transpose bool) Transpose {
	if transpose {
		return Trans
	} else {
		return NoTrans
	}
}

func (o Order) Valid() bool {
	return o == RowMajor || o == ColMajor
}

func (o Order) String() string {
	switch o {
	case RowMajor:
		return "RowMajor"
	case ColMajor:
		return "ColMajor"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

func (t Transpose) Valid() bool {
	return t == NoTrans || t == Trans || t == ConjTrans
}

func (t Transpose) String() string {
	switch t {
	case NoTrans:
		return "NoTrans"
	case Trans:
		return "Trans"
	case ConjTrans:
		return "ConjTrans"
	default:
		return fmt.Sprintf("Transpose(%d)", int(t))
	}
}

func (u Uplo) Valid() bool {
	return u == Upper || u == Lower
}

// Flip returns the other triangle.
func (u Uplo) Flip() Uplo {
	if u == Upper {
		return Lower
	}
	return Upper
}

func (u Uplo) String() string {
	switch u {
	case Upper:
		return "Upper"
	case Lower:
		return "Lower"
	default:
		return fmt.Sprintf("Uplo(%d)", int(u))
	}
}

func (d Diag) Valid() bool {
	return d == NonUnit || d == Unit
}

func (d Diag) String() string {
	switch d {
	case NonUnit:
		return "NonUnit"
	case Unit:
		return "Unit"
	default:
		return fmt.Sprintf("Diag(%d)", int(d))
	}
}

func (s Side) Valid() bool {
	return s == Left || s == Right
}

// Flip returns the opposite side.
func (s Side) Flip() Side {
	if s == Left {
		return Right
	}
	return Left
}

func (s Side) String() string {
	switch s {
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

func (d Domain) Valid() bool {
	return d == Real || d == Complex
}

// Prefix is the BLAS routine prefix for double precision in this domain.
func (d Domain) Prefix() string {
	switch d {
	case Real:
		return "d"
	case Complex:
		return "z"
	default:
		return "?"
	}
}

func (d Domain) String() string {
	switch d {
	case Real:
		return "real"
	case Complex:
		return "complex"
	default:
		return fmt.Sprintf("Domain(%d)", int(d))
	}
}

func (s Structure) String() string {
	switch s {
	case General:
		return "general"
	case Symmetric:
		return "symmetric"
	case Hermitian:
		return "Hermitian"
	case Triangular:
		return "triangular"
	default:
		return fmt.Sprintf("Structure(%d)", int(s))
	}
}

// The parsers below accept the single character codes used by Fortran BLAS.

var (
	orderCodes     = map[byte]Order{'R': RowMajor, 'C': ColMajor}
	transposeCodes = map[byte]Transpose{'N': NoTrans, 'T': Trans, 'C': ConjTrans}
	uploCodes      = map[byte]Uplo{'U': Upper, 'L': Lower}
	diagCodes      = map[byte]Diag{'N': NonUnit, 'U': Unit}
	sideCodes      = map[byte]Side{'L': Left, 'R': Right}
)

func parseCode[T any](flag string, codes map[byte]T, c byte) (T, error) {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if v, ok := codes[c]; ok {
		return v, nil
	}
	return lo.Empty[T](), &UnsupportedFlagError{Flag: flag, Value: fmt.Sprintf("%q", c)}
}

func ParseOrder(c byte) (Order, error) {
	return parseCode("order", orderCodes, c)
}

func ParseTranspose(c byte) (Transpose, error) {
	return parseCode("transpose", transposeCodes, c)
}

func ParseUplo(c byte) (Uplo, error) {
	return parseCode("uplo", uploCodes, c)
}

func ParseDiag(c byte) (Diag, error) {
	return parseCode("diag", diagCodes, c)
}

func ParseSide(c byte) (Side, error) {
	return parseCode("side", sideCodes, c)
}

// ParseDomain accepts the BLAS prefix (d or z) or the domain name.
func ParseDomain(s string) (Domain, error) {
	switch s {
	case "d", "real":
		return Real, nil
	case "z", "complex":
		return Complex, nil
	default:
		return 0, &UnsupportedFlagError{Flag: "domain", Value: s}
	}
}

// The converters below map flags to the character codes of the gonum kernels.

func (t Transpose) gonum() gonum.Transpose {
	switch t {
	case Trans:
		return gonum.Trans
	case ConjTrans:
		return gonum.ConjTrans
	default:
		return gonum.NoTrans
	}
}

func (u Uplo) gonum() gonum.Uplo {
	if u == Lower {
		return gonum.Lower
	}
	return gonum.Upper
}

func (d Diag) gonum() gonum.Diag {
	if d == Unit {
		return gonum.Unit
	}
	return gonum.NonUnit
}

func (s Side) gonum() gonum.Side {
	if s == Right {
		return gonum.Right
	}
	return gonum.Left
}
