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
	"unsafe"
)

// Scalar is a real or complex coefficient. The zero value has no domain.
type Scalar struct {
	domain Domain
	value  complex128
}

func RealScalar(x float64) Scalar {
	return Scalar{domain: Real, value: complex(x, 0)}
}

func ComplexScalar(z complex128) Scalar {
	return Scalar{domain: Complex, value: z}
}

func (s Scalar) Domain() Domain {
	return s.domain
}

func (s Scalar) IsZero() bool {
	return s.value == 0
}

// Float returns the real part.
func (s Scalar) Float() float64 {
	return real(s.value)
}

func (s Scalar) Complex128() complex128 {
	return s.value
}

func (s Scalar) conj() Scalar {
	return Scalar{domain: s.domain, value: complex(real(s.value), -imag(s.value))}
}

func (s Scalar) String() string {
	if s.domain == Real {
		return fmt.Sprint(real(s.value))
	}
	return fmt.Sprint(s.value)
}

// Matrix describes one operand stored in a caller-owned buffer. It never
// copies data. Rows and Cols are the stored (pre-transpose) shape. Stride is
// the leading dimension: the distance between rows in row-major order or
// between columns in column-major order; zero means tightly packed.
type Matrix struct {
	Rows   int
	Cols   int
	Stride int
	// Order is the storage order of the buffer. Zero inherits the order of
	// the call; any other value must agree with it.
	Order Order
	// Structure, Uplo and Diag are optional declarations. When set they must
	// agree with the structure and flags the operation uses.
	Structure Structure
	Uplo      Uplo
	Diag      Diag

	Real    []float64
	Complex []complex128
}

// NewReal creates a packed general view over a real buffer.
func NewReal(rows, cols int, data []float64) Matrix {
	return Matrix{Rows: rows, Cols: cols, Real: data}
}

// NewComplex creates a packed general view over a complex buffer.
func NewComplex(rows, cols int, data []complex128) Matrix {
	return Matrix{Rows: rows, Cols: cols, Complex: data}
}

func (m Matrix) WithStride(stride int) Matrix {
	m.Stride = stride
	return m
}

func (m Matrix) WithOrder(order Order) Matrix {
	m.Order = order
	return m
}

func (m Matrix) AsSymmetric(uplo Uplo) Matrix {
	m.Structure, m.Uplo = Symmetric, uplo
	return m
}

func (m Matrix) AsHermitian(uplo Uplo) Matrix {
	m.Structure, m.Uplo = Hermitian, uplo
	return m
}

func (m Matrix) AsTriangular(uplo Uplo, diag Diag) Matrix {
	m.Structure, m.Uplo, m.Diag = Triangular, uplo, diag
	return m
}

// Domain is Real or Complex when exactly one buffer is set, zero otherwise.
func (m Matrix) Domain() Domain {
	switch {
	case m.Real != nil && m.Complex == nil:
		return Real
	case m.Complex != nil && m.Real == nil:
		return Complex
	default:
		return 0
	}
}

func (m Matrix) len() int {
	if m.Real != nil {
		return len(m.Real)
	}
	return len(m.Complex)
}

// extent returns the outer and inner dimensions of the storage in the given order.
func (m Matrix) extent(order Order) (outer, inner int) {
	if order == ColMajor {
		return m.Cols, m.Rows
	}
	return m.Rows, m.Cols
}

// leading returns the effective leading dimension in the given order.
func (m Matrix) leading(order Order) int {
	if m.Stride != 0 {
		return m.Stride
	}
	_, inner := m.extent(order)
	return inner
}

// span is the number of elements addressed by the view.
func (m Matrix) span(order Order) int {
	outer, inner := m.extent(order)
	return (outer-1)*m.leading(order) + inner
}

// memory returns the address range [begin, end) touched by the view.
func (m Matrix) memory(order Order) (begin, end uintptr) {
	n := m.span(order)
	if n <= 0 || n > m.len() {
		return 0, 0
	}
	begin = m.base()
	return begin, begin + uintptr(n)*m.elemSize()
}

func (m Matrix) base() uintptr {
	if m.Real != nil {
		return uintptr(unsafe.Pointer(unsafe.SliceData(m.Real)))
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(m.Complex)))
}

func (m Matrix) elemSize() uintptr {
	if m.Real != nil {
		return unsafe.Sizeof(float64(0))
	}
	return unsafe.Sizeof(complex128(0))
}

// overlaps reports whether two views, stored in the given orders, address a
// common element. Views whose bounds intersect are compared line by line, so
// disjoint blocks of one buffer do not overlap.
func overlaps(a Matrix, orderA Order, b Matrix, orderB Order) bool {
	a0, a1 := a.memory(orderA)
	b0, b1 := b.memory(orderB)
	if a0 == a1 || b0 == b1 {
		return false
	}
	if a0 >= b1 || b0 >= a1 {
		return false
	}
	if a.Domain() != b.Domain() {
		return true
	}
	if b0 < a0 {
		a, orderA, b, orderB = b, orderB, a, orderA
		a0, b0 = b0, a0
	}
	size := a.elemSize()
	if (b0-a0)%size != 0 {
		return true
	}
	d := int((b0 - a0) / size)
	outerA, innerA := a.extent(orderA)
	outerB, innerB := b.extent(orderB)
	ldA, ldB := a.leading(orderA), b.leading(orderB)
	for i := 0; i < outerA; i++ {
		s, e := i*ldA, i*ldA+innerA
		// first line of b that ends after s
		j := 0
		if gap := s - innerB - d; gap >= 0 {
			j = gap/ldB + 1
		}
		if j < outerB && d+j*ldB < e {
			return true
		}
	}
	return false
}
