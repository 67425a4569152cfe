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

package conformance

import (
	"math"
	"math/cmplx"
	"math/rand/v2"

	"github.com/gorse-io/level3/common/blas"
	"github.com/juju/errors"
)

// dense is a logical matrix kept in row-major order for reference
// computations. Real matrices have zero imaginary parts.
type dense struct {
	rows, cols int
	data       []complex128
}

func newDense(rows, cols int) *dense {
	return &dense{rows: rows, cols: cols, data: make([]complex128, rows*cols)}
}

func filled(rows, cols int, v complex128) *dense {
	d := newDense(rows, cols)
	for i := range d.data {
		d.data[i] = v
	}
	return d
}

func identity(n int) *dense {
	d := newDense(n, n)
	for i := 0; i < n; i++ {
		d.set(i, i, 1)
	}
	return d
}

func random(rng *rand.Rand, rows, cols int, domain blas.Domain) *dense {
	d := newDense(rows, cols)
	for i := range d.data {
		d.data[i] = randomValue(rng, domain)
	}
	return d
}

func randomValue(rng *rand.Rand, domain blas.Domain) complex128 {
	re := rng.Float64()*2 - 1
	if domain == blas.Real {
		return complex(re, 0)
	}
	return complex(re, rng.Float64()*2-1)
}

func nan() complex128 {
	return complex(math.NaN(), math.NaN())
}

func (d *dense) at(i, j int) complex128 {
	return d.data[i*d.cols+j]
}

func (d *dense) set(i, j int, v complex128) {
	d.data[i*d.cols+j] = v
}

func (d *dense) clone() *dense {
	e := newDense(d.rows, d.cols)
	copy(e.data, d.data)
	return e
}

// op applies a transpose flag.
func (d *dense) op(t blas.Transpose) *dense {
	if t == blas.NoTrans {
		return d
	}
	e := newDense(d.cols, d.rows)
	for i := 0; i < d.rows; i++ {
		for j := 0; j < d.cols; j++ {
			v := d.at(i, j)
			if t == blas.ConjTrans {
				v = cmplx.Conj(v)
			}
			e.set(j, i, v)
		}
	}
	return e
}

func (d *dense) mul(e *dense) *dense {
	if d.cols != e.rows {
		panic(errors.Errorf("cannot multiply %dx%d by %dx%d", d.rows, d.cols, e.rows, e.cols))
	}
	r := newDense(d.rows, e.cols)
	for i := 0; i < d.rows; i++ {
		for j := 0; j < e.cols; j++ {
			var sum complex128
			for l := 0; l < d.cols; l++ {
				sum += d.at(i, l) * e.at(l, j)
			}
			r.set(i, j, sum)
		}
	}
	return r
}

func (d *dense) scale(alpha complex128) *dense {
	r := d.clone()
	for i := range r.data {
		r.data[i] *= alpha
	}
	return r
}

func (d *dense) add(e *dense) *dense {
	r := d.clone()
	for i := range r.data {
		r.data[i] += e.data[i]
	}
	return r
}

// view copies the matrix into a packed buffer of the given domain and order.
func (d *dense) view(domain blas.Domain, order blas.Order) blas.Matrix {
	index := func(i, j int) int {
		if order == blas.ColMajor {
			return j*d.rows + i
		}
		return i*d.cols + j
	}
	if domain == blas.Real {
		data := make([]float64, len(d.data))
		for i := 0; i < d.rows; i++ {
			for j := 0; j < d.cols; j++ {
				data[index(i, j)] = real(d.at(i, j))
			}
		}
		return blas.NewReal(d.rows, d.cols, data)
	}
	data := make([]complex128, len(d.data))
	for i := 0; i < d.rows; i++ {
		for j := 0; j < d.cols; j++ {
			data[index(i, j)] = d.at(i, j)
		}
	}
	return blas.NewComplex(d.rows, d.cols, data)
}

// fromView reads a packed view back into a logical matrix.
func fromView(m blas.Matrix, order blas.Order) *dense {
	d := newDense(m.Rows, m.Cols)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			p := i*m.Cols + j
			if order == blas.ColMajor {
				p = j*m.Rows + i
			}
			if m.Real != nil {
				d.set(i, j, complex(m.Real[p], 0))
			} else {
				d.set(i, j, m.Complex[p])
			}
		}
	}
	return d
}

// inTriangle reports whether (i, j) lies in the given triangle, diagonal included.
func inTriangle(uplo blas.Uplo, i, j int) bool {
	if uplo == blas.Upper {
		return i <= j
	}
	return i >= j
}

// triangular returns a well conditioned triangular matrix. Elements outside
// the triangle, and the diagonal when unit, are NaN so that reading them
// poisons the result.
func triangular(rng *rand.Rand, n int, uplo blas.Uplo, diag blas.Diag, domain blas.Domain) *dense {
	d := filled(n, n, nan())
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			switch {
			case i == j && diag == blas.Unit:
			case i == j:
				v := complex(2+rng.Float64(), 0)
				if domain == blas.Complex {
					v += complex(0, rng.Float64()-0.5)
				}
				d.set(i, j, v)
			case inTriangle(uplo, i, j):
				d.set(i, j, randomValue(rng, domain)*0.5)
			}
		}
	}
	return d
}

// unitFilled is the triangular matrix with an explicit unit diagonal and
// zeros outside the triangle.
func unitFilled(d *dense, uplo blas.Uplo, diag blas.Diag) *dense {
	r := newDense(d.rows, d.cols)
	for i := 0; i < d.rows; i++ {
		for j := 0; j < d.cols; j++ {
			switch {
			case i == j && diag == blas.Unit:
				r.set(i, j, 1)
			case inTriangle(uplo, i, j):
				r.set(i, j, d.at(i, j))
			}
		}
	}
	return r
}

// structured returns a random symmetric or Hermitian matrix stored in the
// uplo triangle with NaN in the other one, and its full reference.
func structured(rng *rand.Rand, n int, uplo blas.Uplo, hermitian bool, domain blas.Domain) (stored, full *dense) {
	stored, full = filled(n, n, nan()), newDense(n, n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := randomValue(rng, domain)
			if i == j && hermitian {
				v = complex(real(v), 0)
			}
			mirror := v
			if hermitian {
				mirror = cmplx.Conj(v)
			}
			full.set(i, j, v)
			full.set(j, i, mirror)
			if uplo == blas.Upper {
				stored.set(i, j, v)
			} else {
				stored.set(j, i, mirror)
			}
		}
	}
	return stored, full
}

// compare checks every element within tol. A NaN never matches.
func compare(label string, got, want *dense, tol float64) error {
	return compareWhere(label, got, want, tol, func(i, j int) bool { return true })
}

func compareWhere(label string, got, want *dense, tol float64, where func(i, j int) bool) error {
	if got.rows != want.rows || got.cols != want.cols {
		return errors.Errorf("%s: shape %dx%d, want %dx%d", label, got.rows, got.cols, want.rows, want.cols)
	}
	for i := 0; i < got.rows; i++ {
		for j := 0; j < got.cols; j++ {
			if !where(i, j) {
				continue
			}
			g, w := got.at(i, j), want.at(i, j)
			if cmplx.IsNaN(g) || cmplx.Abs(g-w) > tol {
				return errors.Errorf("%s: element (%d,%d) = %v, want %v", label, i, j, g, w)
			}
		}
	}
	return nil
}
