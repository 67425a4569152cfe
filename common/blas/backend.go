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
	"sort"
	"sync"

	"github.com/juju/errors"
	"github.com/samber/lo"
	gonum "gonum.org/v1/gonum/blas"
	native "gonum.org/v1/gonum/blas/gonum"
)

// Backend executes resolved kernel calls. Implementations perform the
// arithmetic and report numerical failures as *NumericalError.
type Backend interface {
	Name() string
	Execute(call *KernelCall) error
}

// Implementation is a set of double precision Level 3 kernels in row-major
// layout, as provided by gonum and its cgo wrappers.
type Implementation interface {
	gonum.Float64Level3
	gonum.Complex128Level3
}

var (
	backendsLock sync.RWMutex
	backends     = make(map[string]func() Backend)
)

func init() {
	Register("gonum", func() Backend {
		return NewGonumBackend()
	})
}

// Register makes a backend available by name.
func Register(name string, factory func() Backend) {
	backendsLock.Lock()
	defer backendsLock.Unlock()
	backends[name] = factory
}

// OpenBackend creates a registered backend.
func OpenBackend(name string) (Backend, error) {
	backendsLock.RLock()
	defer backendsLock.RUnlock()
	factory, ok := backends[name]
	if !ok {
		return nil, errors.NotFoundf("backend %s (available: %v)", name, lo.Keys(backends))
	}
	return factory(), nil
}

// Backends returns the names of registered backends.
func Backends() []string {
	backendsLock.RLock()
	defer backendsLock.RUnlock()
	names := lo.Keys(backends)
	sort.Strings(names)
	return names
}

type kernelBackend struct {
	name       string
	impl       Implementation
	checkPivot bool
}

// NewBackend adapts a kernel implementation to the Backend interface.
func NewBackend(name string, impl Implementation) Backend {
	return &kernelBackend{name: name, impl: impl}
}

// NewGonumBackend runs calls on the pure Go kernels. Gonum divides by a zero
// pivot without complaint, so trsm diagonals are checked before solving.
func NewGonumBackend() Backend {
	return &kernelBackend{name: "gonum", impl: native.Implementation{}, checkPivot: true}
}

func (b *kernelBackend) Name() string {
	return b.name
}

func (b *kernelBackend) Execute(kc *KernelCall) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &NumericalError{Op: kc.Name(), Reason: "kernel failed", Err: errors.Errorf("%v", r)}
		}
	}()
	if b.checkPivot && kc.Kind == Trsm && kc.Diag == NonUnit && !kc.Alpha.IsZero() {
		if i, ok := zeroPivot(kc); ok {
			return &NumericalError{Op: kc.Name(), Reason: fmt.Sprintf("singular triangular matrix: zero diagonal at %d", i)}
		}
	}
	if kc.Domain == Real {
		b.executeReal(kc)
	} else {
		b.executeComplex(kc)
	}
	return nil
}

// zeroPivot finds an exact zero on the diagonal of a triangular operand.
func zeroPivot(kc *KernelCall) (int, bool) {
	k := kc.M
	if kc.Side == Right {
		k = kc.N
	}
	for i := 0; i < k; i++ {
		p := i*kc.A.Stride + i
		if kc.Domain == Real && kc.A.Real[p] == 0 || kc.Domain == Complex && kc.A.Complex[p] == 0 {
			return i, true
		}
	}
	return 0, false
}

func (b *kernelBackend) executeReal(kc *KernelCall) {
	alpha, beta := kc.Alpha.Float(), kc.Beta.Float()
	a, bb, c := kc.A, kc.B, kc.C
	switch kc.Kind {
	case Gemm:
		// Dgemm still multiplies by alpha when it is zero.
		if alpha == 0 {
			scaleRows(c.Real, c.Stride, kc.M, kc.N, beta)
			return
		}
		b.impl.Dgemm(kc.TransA.gonum(), kc.TransB.gonum(), kc.M, kc.N, kc.K,
			alpha, a.Real, a.Stride, bb.Real, bb.Stride, beta, c.Real, c.Stride)
	case Symm:
		b.impl.Dsymm(kc.Side.gonum(), kc.Uplo.gonum(), kc.M, kc.N,
			alpha, a.Real, a.Stride, bb.Real, bb.Stride, beta, c.Real, c.Stride)
	case Syrk:
		b.impl.Dsyrk(kc.Uplo.gonum(), kc.TransA.gonum(), kc.N, kc.K,
			alpha, a.Real, a.Stride, beta, c.Real, c.Stride)
	case Syr2k:
		b.impl.Dsyr2k(kc.Uplo.gonum(), kc.TransA.gonum(), kc.N, kc.K,
			alpha, a.Real, a.Stride, bb.Real, bb.Stride, beta, c.Real, c.Stride)
	case Trmm:
		// B is read only when alpha is nonzero; the kernel zeroes C otherwise.
		if alpha != 0 {
			copyRows(c.Real, c.Stride, bb.Real, bb.Stride, kc.M, kc.N)
		}
		b.impl.Dtrmm(kc.Side.gonum(), kc.Uplo.gonum(), kc.TransA.gonum(), kc.Diag.gonum(), kc.M, kc.N,
			alpha, a.Real, a.Stride, c.Real, c.Stride)
	case Trsm:
		b.impl.Dtrsm(kc.Side.gonum(), kc.Uplo.gonum(), kc.TransA.gonum(), kc.Diag.gonum(), kc.M, kc.N,
			alpha, a.Real, a.Stride, bb.Real, bb.Stride)
	default:
		panic(fmt.Sprintf("no real kernel for %v", kc.Kind))
	}
}

func (b *kernelBackend) executeComplex(kc *KernelCall) {
	alpha, beta := kc.Alpha.Complex128(), kc.Beta.Complex128()
	a, bb, c := kc.A, kc.B, kc.C
	switch kc.Kind {
	case Gemm:
		if alpha == 0 {
			scaleRows(c.Complex, c.Stride, kc.M, kc.N, beta)
			return
		}
		b.impl.Zgemm(kc.TransA.gonum(), kc.TransB.gonum(), kc.M, kc.N, kc.K,
			alpha, a.Complex, a.Stride, bb.Complex, bb.Stride, beta, c.Complex, c.Stride)
	case Symm:
		b.impl.Zsymm(kc.Side.gonum(), kc.Uplo.gonum(), kc.M, kc.N,
			alpha, a.Complex, a.Stride, bb.Complex, bb.Stride, beta, c.Complex, c.Stride)
	case Hemm:
		b.impl.Zhemm(kc.Side.gonum(), kc.Uplo.gonum(), kc.M, kc.N,
			alpha, a.Complex, a.Stride, bb.Complex, bb.Stride, beta, c.Complex, c.Stride)
	case Syrk:
		b.impl.Zsyrk(kc.Uplo.gonum(), kc.TransA.gonum(), kc.N, kc.K,
			alpha, a.Complex, a.Stride, beta, c.Complex, c.Stride)
	case Herk:
		b.impl.Zherk(kc.Uplo.gonum(), kc.TransA.gonum(), kc.N, kc.K,
			real(alpha), a.Complex, a.Stride, real(beta), c.Complex, c.Stride)
	case Syr2k:
		b.impl.Zsyr2k(kc.Uplo.gonum(), kc.TransA.gonum(), kc.N, kc.K,
			alpha, a.Complex, a.Stride, bb.Complex, bb.Stride, beta, c.Complex, c.Stride)
	case Her2k:
		b.impl.Zher2k(kc.Uplo.gonum(), kc.TransA.gonum(), kc.N, kc.K,
			alpha, a.Complex, a.Stride, bb.Complex, bb.Stride, real(beta), c.Complex, c.Stride)
	case Trmm:
		if alpha != 0 {
			copyRows(c.Complex, c.Stride, bb.Complex, bb.Stride, kc.M, kc.N)
		}
		b.impl.Ztrmm(kc.Side.gonum(), kc.Uplo.gonum(), kc.TransA.gonum(), kc.Diag.gonum(), kc.M, kc.N,
			alpha, a.Complex, a.Stride, c.Complex, c.Stride)
	case Trsm:
		b.impl.Ztrsm(kc.Side.gonum(), kc.Uplo.gonum(), kc.TransA.gonum(), kc.Diag.gonum(), kc.M, kc.N,
			alpha, a.Complex, a.Stride, bb.Complex, bb.Stride)
	default:
		panic(fmt.Sprintf("no complex kernel for %v", kc.Kind))
	}
}

func copyRows[T any](dst []T, ldd int, src []T, lds int, m, n int) {
	for i := 0; i < m; i++ {
		copy(dst[i*ldd:i*ldd+n], src[i*lds:i*lds+n])
	}
}

// scaleRows computes C = beta*C without reading C when beta is zero.
func scaleRows[T float64 | complex128](c []T, ldc int, m, n int, beta T) {
	if beta == 1 {
		return
	}
	for i := 0; i < m; i++ {
		row := c[i*ldc : i*ldc+n]
		for j := range row {
			if beta == 0 {
				row[j] = 0
			} else {
				row[j] *= beta
			}
		}
	}
}
