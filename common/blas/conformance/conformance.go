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

// Package conformance checks a backend against the laws every Level 3
// implementation must satisfy, through the public contract.
package conformance

import (
	"fmt"
	"math/cmplx"
	"math/rand/v2"

	"github.com/gorse-io/level3/common/blas"
	"github.com/juju/errors"
)

const tol = 1e-9

var (
	orders  = []blas.Order{blas.RowMajor, blas.ColMajor}
	domains = []blas.Domain{blas.Real, blas.Complex}
	sides   = []blas.Side{blas.Left, blas.Right}
	uplos   = []blas.Uplo{blas.Upper, blas.Lower}
	diags   = []blas.Diag{blas.NonUnit, blas.Unit}
)

// Scenario is a named check run through a Level3.
type Scenario struct {
	Name string
	Run  func(l *blas.Level3) error
}

// Result is the outcome of one scenario.
type Result struct {
	Name string
	Err  error
}

func (r Result) Passed() bool {
	return r.Err == nil
}

func Scenarios() []Scenario {
	return []Scenario{
		{Name: "gemm 2x2 product", Run: gemmProduct},
		{Name: "trsm 2x1 solve", Run: trsmSolve},
		{Name: "gemm identity", Run: gemmIdentity},
		{Name: "gemm alpha zero", Run: gemmAlphaZero},
		{Name: "gemm beta zero", Run: gemmBetaZero},
		{Name: "gemm reference", Run: gemmReference},
		{Name: "symm hemm reference", Run: symmReference},
		{Name: "rank-k update mirror", Run: rankKReference},
		{Name: "trmm trsm round trip", Run: trmmTrsmRoundTrip},
		{Name: "storage order equivalence", Run: orderEquivalence},
		{Name: "gemm shape mismatch", Run: gemmShapeMismatch},
		{Name: "herk real domain", Run: herkRealDomain},
	}
}

// Run executes every scenario.
func Run(l *blas.Level3) []Result {
	var results []Result
	for _, s := range Scenarios() {
		results = append(results, Result{Name: s.Name, Err: runScenario(s, l)})
	}
	return results
}

// runScenario turns a panicking scenario into a failed result.
func runScenario(s Scenario, l *blas.Level3) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("%s panicked: %v", s.Name, r)
		}
	}()
	return s.Run(l)
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(2026, 3))
}

func transposes(domain blas.Domain) []blas.Transpose {
	if domain == blas.Real {
		return []blas.Transpose{blas.NoTrans, blas.Trans}
	}
	return []blas.Transpose{blas.NoTrans, blas.Trans, blas.ConjTrans}
}

// scalar keeps the real part in the real domain.
func scalar(domain blas.Domain, v complex128) blas.Scalar {
	if domain == blas.Real {
		return blas.RealScalar(real(v))
	}
	return blas.ComplexScalar(v)
}

func gemmProduct(l *blas.Level3) error {
	a := blas.NewReal(2, 2, []float64{1, 2, 3, 4})
	b := blas.NewReal(2, 2, []float64{5, 6, 7, 8})
	c := blas.NewReal(2, 2, make([]float64, 4))
	if err := l.Gemm(blas.Real, blas.RowMajor, blas.NoTrans, blas.NoTrans,
		blas.RealScalar(1), a, b, blas.RealScalar(0), c); err != nil {
		return errors.Trace(err)
	}
	want := []float64{19, 22, 43, 50}
	for i := range want {
		if c.Real[i] != want[i] {
			return errors.Errorf("C = %v, want %v", c.Real, want)
		}
	}
	return nil
}

func trsmSolve(l *blas.Level3) error {
	a := blas.NewReal(2, 2, []float64{2, 0, 1, 3})
	b := blas.NewReal(2, 1, []float64{4, 5})
	if err := l.Trsm(blas.Real, blas.RowMajor, blas.Left, blas.Lower, blas.NoTrans, blas.NonUnit,
		blas.RealScalar(1), a, b); err != nil {
		return errors.Trace(err)
	}
	if b.Real[0] != 2 || b.Real[1] != 1 {
		return errors.Errorf("B = %v, want [2 1]", b.Real)
	}
	return nil
}

func gemmIdentity(l *blas.Level3) error {
	rng := newRand()
	for _, domain := range domains {
		for _, order := range orders {
			label := fmt.Sprintf("%v %v", domain, order)
			b := random(rng, 3, 4, domain)
			cv := filled(3, 4, nan()).view(domain, order)
			if err := l.Gemm(domain, order, blas.NoTrans, blas.NoTrans, scalar(domain, 1),
				identity(3).view(domain, order), b.view(domain, order), scalar(domain, 0), cv); err != nil {
				return errors.Annotate(err, label)
			}
			if err := compare(label, fromView(cv, order), b, 0); err != nil {
				return err
			}
		}
	}
	return nil
}

func gemmAlphaZero(l *blas.Level3) error {
	rng := newRand()
	for _, domain := range domains {
		for _, order := range orders {
			label := fmt.Sprintf("%v %v", domain, order)
			c := random(rng, 3, 4, domain)
			cv := c.view(domain, order)
			if err := l.Gemm(domain, order, blas.NoTrans, blas.NoTrans, scalar(domain, 0),
				filled(3, 5, nan()).view(domain, order), filled(5, 4, nan()).view(domain, order),
				scalar(domain, 1), cv); err != nil {
				return errors.Annotate(err, label)
			}
			if err := compare(label, fromView(cv, order), c, 0); err != nil {
				return err
			}
		}
	}
	return nil
}

func gemmBetaZero(l *blas.Level3) error {
	rng := newRand()
	for _, domain := range domains {
		for _, order := range orders {
			label := fmt.Sprintf("%v %v", domain, order)
			a, b := random(rng, 3, 5, domain), random(rng, 5, 4, domain)
			cv := filled(3, 4, nan()).view(domain, order)
			if err := l.Gemm(domain, order, blas.NoTrans, blas.NoTrans, scalar(domain, 1),
				a.view(domain, order), b.view(domain, order), scalar(domain, 0), cv); err != nil {
				return errors.Annotate(err, label)
			}
			if err := compare(label, fromView(cv, order), a.mul(b), tol); err != nil {
				return err
			}
		}
	}
	return nil
}

func gemmReference(l *blas.Level3) error {
	const m, n, k = 3, 4, 5
	rng := newRand()
	for _, domain := range domains {
		alpha, beta := scalar(domain, 0.5+0.25i), scalar(domain, -1+0.5i)
		for _, order := range orders {
			for _, tA := range transposes(domain) {
				for _, tB := range transposes(domain) {
					label := fmt.Sprintf("%v %v transA=%v transB=%v", domain, order, tA, tB)
					a := random(rng, m, k, domain).op(tA)
					b := random(rng, k, n, domain).op(tB)
					c := random(rng, m, n, domain)
					want := a.op(tA).mul(b.op(tB)).scale(alpha.Complex128()).add(c.scale(beta.Complex128()))
					cv := c.view(domain, order)
					if err := l.Gemm(domain, order, tA, tB, alpha,
						a.view(domain, order), b.view(domain, order), beta, cv); err != nil {
						return errors.Annotate(err, label)
					}
					if err := compare(label, fromView(cv, order), want, tol); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func symmReference(l *blas.Level3) error {
	const m, n = 3, 4
	rng := newRand()
	for _, desc := range []blas.Descriptor{
		{Kind: blas.Symm, Domain: blas.Real},
		{Kind: blas.Symm, Domain: blas.Complex},
		{Kind: blas.Hemm, Domain: blas.Complex},
	} {
		domain := desc.Domain
		alpha, beta := scalar(domain, 0.5+0.25i), scalar(domain, 2-1i)
		for _, order := range orders {
			for _, side := range sides {
				for _, uplo := range uplos {
					label := fmt.Sprintf("%v %v side=%v uplo=%v", desc, order, side, uplo)
					k := m
					if side == blas.Right {
						k = n
					}
					stored, full := structured(rng, k, uplo, desc.Kind == blas.Hemm, domain)
					b, c := random(rng, m, n, domain), random(rng, m, n, domain)
					var product *dense
					if side == blas.Right {
						product = b.mul(full)
					} else {
						product = full.mul(b)
					}
					want := product.scale(alpha.Complex128()).add(c.scale(beta.Complex128()))
					cv := c.view(domain, order)
					if err := l.Do(&blas.Call{
						Descriptor: desc,
						Order:      order, Side: side, Uplo: uplo,
						Alpha: alpha, Beta: beta,
						A: stored.view(domain, order), B: b.view(domain, order), C: cv,
					}); err != nil {
						return errors.Annotate(err, label)
					}
					if err := compare(label, fromView(cv, order), want, tol); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// rankKReference checks syrk, herk, syr2k and her2k against a full product:
// the uplo triangle must match, the other triangle must be untouched, and
// mirroring the computed triangle must rebuild the full product.
func rankKReference(l *blas.Level3) error {
	const n, k, sentinel = 4, 3, 42
	rng := newRand()
	for _, desc := range []blas.Descriptor{
		{Kind: blas.Syrk, Domain: blas.Real},
		{Kind: blas.Syr2k, Domain: blas.Real},
		{Kind: blas.Syrk, Domain: blas.Complex},
		{Kind: blas.Syr2k, Domain: blas.Complex},
		{Kind: blas.Herk, Domain: blas.Complex},
		{Kind: blas.Her2k, Domain: blas.Complex},
	} {
		domain := desc.Domain
		hermitian := desc.Kind == blas.Herk || desc.Kind == blas.Her2k
		trans := []blas.Transpose{blas.NoTrans, blas.Trans}
		adjoint := blas.Trans
		if hermitian {
			trans = []blas.Transpose{blas.NoTrans, blas.ConjTrans}
			adjoint = blas.ConjTrans
		}
		alpha := scalar(domain, 0.5+0.25i)
		if desc.Kind == blas.Herk {
			alpha = blas.ComplexScalar(1.5)
		}
		for _, order := range orders {
			for _, uplo := range uplos {
				for _, t := range trans {
					label := fmt.Sprintf("%v %v uplo=%v trans=%v", desc, order, uplo, t)
					rows, cols := n, k
					if t != blas.NoTrans {
						rows, cols = k, n
					}
					a, b := random(rng, rows, cols, domain), random(rng, rows, cols, domain)
					opA, opB := a.op(t), b.op(t)
					var want *dense
					switch desc.Kind {
					case blas.Syrk, blas.Herk:
						want = opA.mul(opA.op(adjoint)).scale(alpha.Complex128())
					case blas.Syr2k:
						want = opA.mul(opB.op(adjoint)).add(opB.mul(opA.op(adjoint))).scale(alpha.Complex128())
					case blas.Her2k:
						want = opA.mul(opB.op(adjoint)).scale(alpha.Complex128()).
							add(opB.mul(opA.op(adjoint)).scale(cmplx.Conj(alpha.Complex128())))
					}
					c := filled(n, n, sentinel)
					cv := c.view(domain, order)
					call := &blas.Call{
						Descriptor: desc,
						Order:      order, Uplo: uplo, TransA: t,
						Alpha: alpha, Beta: scalar(domain, 0),
						A: a.view(domain, order), C: cv,
					}
					if desc.Kind == blas.Syr2k || desc.Kind == blas.Her2k {
						call.B = b.view(domain, order)
					}
					if err := l.Do(call); err != nil {
						return errors.Annotate(err, label)
					}
					got := fromView(cv, order)
					if err := compareWhere(label, got, want, tol, func(i, j int) bool {
						return inTriangle(uplo, i, j)
					}); err != nil {
						return err
					}
					if err := compareWhere(label+" untouched", got, c, 0, func(i, j int) bool {
						return !inTriangle(uplo, i, j)
					}); err != nil {
						return err
					}
					mirrored := got.clone()
					for i := 0; i < n; i++ {
						for j := 0; j < n; j++ {
							if !inTriangle(uplo, i, j) {
								v := got.at(j, i)
								if hermitian {
									v = cmplx.Conj(v)
								}
								mirrored.set(i, j, v)
							}
						}
					}
					if err := compare(label+" mirror", mirrored, want, tol); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func trmmTrsmRoundTrip(l *blas.Level3) error {
	const m, n = 3, 4
	rng := newRand()
	for _, domain := range domains {
		alpha := scalar(domain, 1)
		for _, order := range orders {
			for _, side := range sides {
				for _, uplo := range uplos {
					for _, trans := range transposes(domain) {
						for _, diag := range diags {
							label := fmt.Sprintf("%v %v side=%v uplo=%v trans=%v diag=%v",
								domain, order, side, uplo, trans, diag)
							k := m
							if side == blas.Right {
								k = n
							}
							a := triangular(rng, k, uplo, diag, domain)
							b := random(rng, m, n, domain)
							av := a.view(domain, order).AsTriangular(uplo, diag)
							bv := b.view(domain, order)
							cv := newDense(m, n).view(domain, order)
							if err := l.Trmm(domain, order, side, uplo, trans, diag, alpha, av, bv, cv); err != nil {
								return errors.Annotate(err, label)
							}
							op := unitFilled(a, uplo, diag).op(trans)
							var want *dense
							if side == blas.Right {
								want = b.mul(op)
							} else {
								want = op.mul(b)
							}
							if err := compare(label+" trmm", fromView(cv, order), want, tol); err != nil {
								return err
							}
							if err := compare(label+" trmm input", fromView(bv, order), b, 0); err != nil {
								return err
							}
							if err := l.Trsm(domain, order, side, uplo, trans, diag, alpha, av, cv); err != nil {
								return errors.Annotate(err, label)
							}
							if err := compare(label+" trsm", fromView(cv, order), b, tol); err != nil {
								return err
							}
						}
					}
				}
			}
		}
	}
	return nil
}

// orderEquivalence computes the same logical products from row-major and
// column-major storage and expects identical results.
func orderEquivalence(l *blas.Level3) error {
	const m, n, k = 4, 3, 5
	rng := newRand()
	for _, domain := range domains {
		alpha, beta := scalar(domain, 1.5-0.5i), scalar(domain, 0.5)
		for _, tA := range transposes(domain) {
			label := fmt.Sprintf("%v gemm transA=%v", domain, tA)
			a := random(rng, m, k, domain).op(tA)
			b, c := random(rng, k, n, domain), random(rng, m, n, domain)
			var got []*dense
			for _, order := range orders {
				cv := c.view(domain, order)
				if err := l.Gemm(domain, order, tA, blas.NoTrans, alpha,
					a.view(domain, order), b.view(domain, order), beta, cv); err != nil {
					return errors.Annotate(err, label)
				}
				got = append(got, fromView(cv, order))
			}
			if err := compare(label, got[1], got[0], tol); err != nil {
				return err
			}
		}
		for _, uplo := range uplos {
			label := fmt.Sprintf("%v syr2k uplo=%v", domain, uplo)
			a, b := random(rng, n, k, domain), random(rng, n, k, domain)
			var got []*dense
			for _, order := range orders {
				cv := newDense(n, n).view(domain, order)
				if err := l.Syr2k(domain, order, uplo, blas.NoTrans, alpha,
					a.view(domain, order), b.view(domain, order), scalar(domain, 0), cv); err != nil {
					return errors.Annotate(err, label)
				}
				got = append(got, fromView(cv, order))
			}
			if err := compareWhere(label, got[1], got[0], tol, func(i, j int) bool {
				return inTriangle(uplo, i, j)
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func gemmShapeMismatch(l *blas.Level3) error {
	rng := newRand()
	c := random(rng, 2, 2, blas.Real)
	cv := c.view(blas.Real, blas.RowMajor)
	err := l.Gemm(blas.Real, blas.RowMajor, blas.NoTrans, blas.NoTrans, blas.RealScalar(1),
		random(rng, 2, 3, blas.Real).view(blas.Real, blas.RowMajor),
		random(rng, 4, 2, blas.Real).view(blas.Real, blas.RowMajor),
		blas.RealScalar(0), cv)
	var shapeErr *blas.ShapeError
	if !errors.As(err, &shapeErr) {
		return errors.Errorf("expected shape error, got %v", err)
	}
	return compare("C after rejected call", fromView(cv, blas.RowMajor), c, 0)
}

func herkRealDomain(l *blas.Level3) error {
	a := blas.NewReal(3, 2, make([]float64, 6))
	c := blas.NewReal(3, 3, make([]float64, 9))
	err := l.Herk(blas.Real, blas.RowMajor, blas.Upper, blas.NoTrans,
		blas.RealScalar(1), a, blas.RealScalar(0), c)
	var flagErr *blas.UnsupportedFlagError
	if !errors.As(err, &flagErr) {
		return errors.Errorf("expected unsupported flag error, got %v", err)
	}
	return nil
}
