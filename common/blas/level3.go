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
	"time"

	"github.com/gorse-io/level3/common/log"
	"go.uber.org/zap"
)

// Level3 is the public surface of the Level 3 operations. Each call is
// validated, resolved to canonical layout and executed by the backend. Calls
// are stateless: concurrent calls are safe when their written operands do not
// overlap any operand of another call.
//
// Shape, domain and flag errors are returned before the backend runs and
// leave every operand untouched. Errors from the backend are returned as they
// are; the output may then be partially overwritten.
type Level3 struct {
	backend Backend
	logger  *zap.Logger
}

type Option func(*Level3)

func WithLogger(logger *zap.Logger) Option {
	return func(l *Level3) {
		l.logger = logger
	}
}

func New(backend Backend, opts ...Option) *Level3 {
	l := &Level3{backend: backend}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Level3) Backend() Backend {
	return l.backend
}

func (l *Level3) log() *zap.Logger {
	if l.logger != nil {
		return l.logger
	}
	return log.Logger()
}

// Do validates and executes a call.
func (l *Level3) Do(call *Call) error {
	start := time.Now()
	name := call.Name()
	if err := Validate(call); err != nil {
		CallsTotal.WithLabelValues(name, StatusRejected).Inc()
		l.log().Debug("reject blas call", zap.String("op", name), zap.Error(err))
		return err
	}
	return l.execute(call, start)
}

// execute runs a validated call on the backend.
func (l *Level3) execute(call *Call, start time.Time) error {
	name := call.Name()
	if err := l.backend.Execute(Resolve(call)); err != nil {
		CallsTotal.WithLabelValues(name, StatusNumerical).Inc()
		l.log().Warn("blas kernel failed", zap.String("op", name),
			zap.String("backend", l.backend.Name()), zap.Error(err))
		return err
	}
	CallsTotal.WithLabelValues(name, StatusOK).Inc()
	CallSeconds.WithLabelValues(name).Observe(time.Since(start).Seconds())
	return nil
}

// Gemm computes C = alpha * op(A) * op(B) + beta * C, where op(A) is m×k,
// op(B) is k×n and C is m×n.
func (l *Level3) Gemm(domain Domain, order Order, transA, transB Transpose,
	alpha Scalar, a, b Matrix, beta Scalar, c Matrix) error {
	return l.Do(&Call{
		Descriptor: Descriptor{Kind: Gemm, Domain: domain},
		Order:      order, TransA: transA, TransB: transB,
		Alpha: alpha, A: a, B: b, Beta: beta, C: c,
	})
}

// Symm computes C = alpha * A * B + beta * C (side Left) or
// C = alpha * B * A + beta * C (side Right) for symmetric A.
func (l *Level3) Symm(domain Domain, order Order, side Side, uplo Uplo,
	alpha Scalar, a, b Matrix, beta Scalar, c Matrix) error {
	return l.Do(&Call{
		Descriptor: Descriptor{Kind: Symm, Domain: domain},
		Order:      order, Side: side, Uplo: uplo,
		Alpha: alpha, A: a, B: b, Beta: beta, C: c,
	})
}

// Hemm is Symm for Hermitian A. Complex domain only.
func (l *Level3) Hemm(domain Domain, order Order, side Side, uplo Uplo,
	alpha Scalar, a, b Matrix, beta Scalar, c Matrix) error {
	return l.Do(&Call{
		Descriptor: Descriptor{Kind: Hemm, Domain: domain},
		Order:      order, Side: side, Uplo: uplo,
		Alpha: alpha, A: a, B: b, Beta: beta, C: c,
	})
}

// Syrk computes C = alpha * A * A^T + beta * C (NoTrans, A is n×k) or
// C = alpha * A^T * A + beta * C (Trans, A is k×n). Only the uplo triangle of
// C is referenced.
func (l *Level3) Syrk(domain Domain, order Order, uplo Uplo, trans Transpose,
	alpha Scalar, a Matrix, beta Scalar, c Matrix) error {
	return l.Do(&Call{
		Descriptor: Descriptor{Kind: Syrk, Domain: domain},
		Order:      order, Uplo: uplo, TransA: trans,
		Alpha: alpha, A: a, Beta: beta, C: c,
	})
}

// Herk computes C = alpha * A * A^H + beta * C (NoTrans) or
// C = alpha * A^H * A + beta * C (ConjTrans). alpha and beta must be real
// valued. Complex domain only.
func (l *Level3) Herk(domain Domain, order Order, uplo Uplo, trans Transpose,
	alpha Scalar, a Matrix, beta Scalar, c Matrix) error {
	return l.Do(&Call{
		Descriptor: Descriptor{Kind: Herk, Domain: domain},
		Order:      order, Uplo: uplo, TransA: trans,
		Alpha: alpha, A: a, Beta: beta, C: c,
	})
}

// Syr2k computes C = alpha * (A * B^T + B * A^T) + beta * C (NoTrans) or
// C = alpha * (A^T * B + B^T * A) + beta * C (Trans).
func (l *Level3) Syr2k(domain Domain, order Order, uplo Uplo, trans Transpose,
	alpha Scalar, a, b Matrix, beta Scalar, c Matrix) error {
	return l.Do(&Call{
		Descriptor: Descriptor{Kind: Syr2k, Domain: domain},
		Order:      order, Uplo: uplo, TransA: trans,
		Alpha: alpha, A: a, B: b, Beta: beta, C: c,
	})
}

// Her2k computes C = alpha * A * B^H + conj(alpha) * B * A^H + beta * C
// (NoTrans) or C = alpha * A^H * B + conj(alpha) * B^H * A + beta * C
// (ConjTrans). beta must be real valued. Complex domain only.
func (l *Level3) Her2k(domain Domain, order Order, uplo Uplo, trans Transpose,
	alpha Scalar, a, b Matrix, beta Scalar, c Matrix) error {
	return l.Do(&Call{
		Descriptor: Descriptor{Kind: Her2k, Domain: domain},
		Order:      order, Uplo: uplo, TransA: trans,
		Alpha: alpha, A: a, B: b, Beta: beta, C: c,
	})
}

// Trmm computes C = alpha * op(A) * B (side Left) or C = alpha * B * op(A)
// (side Right) for triangular A. B is not modified.
func (l *Level3) Trmm(domain Domain, order Order, side Side, uplo Uplo, transA Transpose, diag Diag,
	alpha Scalar, a, b, c Matrix) error {
	return l.Do(&Call{
		Descriptor: Descriptor{Kind: Trmm, Domain: domain},
		Order:      order, Side: side, Uplo: uplo, TransA: transA, Diag: diag,
		Alpha: alpha, A: a, B: b, C: c,
	})
}

// Trsm solves op(A) * X = alpha * B (side Left) or X * op(A) = alpha * B
// (side Right) for triangular A and overwrites B with X. Singularity of A is
// left to the backend.
func (l *Level3) Trsm(domain Domain, order Order, side Side, uplo Uplo, transA Transpose, diag Diag,
	alpha Scalar, a, b Matrix) error {
	return l.Do(&Call{
		Descriptor: Descriptor{Kind: Trsm, Domain: domain},
		Order:      order, Side: side, Uplo: uplo, TransA: transA, Diag: diag,
		Alpha: alpha, A: a, B: b,
	})
}
