//go:build cgo && netlib

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

import "gonum.org/v1/netlib/blas/netlib"

// The netlib backend calls the CBLAS library found by the linker, e.g.
// OpenBLAS with CGO_LDFLAGS="-lopenblas".
func init() {
	Register("netlib", func() Backend {
		return NewBackend("netlib", netlib.Implementation{})
	})
}
