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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	LabelOp     = "op"
	LabelStatus = "status"
)

const (
	StatusOK        = "ok"
	StatusRejected  = "rejected"
	StatusNumerical = "numerical"
)

var (
	CallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "level3",
		Subsystem: "blas",
		Name:      "calls_total",
	}, []string{LabelOp, LabelStatus})
	CallSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "level3",
		Subsystem: "blas",
		Name:      "call_seconds",
		Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
	}, []string{LabelOp})
)
