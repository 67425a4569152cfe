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

package main

import (
	"io"
	"os"

	"github.com/gorse-io/level3/common/blas/conformance"
	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:          "check",
	Short:        "Run conformance scenarios against a backend",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, l3, err := setup(cmd)
		if err != nil {
			return err
		}
		serveMetrics(conf)
		results := conformance.Run(l3)
		if err = renderResults(os.Stdout, results); err != nil {
			return err
		}
		if failed := lo.CountBy(results, func(r conformance.Result) bool { return !r.Passed() }); failed > 0 {
			return errors.Errorf("%d of %d scenarios failed on backend %s", failed, len(results), l3.Backend().Name())
		}
		return nil
	},
}

func renderResults(w io.Writer, results []conformance.Result) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Scenario", "Status", "Detail"})
	for _, result := range results {
		status, detail := "PASS", ""
		if !result.Passed() {
			status, detail = "FAIL", result.Err.Error()
		}
		if err := table.Append([]string{result.Name, status, detail}); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}
