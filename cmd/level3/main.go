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
	"fmt"
	"net/http"

	"github.com/gorse-io/level3/cmd/version"
	"github.com/gorse-io/level3/common/blas"
	"github.com/gorse-io/level3/common/log"
	"github.com/gorse-io/level3/config"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "level3",
	Short: "Level 3 BLAS contract checker and benchmark.",
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion, _ := cmd.PersistentFlags().GetBool("version"); showVersion {
			fmt.Println(version.BuildInfo())
			return
		}
		_ = cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.BuildInfo())
	},
}

func init() {
	log.AddFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().Bool("debug", false, "use debug log mode")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log fatal errors")
	rootCmd.PersistentFlags().BoolP("version", "v", false, "level3 version")
	rootCmd.PersistentFlags().StringP("config", "c", "", "configuration file path")
	rootCmd.PersistentFlags().StringP("backend", "b", "", "kernel backend (overrides backend.name)")
	rootCmd.AddCommand(checkCmd, benchCmd, versionCmd)
}

// setup configures the logger, loads the configuration and opens the backend.
func setup(cmd *cobra.Command) (*config.Config, *blas.Level3, error) {
	flags := cmd.Flags()
	debug, _ := flags.GetBool("debug")
	log.SetLogger(flags, debug)
	if quiet, _ := flags.GetBool("quiet"); quiet {
		log.CloseLogger()
	}

	configPath, _ := flags.GetString("config")
	log.Logger().Info("load config", zap.String("config", configPath))
	conf, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, errors.Annotate(err, "failed to load config")
	}
	if name, _ := flags.GetString("backend"); name != "" {
		conf.Backend.Name = name
	}
	backend, err := blas.OpenBackend(conf.Backend.Name)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	log.Logger().Info("open backend", zap.String("backend", backend.Name()))
	return conf, blas.New(backend), nil
}

// serveMetrics exposes prometheus metrics when a port is configured.
func serveMetrics(conf *config.Config) {
	if conf.Metrics.Port == 0 {
		return
	}
	addr := fmt.Sprintf("%s:%d", conf.Metrics.Host, conf.Metrics.Port)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Logger().Info("start metrics server", zap.String("address", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Logger().Error("failed to serve metrics", zap.Error(err))
		}
	}()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
