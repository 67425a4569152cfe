// Copyright 2020 gorse Project Authors
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

package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration of the level3 command.
type Config struct {
	Backend BackendConfig `mapstructure:"backend"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Bench   BenchConfig   `mapstructure:"bench"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type BackendConfig struct {
	Name string `mapstructure:"name" validate:"required"`
}

type BatchConfig struct {
	Jobs int `mapstructure:"jobs" validate:"gt=0"`
}

type BenchConfig struct {
	Domain string `mapstructure:"domain" validate:"oneof=real complex d z"`
	Sizes  []int  `mapstructure:"sizes" validate:"required,dive,gt=0"`
	Repeat int    `mapstructure:"repeat" validate:"gt=0"`
}

type MetricsConfig struct {
	Host string `mapstructure:"host"`
	// Port 0 disables the metrics endpoint.
	Port int `mapstructure:"port" validate:"gte=0,lte=65535"`
}

func GetDefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			Name: "gonum",
		},
		Batch: BatchConfig{
			Jobs: 1,
		},
		Bench: BenchConfig{
			Domain: "real",
			Sizes:  []int{64, 128, 256},
			Repeat: 3,
		},
		Metrics: MetricsConfig{
			Host: "0.0.0.0",
			Port: 0,
		},
	}
}

func (config *Config) Validate() error {
	validate := validator.New()
	return errors.Trace(validate.Struct(config))
}

// Settings flattens the configuration into dotted keys.
func (config *Config) Settings() (map[string]any, error) {
	var sections map[string]any
	if err := mapstructure.Decode(config, &sections); err != nil {
		return nil, errors.Trace(err)
	}
	settings := make(map[string]any)
	for name, section := range sections {
		var values map[string]any
		if err := mapstructure.Decode(section, &values); err != nil {
			return nil, errors.Trace(err)
		}
		for key, value := range values {
			settings[name+"."+key] = value
		}
	}
	return settings, nil
}

func setDefault() {
	defaultConfig := GetDefaultConfig()
	// [backend]
	viper.SetDefault("backend.name", defaultConfig.Backend.Name)
	// [batch]
	viper.SetDefault("batch.jobs", defaultConfig.Batch.Jobs)
	// [bench]
	viper.SetDefault("bench.domain", defaultConfig.Bench.Domain)
	viper.SetDefault("bench.sizes", defaultConfig.Bench.Sizes)
	viper.SetDefault("bench.repeat", defaultConfig.Bench.Repeat)
	// [metrics]
	viper.SetDefault("metrics.host", defaultConfig.Metrics.Host)
	viper.SetDefault("metrics.port", defaultConfig.Metrics.Port)
}

type configBinding struct {
	key string
	env string
}

func bindEnv() {
	bindings := []configBinding{
		{"backend.name", "LEVEL3_BACKEND"},
		{"batch.jobs", "LEVEL3_BATCH_JOBS"},
		{"bench.domain", "LEVEL3_BENCH_DOMAIN"},
		{"bench.repeat", "LEVEL3_BENCH_REPEAT"},
		{"metrics.host", "LEVEL3_METRICS_HOST"},
		{"metrics.port", "LEVEL3_METRICS_PORT"},
	}
	for _, binding := range bindings {
		err := viper.BindEnv(binding.key, binding.env)
		if err != nil {
			panic(err)
		}
	}
}

// LoadConfig loads configuration from a TOML file. An empty path loads the
// defaults. Environment variables override both.
func LoadConfig(path string) (*Config, error) {
	setDefault()
	bindEnv()
	viper.SetConfigType("toml")
	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, errors.Trace(err)
		}
	} else if err := viper.ReadConfig(strings.NewReader("")); err != nil {
		return nil, errors.Trace(err)
	}
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, errors.Trace(err)
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &config, nil
}
