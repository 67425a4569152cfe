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
	"os"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestUnmarshal(t *testing.T) {
	data, err := os.ReadFile("config.toml.template")
	assert.NoError(t, err)
	viper.SetConfigType("toml")
	err = viper.ReadConfig(strings.NewReader(string(data)))
	assert.NoError(t, err)
	var config Config
	err = viper.Unmarshal(&config)
	assert.NoError(t, err)

	// [backend]
	assert.Equal(t, "gonum", config.Backend.Name)
	// [batch]
	assert.Equal(t, 4, config.Batch.Jobs)
	// [bench]
	assert.Equal(t, "real", config.Bench.Domain)
	assert.Equal(t, []int{64, 128, 256, 512}, config.Bench.Sizes)
	assert.Equal(t, 5, config.Bench.Repeat)
	// [metrics]
	assert.Equal(t, "0.0.0.0", config.Metrics.Host)
	assert.Equal(t, 8089, config.Metrics.Port)
	assert.NoError(t, config.Validate())
}

func TestSetDefault(t *testing.T) {
	setDefault()
	err := viper.ReadConfig(strings.NewReader(""))
	assert.NoError(t, err)
	var config Config
	err = viper.Unmarshal(&config)
	assert.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), &config)
}

func TestValidate(t *testing.T) {
	config := GetDefaultConfig()
	assert.NoError(t, config.Validate())

	config.Batch.Jobs = 0
	assert.Error(t, config.Validate())

	config = GetDefaultConfig()
	config.Backend.Name = ""
	assert.Error(t, config.Validate())

	config = GetDefaultConfig()
	config.Bench.Domain = "quaternion"
	assert.Error(t, config.Validate())

	config = GetDefaultConfig()
	config.Bench.Sizes = []int{16, 0}
	assert.Error(t, config.Validate())

	config = GetDefaultConfig()
	config.Metrics.Port = 70000
	assert.Error(t, config.Validate())
}

func TestSettings(t *testing.T) {
	settings, err := GetDefaultConfig().Settings()
	assert.NoError(t, err)
	assert.Equal(t, "gonum", settings["backend.name"])
	assert.Equal(t, 1, settings["batch.jobs"])
	assert.Equal(t, []int{64, 128, 256}, settings["bench.sizes"])
	assert.Equal(t, 0, settings["metrics.port"])
	assert.Len(t, settings, 7)
}

func TestBindEnv(t *testing.T) {
	t.Setenv("LEVEL3_BACKEND", "netlib")
	t.Setenv("LEVEL3_BATCH_JOBS", "8")
	t.Setenv("LEVEL3_BENCH_DOMAIN", "complex")
	t.Setenv("LEVEL3_BENCH_REPEAT", "2")
	t.Setenv("LEVEL3_METRICS_HOST", "127.0.0.1")
	t.Setenv("LEVEL3_METRICS_PORT", "9090")

	config, err := LoadConfig("config.toml.template")
	assert.NoError(t, err)
	assert.Equal(t, "netlib", config.Backend.Name)
	assert.Equal(t, 8, config.Batch.Jobs)
	assert.Equal(t, "complex", config.Bench.Domain)
	assert.Equal(t, 2, config.Bench.Repeat)
	assert.Equal(t, "127.0.0.1", config.Metrics.Host)
	assert.Equal(t, 9090, config.Metrics.Port)

	// check values from file
	assert.Equal(t, []int{64, 128, 256, 512}, config.Bench.Sizes)
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv("LEVEL3_BATCH_JOBS", "-1")
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig("missing.toml")
	assert.Error(t, err)
}
