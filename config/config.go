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

package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the benchmark configuration, loaded from TOML.
type Config struct {
	Data    DataConfig    `mapstructure:"data"`
	Split   SplitConfig   `mapstructure:"split"`
	Summary SummaryConfig `mapstructure:"summary"`
	MF      MFConfig      `mapstructure:"mf" validate:"required"`
}

// DataConfig selects the built-in dataset.
type DataConfig struct {
	// Name is the built-in dataset name.
	Name string `mapstructure:"name" validate:"oneof=ml-100k ml-1m ml-10m"`
}

// SplitConfig drives the two partitioning passes. The holdout pass carves
// the final evaluation set, the test pass carves the model-selection set
// out of the remainder. The two seeds are independent.
type SplitConfig struct {
	HoldoutFraction float32 `mapstructure:"holdout_fraction" validate:"gt=0,lt=1"`
	HoldoutSeed     int64   `mapstructure:"holdout_seed"`
	TestFraction    float32 `mapstructure:"test_fraction" validate:"gt=0,lt=1"`
	TestSeed        int64   `mapstructure:"test_seed"`
}

// SummaryConfig drives the exploratory summaries.
type SummaryConfig struct {
	SampleSize int   `mapstructure:"sample_size" validate:"gt=0"`
	Seed       int64 `mapstructure:"seed"`
	TopN       int   `mapstructure:"top_n" validate:"gt=0"`
}

// MFConfig carries the factorization hyper-parameters.
type MFConfig struct {
	NFactors    int     `mapstructure:"n_factors" validate:"gt=0"`
	NEpochs     int     `mapstructure:"n_epochs" validate:"gt=0"`
	NBlocks     int     `mapstructure:"n_blocks" validate:"gt=0"`
	Lr          float32 `mapstructure:"lr" validate:"gt=0"`
	Reg         float32 `mapstructure:"reg" validate:"gte=0"`
	InitStdDev  float32 `mapstructure:"init_std" validate:"gt=0"`
	RandomState int64   `mapstructure:"random_state"`
}

// GetDefaultConfig returns a Config with all fields filled with defaults.
func GetDefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Name: "ml-10m",
		},
		Split: SplitConfig{
			HoldoutFraction: 0.1,
			HoldoutSeed:     1,
			TestFraction:    0.2,
			TestSeed:        755,
		},
		Summary: SummaryConfig{
			SampleSize: 100000,
			Seed:       42,
			TopN:       10,
		},
		MF: MFConfig{
			NFactors:    10,
			NEpochs:     20,
			NBlocks:     20,
			Lr:          0.005,
			Reg:         0.1,
			InitStdDev:  0.1,
			RandomState: 0,
		},
	}
}

// Validate checks field constraints via struct tags.
func (config *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// LoadConfig reads the TOML file at path over the defaults. An empty path
// keeps the defaults.
func LoadConfig(path string) (*Config, error) {
	config := GetDefaultConfig()
	if path != "" {
		v := viper.New()
		v.SetConfigFile(path)
		if !strings.HasSuffix(path, ".toml") {
			v.SetConfigType("toml")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Annotatef(err, "failed to read config %s", path)
		}
		if err := v.Unmarshal(config); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return config, nil
}
