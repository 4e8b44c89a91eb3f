// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
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

package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
)

// DatasetsSetup defines the OPAL configuration related to buildable
// dataset variants. Variants can be listed directly in the main
// config and/or provided as separate JSON files in a directory.
type DatasetsSetup struct {
	Variants        []VariantConf `json:"variants"`
	VariantsConfDir string        `json:"variantsConfDir"`

	loaded []VariantConf
}

// Load collects variants from the configuration directory (if any)
// and merges them with the directly configured ones. Invalid files
// and invalid variants are reported and skipped.
func (ds *DatasetsSetup) Load() error {
	ds.loaded = make([]VariantConf, 0, len(ds.Variants)+10)
	for _, vc := range ds.Variants {
		if err := vc.Validate(); err != nil {
			log.Warn().Err(err).Msg("encountered invalid dataset variant, skipping")
			continue
		}
		ds.loaded = append(ds.loaded, vc)
	}
	if ds.VariantsConfDir == "" {
		return nil
	}
	files, err := os.ReadDir(ds.VariantsConfDir)
	if err != nil {
		return fmt.Errorf("failed to load dataset variant configs: %w", err)
	}
	for _, f := range files {
		confPath := filepath.Join(ds.VariantsConfDir, f.Name())
		tmp, err := os.ReadFile(confPath)
		if err != nil {
			log.Warn().
				Err(err).
				Str("file", confPath).
				Msg("encountered invalid dataset variant file, skipping")
			continue
		}
		var conf VariantConf
		err = sonic.Unmarshal(tmp, &conf)
		if err != nil {
			log.Warn().
				Err(err).
				Str("file", confPath).
				Msg("encountered invalid dataset variant file, skipping")
			continue
		}
		if err := conf.Validate(); err != nil {
			log.Warn().
				Err(err).
				Str("file", confPath).
				Msg("encountered invalid dataset variant, skipping")
			continue
		}
		ds.loaded = append(ds.loaded, conf)
		log.Info().Str("name", conf.Name()).Msg("loaded dataset variant file")
	}
	return nil
}

// GetAllVariants provides all the successfully loaded variants.
func (ds *DatasetsSetup) GetAllVariants() []VariantConf {
	return ds.loaded
}
