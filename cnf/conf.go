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

package cnf

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/rs/zerolog/log"

	"opal/dataset"
	"opal/db/mysql"
	"opal/jobs"
)

const (
	dfltServerWriteTimeoutSecs = 10
	dfltLanguage               = "en"
	dfltMaxNumConcurrentJobs   = 2
	dfltDownloadTimeoutSecs    = 600
)

// Conf is a global configuration of the app
type Conf struct {
	ListenAddress          string                 `json:"listenAddress"`
	ListenPort             int                    `json:"listenPort"`
	ServerReadTimeoutSecs  int                    `json:"serverReadTimeoutSecs"`
	ServerWriteTimeoutSecs int                    `json:"serverWriteTimeoutSecs"`
	Logging                logging.LoggingConf    `json:"logging"`
	DownloadDir            string                 `json:"downloadDir"`
	OutDir                 string                 `json:"outDir"`
	DownloadTimeoutSecs    int                    `json:"downloadTimeoutSecs"`
	Datasets               *dataset.DatasetsSetup `json:"datasets"`
	BuildDB                *mysql.Conf            `json:"buildDb"`
	Jobs                   *jobs.Conf             `json:"jobs"`
	Language               string                 `json:"language"`
	srcPath                string
}

// GetSourcePath returns an absolute path of a file
// the config was loaded from.
func (conf *Conf) GetSourcePath() string {
	if filepath.IsAbs(conf.srcPath) {
		return conf.srcPath
	}
	var cwd string
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "[failed to get working dir]"
	}
	return filepath.Join(cwd, conf.srcPath)
}

func LoadConfig(path string) *Conf {
	if path == "" {
		log.Fatal().Msg("Cannot load config - path not specified")
	}
	rawData, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	var conf Conf
	conf.srcPath = path
	err = json.Unmarshal(rawData, &conf)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	if conf.Datasets == nil {
		conf.Datasets = &dataset.DatasetsSetup{}
	}
	if conf.Jobs == nil {
		conf.Jobs = &jobs.Conf{}
	}
	if conf.DownloadDir == "" {
		log.Fatal().Msg("Cannot load config - downloadDir not specified")
	}
	if conf.OutDir == "" {
		log.Fatal().Msg("Cannot load config - outDir not specified")
	}
	return &conf
}

func ApplyDefaults(conf *Conf) {
	if conf.ServerWriteTimeoutSecs == 0 {
		conf.ServerWriteTimeoutSecs = dfltServerWriteTimeoutSecs
		log.Warn().Msgf(
			"serverWriteTimeoutSecs not specified, using default: %d",
			dfltServerWriteTimeoutSecs,
		)
	}
	if conf.DownloadTimeoutSecs == 0 {
		conf.DownloadTimeoutSecs = dfltDownloadTimeoutSecs
		log.Warn().Msgf(
			"downloadTimeoutSecs not specified, using default: %d",
			dfltDownloadTimeoutSecs,
		)
	}
	if conf.Language == "" {
		conf.Language = dfltLanguage
		log.Warn().Msgf("language not specified, using default: %s", conf.Language)
	}
	if conf.Jobs.MaxNumConcurrentJobs == 0 {
		v := dfltMaxNumConcurrentJobs
		if v >= runtime.NumCPU() {
			v = runtime.NumCPU()
		}
		conf.Jobs.MaxNumConcurrentJobs = v
		log.Warn().Msgf("jobs.maxNumConcurrentJobs not specified, using default %d", v)
	}
}
