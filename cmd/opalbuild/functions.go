// Copyright 2025 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2025 Institute of the Czech National Corpus,
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

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"opal/buildlog"
	"opal/catalog"
	"opal/cnf"
	"opal/dataset"
	"opal/db/mysql"
	"opal/fetch"
	"opal/jobs"
)

func run(configFilePath string, variantName string) {
	conf := cnf.LoadConfig(configFilePath)
	logging.SetupLogging(conf.Logging)
	if err := conf.Datasets.Load(); err != nil {
		log.Fatal().
			Err(err).
			Str("targetDirectory", conf.Datasets.VariantsConfDir).
			Msg("failed to load dataset variant configs")
	}
	cnf.ApplyDefaults(conf)

	var vc dataset.VariantConf
	var found bool
	for _, item := range conf.Datasets.GetAllVariants() {
		if item.Name() == variantName {
			vc = item
			found = true
			break
		}
	}
	if !found {
		log.Fatal().Str("variant", variantName).Msg("dataset variant not found in configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat := catalog.NewCatalog()
	downloader := fetch.NewDownloader(
		conf.DownloadDir,
		time.Duration(conf.DownloadTimeoutSecs)*time.Second,
	)
	generator := dataset.NewGenerator(cat, downloader)

	outFile := filepath.Join(conf.OutDir, vc.Name()+".jsonl")
	file, err := os.Create(outFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create output file")
	}
	defer file.Close()
	writer := bufio.NewWriter(file)
	defer writer.Flush()

	startDT := jobs.CurrentDatetime()
	stats, err := generator.Generate(ctx, vc, func(rec dataset.Record) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		rawRec, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := writer.Write(rawRec); err != nil {
			return err
		}
		_, err = writer.WriteString("\n")
		return err
	})
	if err != nil {
		log.Fatal().Err(err).Str("variant", vc.Name()).Msg("build failed")
	}
	log.Info().
		Str("variant", vc.Name()).
		Str("outFile", outFile).
		Int("numRecords", stats.NumRecords).
		Msg("build finished")

	if conf.BuildDB != nil {
		db, err := mysql.OpenDB(*conf.BuildDB)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open build registry database")
		}
		defer db.Close()
		arch := buildlog.NewArchiver(db.DB())
		if err := arch.CreateTables(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to prepare build registry tables")
		}
		jobID, err := uuid.NewUUID()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to generate build record id")
		}
		jobRec := dataset.BuildJobInfo{
			ID:        jobID.String(),
			Type:      dataset.JobTypeBuild,
			DatasetID: vc.Name(),
			OutFile:   outFile,
			Start:     startDT,
			Result:    &stats,
		}
		finished := jobRec.AsFinished().(dataset.BuildJobInfo)
		if err := arch.StoreBuild(ctx, finished); err != nil {
			log.Fatal().Err(err).Msg("failed to archive build record")
		}
		log.Info().Str("buildId", jobRec.ID).Msg("build archived")
	}
}

func generateConf(srcLang string, tgtLang string) {
	if srcLang == "" {
		srcLang = "en"
	}
	if tgtLang == "" {
		tgtLang = "es"
	}
	cat := catalog.NewCatalog()
	subsets := make([]string, 0, cat.Size())
	for _, name := range cat.Names() {
		entry, err := cat.Get(name)
		if err != nil {
			continue
		}
		if entry.SupportsPair(srcLang, tgtLang) {
			subsets = append(subsets, name)
		}
	}
	vc := dataset.VariantConf{
		SourceLang: srcLang,
		TargetLang: tgtLang,
		Subsets:    subsets,
	}
	jsonData, err := json.Marshal(vc)
	if err != nil {
		log.Error().Err(err).Msg("failed to store template json")
		os.Exit(1)
	}
	fmt.Println(string(jsonData))
}
