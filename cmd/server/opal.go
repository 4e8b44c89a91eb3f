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

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"opal/buildlog"
	"opal/catalog"
	"opal/cnf"
	"opal/dataset"
	"opal/db/mysql"
	"opal/debug"
	"opal/fetch"
	"opal/general"
	"opal/jobs"
	"opal/root"
)

var (
	version   string
	buildDate string
	gitCommit string
)

func main() {
	version := general.VersionInfo{
		Version:   version,
		BuildDate: buildDate,
		GitCommit: gitCommit,
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "OPAL - OPUS Parallel-text Access Layer\n\nUsage:\n\t%s [options] start [config.json]\n\t%s [options] version\n",
			filepath.Base(os.Args[0]), filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	action := flag.Arg(0)
	if action == "version" {
		fmt.Printf("opal %s\nbuild date: %s\nlast commit: %s\n", version.Version, version.BuildDate, version.GitCommit)
		return

	} else if action != "start" {
		log.Fatal().Msgf("Unknown action %s", action)
	}
	conf := cnf.LoadConfig(flag.Arg(1))
	logging.SetupLogging(conf.Logging)
	if err := conf.Datasets.Load(); err != nil {
		log.Fatal().
			Err(err).
			Str("targetDirectory", conf.Datasets.VariantsConfDir).
			Msg("failed to load dataset variant configs")
	}
	log.Info().Msg("Starting OPAL")
	cnf.ApplyDefaults(conf)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()

	var archiver dataset.BuildArchiver
	var buildlogActions *buildlog.Actions
	if conf.BuildDB != nil {
		db, err := mysql.OpenDB(*conf.BuildDB)
		if err != nil {
			log.Fatal().Err(err).Send()
		}
		defer db.Close()
		arch := buildlog.NewArchiver(db.DB())
		if err := arch.CreateTables(ctx); err != nil {
			log.Fatal().Err(err).Send()
		}
		archiver = arch
		buildlogActions = buildlog.NewActions(arch)
		log.Info().Msgf("using build registry SQL database: %s@%s", conf.BuildDB.Name, conf.BuildDB.Host)

	} else {
		log.Warn().Msg("buildDb not configured, finished builds will not be archived")
	}

	if !conf.Logging.Level.IsDebugMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logging.GinMiddleware())
	engine.Use(uniresp.AlwaysJSONContentType())
	engine.NoMethod(uniresp.NoMethodHandler)
	engine.NoRoute(uniresp.NotFoundHandler)

	rootActions := root.Actions{Version: version, Conf: conf}

	jobStopChannel := make(chan string)
	jobActions := jobs.NewActions(conf.Jobs, conf.Language, ctx, jobStopChannel)

	cat := catalog.NewCatalog()
	catalogActions := catalog.NewActions(cat)

	downloader := fetch.NewDownloader(
		conf.DownloadDir,
		time.Duration(conf.DownloadTimeoutSecs)*time.Second,
	)
	generator := dataset.NewGenerator(cat, downloader)
	datasetActions := dataset.NewActions(
		ctx,
		cat,
		generator,
		jobActions,
		archiver,
		conf.Datasets.GetAllVariants(),
		conf.OutDir,
		jobStopChannel,
	)

	engine.GET(
		"/", rootActions.RootAction)
	engine.GET(
		"/corpora", catalogActions.CorporaList)
	engine.GET(
		"/corpora/:name", catalogActions.CorpusInfo)

	engine.GET(
		"/datasets", datasetActions.VariantList)
	engine.GET(
		"/datasets/:name", datasetActions.VariantInfo)
	engine.GET(
		"/datasets/:name/resolve", datasetActions.ResolveVariant)
	engine.GET(
		"/datasets/:name/records", datasetActions.Records)
	engine.POST(
		"/datasets/:name/build", datasetActions.Build)
	if buildlogActions != nil {
		engine.GET(
			"/datasets/:name/builds", buildlogActions.Builds)
	}

	engine.GET(
		"/jobs", jobActions.JobList)
	engine.GET(
		"/jobs/utilization", jobActions.Utilization)
	engine.GET(
		"/jobs/:jobId", jobActions.JobInfo)
	engine.DELETE(
		"/jobs/:jobId", jobActions.Delete)
	engine.GET(
		"/jobs/:jobId/clearIfFinished", jobActions.ClearIfFinished)

	if conf.Logging.Level.IsDebugMode() {
		debugActions := debug.NewActions(jobActions)
		engine.POST("/debug/createJob", debugActions.CreateDummyJob)
		engine.POST("/debug/finishJob/:jobId", debugActions.FinishDummyJob)
	}

	log.Info().Msgf("starting to listen at %s:%d", conf.ListenAddress, conf.ListenPort)
	srv := &http.Server{
		Handler:      engine,
		Addr:         fmt.Sprintf("%s:%d", conf.ListenAddress, conf.ListenPort),
		WriteTimeout: time.Duration(conf.ServerWriteTimeoutSecs) * time.Second,
		ReadTimeout:  time.Duration(conf.ServerReadTimeoutSecs) * time.Second,
	}

	go func() {
		err := srv.ListenAndServe()
		if err != nil {
			log.Error().Err(err).Send()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutdown requested")

	ctxShutDown, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutDown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
}
