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
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	cnccol "github.com/czcorpus/cnc-gokit/collections"
	"github.com/czcorpus/cnc-gokit/unireq"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"opal/catalog"
	"opal/common"
	"opal/general/collections"
	"opal/jobs"
)

const (
	dfltRecordsLimit = 50
)

// BuildArchiver stores a finished build record in a persistent
// registry (see the buildlog package). A nil archiver disables
// the archiving without affecting the build itself.
type BuildArchiver interface {
	StoreBuild(ctx context.Context, job BuildJobInfo) error
}

// Actions contains the dataset related HTTP REST actions
type Actions struct {
	catalog    *catalog.Catalog
	generator  *Generator
	jobActions *jobs.Actions
	archiver   BuildArchiver
	outDir     string

	variants   map[string]VariantConf
	varNames   []string
	lastStats  *cnccol.ConcurrentMap[string, GenerationStats]
	buildLocks sync.Map
}

// VariantList provides all the configured dataset variants.
func (a *Actions) VariantList(ctx *gin.Context) {
	ans := common.MapSlice(a.varNames, func(name string, _ int) Info {
		return NewInfo(a.variants[name])
	})
	uniresp.WriteJSONResponse(ctx.Writer, ans)
}

func (a *Actions) getVariantOrFail(ctx *gin.Context) (VariantConf, bool) {
	name := ctx.Param("name")
	vc, ok := a.variants[name]
	if !ok {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionError("dataset variant %s not found", name),
			http.StatusNotFound,
		)
	}
	return vc, ok
}

// VariantInfo provides the registration record of a single variant.
func (a *Actions) VariantInfo(ctx *gin.Context) {
	vc, ok := a.getVariantOrFail(ctx)
	if !ok {
		return
	}
	ans := struct {
		Info
		LastBuild *GenerationStats `json:"lastBuild,omitempty"`
	}{Info: NewInfo(vc)}
	if stats, ok := a.lastStats.GetWithTest(vc.Name()); ok {
		ans.LastBuild = &stats
	}
	uniresp.WriteJSONResponse(ctx.Writer, ans)
}

// ResolveVariant previews the sub-corpora a generation pass would
// process, along with the derived archive and file locations.
func (a *Actions) ResolveVariant(ctx *gin.Context) {
	vc, ok := a.getVariantOrFail(ctx)
	if !ok {
		return
	}
	subsets, err := a.generator.Resolve(vc)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, subsets)
}

// Records streams the first `limit` records of a variant as
// newline-delimited JSON. The pass fetches missing archives on
// demand, so the first request for a variant may take long.
func (a *Actions) Records(ctx *gin.Context) {
	vc, ok := a.getVariantOrFail(ctx)
	if !ok {
		return
	}
	limit, ok := unireq.GetURLIntArgOrFail(ctx, "limit", dfltRecordsLimit)
	if !ok {
		return
	}
	ctx.Writer.Header().Set("Content-Type", "application/x-ndjson")
	writer := bufio.NewWriter(ctx.Writer)
	defer writer.Flush()
	numWritten := 0
	_, err := a.generator.Generate(ctx.Request.Context(), vc, func(rec Record) error {
		rawRec, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := writer.Write(rawRec); err != nil {
			return err
		}
		if _, err := writer.WriteString("\n"); err != nil {
			return err
		}
		numWritten++
		if limit > 0 && numWritten >= limit {
			return collections.ErrorStopIteration
		}
		return nil
	})
	if err != nil {
		// the stream may be partially written; all we can do is log
		log.Error().Err(err).Str("variant", vc.Name()).Msg("failed to stream dataset records")
	}
}

// Build enqueues a generation job writing the full variant to a
// JSONL file under the configured output directory.
func (a *Actions) Build(ctx *gin.Context) {
	vc, ok := a.getVariantOrFail(ctx)
	if !ok {
		return
	}
	if prevRunning, ok := a.jobActions.LastUnfinishedJobOfType(vc.Name(), JobTypeBuild); ok {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionError(
				"cannot run build - the previous job %s have not finished yet", prevRunning),
			http.StatusConflict,
		)
		return
	}
	jobID, err := uuid.NewUUID()
	if err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionError("failed to start build job for %s", vc.Name()),
			http.StatusInternalServerError,
		)
		return
	}
	jobRec := BuildJobInfo{
		ID:        jobID.String(),
		Type:      JobTypeBuild,
		DatasetID: vc.Name(),
		OutFile:   filepath.Join(a.outDir, vc.Name()+".jsonl"),
		Start:     jobs.CurrentDatetime(),
	}
	// the cancel handle must be visible before the job is enqueued,
	// otherwise a stop request could miss a still queued build
	buildCtx, cancel := context.WithCancel(context.Background())
	a.buildLocks.Store(jobRec.ID, cancel)
	fn := func(updateJobChan chan<- jobs.GeneralJobInfo) {
		defer close(updateJobChan)
		defer cancel()
		defer a.buildLocks.Delete(jobRec.ID)
		stats, err := a.buildToFile(buildCtx, vc, jobRec.OutFile)
		if err != nil {
			updateJobChan <- jobRec.WithError(err)
			return
		}
		a.lastStats.Set(vc.Name(), stats)
		jobRec.Result = &stats
		finished := jobRec.AsFinished()
		if a.archiver != nil {
			if err := a.archiver.StoreBuild(buildCtx, finished.(BuildJobInfo)); err != nil {
				log.Error().Err(err).Str("jobId", jobRec.ID).Msg("failed to archive build record")
			}
		}
		updateJobChan <- finished
	}
	a.jobActions.EnqueueJob(&fn, jobRec)
	uniresp.WriteJSONResponse(ctx.Writer, jobRec.FullInfo())
}

func (a *Actions) buildToFile(ctx context.Context, vc VariantConf, outFile string) (GenerationStats, error) {
	file, err := os.Create(outFile)
	if err != nil {
		return GenerationStats{}, fmt.Errorf("failed to build %s: %w", vc.Name(), err)
	}
	defer file.Close()
	writer := bufio.NewWriter(file)
	defer writer.Flush()
	stats, err := a.generator.Generate(ctx, vc, func(rec Record) error {
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
		return stats, err
	}
	log.Info().
		Str("variant", vc.Name()).
		Str("outFile", outFile).
		Int("numRecords", stats.NumRecords).
		Msg("dataset variant build finished")
	return stats, nil
}

// handleJobStopRequests cancels running builds on demand (triggered
// via the jobs API).
func (a *Actions) handleJobStopRequests(ctx context.Context, jobStopChannel <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case jobID := <-jobStopChannel:
			if cancel, ok := a.buildLocks.Load(jobID); ok {
				log.Warn().Str("jobId", jobID).Msg("stopping build job on request")
				cancel.(context.CancelFunc)()
			}
		}
	}
}

func NewActions(
	ctx context.Context,
	cat *catalog.Catalog,
	generator *Generator,
	jobActions *jobs.Actions,
	archiver BuildArchiver,
	variants []VariantConf,
	outDir string,
	jobStopChannel <-chan string,
) *Actions {
	ans := &Actions{
		catalog:    cat,
		generator:  generator,
		jobActions: jobActions,
		archiver:   archiver,
		outDir:     outDir,
		variants:   make(map[string]VariantConf),
		varNames:   make([]string, 0, len(variants)),
		lastStats:  cnccol.NewConcurrentMap[string, GenerationStats](),
	}
	for _, vc := range variants {
		if common.MapContains(ans.variants, vc.Name()) {
			log.Warn().Str("variant", vc.Name()).Msg("duplicate dataset variant, skipping")
			continue
		}
		ans.variants[vc.Name()] = vc
		ans.varNames = append(ans.varNames, vc.Name())
	}
	go ans.handleJobStopRequests(ctx, jobStopChannel)
	return ans
}
