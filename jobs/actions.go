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

package jobs

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Actions manages enqueued jobs and provides the related HTTP
// handlers. At most conf.MaxNumConcurrentJobs job bodies run at
// a time; the rest waits in a FIFO queue.
type Actions struct {
	conf           *Conf
	ctx            context.Context
	printer        *message.Printer
	jobStopChannel chan<- string

	mutex      sync.Mutex
	queue      JobQueue
	jobList    map[string]GeneralJobInfo
	numRunning int
}

// EnqueueJob adds a job to the queue and starts it once a slot
// is available. The initial status is immediately visible in the
// job listing.
func (a *Actions) EnqueueJob(fn *QueuedFunc, initialStatus GeneralJobInfo) {
	a.mutex.Lock()
	a.jobList[initialStatus.GetID()] = initialStatus
	a.queue.Enqueue(fn, initialStatus)
	a.mutex.Unlock()
	log.Info().
		Str("jobId", initialStatus.GetID()).
		Str("type", initialStatus.GetType()).
		Str("dataset", initialStatus.GetDataset()).
		Msg("enqueued job")
	a.tryNextJob()
}

func (a *Actions) tryNextJob() {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if a.numRunning >= a.conf.MaxNumConcurrentJobs {
		return
	}
	fn, initialStatus, err := a.queue.Dequeue()
	if err == ErrorEmptyQueue {
		return
	}
	a.numRunning++
	go a.runJob(fn, initialStatus)
}

func (a *Actions) runJob(fn *QueuedFunc, initialStatus GeneralJobInfo) {
	defer func() {
		a.mutex.Lock()
		a.numRunning--
		a.mutex.Unlock()
		a.tryNextJob()
	}()
	updates := make(chan GeneralJobInfo, 10)
	go (*fn)(updates)
	for upd := range updates {
		a.mutex.Lock()
		a.jobList[upd.GetID()] = upd
		a.mutex.Unlock()
	}
	a.mutex.Lock()
	last, ok := a.jobList[initialStatus.GetID()]
	if ok && !last.IsFinished() {
		a.jobList[initialStatus.GetID()] = last.AsFinished()
	}
	a.mutex.Unlock()
	log.Info().Str("jobId", initialStatus.GetID()).Msg("job worker finished")
}

// GetJob returns the current status of the job matching the ID.
func (a *Actions) GetJob(jobID string) (GeneralJobInfo, bool) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	ans, ok := a.jobList[jobID]
	return ans, ok
}

// LastUnfinishedJobOfType searches for a still running job of the
// specified type attached to the specified dataset variant.
func (a *Actions) LastUnfinishedJobOfType(datasetID, jobType string) (string, bool) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	var ans GeneralJobInfo
	for _, item := range a.jobList {
		if item.GetDataset() == datasetID && item.GetType() == jobType && !item.IsFinished() {
			if ans == nil || ans.GetStartDT().Before(item.GetStartDT()) {
				ans = item
			}
		}
	}
	if ans == nil {
		return "", false
	}
	return ans.GetID(), true
}

// TestAllowsJobRestart tests whether the provided job can be
// restarted. Only finished failed jobs with a limited number of
// previous restarts qualify.
func (a *Actions) TestAllowsJobRestart(jinfo GeneralJobInfo) error {
	if !jinfo.IsFinished() {
		return fmt.Errorf("cannot restart job %s: the job is still running", jinfo.GetID())
	}
	if jinfo.GetNumRestarts() >= maxNumRestarts {
		return fmt.Errorf("cannot restart job %s: too many restarts", jinfo.GetID())
	}
	return nil
}

// JobList provides a listing of all the registered jobs
// (running and finished)
func (a *Actions) JobList(ctx *gin.Context) {
	a.mutex.Lock()
	ans := make([]JobInfoCompact, 0, len(a.jobList))
	for _, item := range a.jobList {
		ans = append(ans, item.CompactVersion())
	}
	a.mutex.Unlock()
	sort.Slice(ans, func(i, j int) bool {
		return ans[j].Start.Before(ans[i].Start)
	})
	uniresp.WriteJSONResponse(ctx.Writer, ans)
}

// JobInfo provides a full status of a single job along with
// a localized description
func (a *Actions) JobInfo(ctx *gin.Context) {
	job, ok := a.GetJob(ctx.Param("jobId"))
	if !ok {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionError("job %s not found", ctx.Param("jobId")),
			http.StatusNotFound,
		)
		return
	}
	ans := struct {
		Info          any    `json:"info"`
		Description   string `json:"description"`
		StatusMessage string `json:"statusMessage"`
	}{
		Info:          job.FullInfo(),
		Description:   extractJobDescription(a.printer, job),
		StatusMessage: localizedStatus(a.printer, job),
	}
	uniresp.WriteJSONResponse(ctx.Writer, ans)
}

// Delete requests an interruption of a job. The job body itself
// decides how fast it can react to the stop request.
func (a *Actions) Delete(ctx *gin.Context) {
	jobID := ctx.Param("jobId")
	job, ok := a.GetJob(jobID)
	if !ok {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionError("job %s not found", jobID),
			http.StatusNotFound,
		)
		return
	}
	if !job.IsFinished() {
		a.jobStopChannel <- jobID
	}
	uniresp.WriteJSONResponse(ctx.Writer, job.FullInfo())
}

// ClearIfFinished removes a finished job from the job listing.
func (a *Actions) ClearIfFinished(ctx *gin.Context) {
	jobID := ctx.Param("jobId")
	a.mutex.Lock()
	job, ok := a.jobList[jobID]
	removed := false
	if ok && job.IsFinished() {
		delete(a.jobList, jobID)
		removed = true
	}
	a.mutex.Unlock()
	if !ok {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionError("job %s not found", jobID),
			http.StatusNotFound,
		)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, map[string]bool{"removed": removed})
}

// Utilization reports the state of the job subsystem.
func (a *Actions) Utilization(ctx *gin.Context) {
	a.mutex.Lock()
	ans := struct {
		MaxNumConcurrentJobs int `json:"maxNumConcurrentJobs"`
		NumRunning           int `json:"numRunning"`
		QueueSize            int `json:"queueSize"`
	}{
		MaxNumConcurrentJobs: a.conf.MaxNumConcurrentJobs,
		NumRunning:           a.numRunning,
		QueueSize:            a.queue.Size(),
	}
	a.mutex.Unlock()
	uniresp.WriteJSONResponse(ctx.Writer, ans)
}

func NewActions(
	conf *Conf,
	lang string,
	ctx context.Context,
	jobStopChannel chan<- string,
) *Actions {
	return &Actions{
		conf:           conf,
		ctx:            ctx,
		printer:        message.NewPrinter(language.Make(lang)),
		jobStopChannel: jobStopChannel,
		jobList:        make(map[string]GeneralJobInfo),
	}
}
