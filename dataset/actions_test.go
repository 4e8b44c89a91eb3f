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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"opal/catalog"
	"opal/jobs"
)

func TestBuildStopRequestReachesQueuedJob(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	jobStopChannel := make(chan string)
	// zero job slots keep the enqueued build in queued state forever
	jobActions := jobs.NewActions(&jobs.Conf{}, "en", ctx, jobStopChannel)
	cat := catalog.NewCatalog()
	gen := NewGenerator(cat, &fakeFetcher{dirs: map[string]string{}})
	vc := VariantConf{SourceLang: "en", TargetLang: "es", Subsets: []string{"EMEA"}}
	a := NewActions(ctx, cat, gen, jobActions, nil, []VariantConf{vc}, t.TempDir(), jobStopChannel)

	w := httptest.NewRecorder()
	gctx, _ := gin.CreateTestContext(w)
	gctx.Params = gin.Params{{Key: "name", Value: "en-es"}}
	a.Build(gctx)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ID       string `json:"id"`
		Finished bool   `json:"finished"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Finished)

	// the cancel handle must be registered while the job still waits
	// in the queue
	_, ok := a.buildLocks.Load(resp.ID)
	assert.True(t, ok)

	canceled := make(chan struct{})
	a.buildLocks.Store(resp.ID, context.CancelFunc(func() { close(canceled) }))
	jobStopChannel <- resp.ID
	select {
	case <-canceled:
	case <-time.After(time.Second):
		t.Fatal("stop request did not reach the queued build")
	}
}
