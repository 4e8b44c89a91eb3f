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

package catalog

import (
	"errors"
	"net/http"

	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"

	"opal/common"
)

// Actions contains the catalog related HTTP REST actions
type Actions struct {
	catalog *Catalog
}

// CorporaList provides names and language sets of all the known
// OPUS sub-corpora.
func (a *Actions) CorporaList(ctx *gin.Context) {
	ans := common.MapSlice(a.catalog.Names(), func(name string, _ int) any {
		entry, _ := a.catalog.Get(name)
		return struct {
			Name      string   `json:"name"`
			Languages []string `json:"languages"`
			NumPairs  int      `json:"numPairs"`
		}{
			Name:      entry.Name,
			Languages: entry.Languages,
			NumPairs:  len(entry.Pairs),
		}
	})
	uniresp.WriteJSONResponse(ctx.Writer, ans)
}

// CorpusInfo provides the full catalog entry of a single
// sub-corpus, including its derived language pairs.
func (a *Actions) CorpusInfo(ctx *gin.Context) {
	entry, err := a.catalog.Get(ctx.Param("name"))
	if errors.Is(err, ErrCorpusNotFound) {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusNotFound)
		return

	} else if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, entry)
}

func NewActions(cat *Catalog) *Actions {
	return &Actions{catalog: cat}
}
