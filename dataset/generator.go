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
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"opal/catalog"
	"opal/general/collections"
)

// Fetcher obtains a (possibly cached) local directory with the
// extracted contents of the archive available at the provided URL.
// Failures (network, broken archive) are the fetcher's concern and
// are propagated unchanged - the generator never retries.
type Fetcher interface {
	DownloadAndExtract(ctx context.Context, url string) (string, error)
}

// GenerationStats summarizes a single finished generation pass.
type GenerationStats struct {
	Variant       string         `json:"variant"`
	NumRecords    int            `json:"numRecords"`
	CorpusRecords map[string]int `json:"corpusRecords"`
}

// Generator drives one full generation pass over a dataset variant:
// resolve the sub-corpora, fetch each archive and stream the aligned
// sentence pairs to a handler. Sub-corpora are processed strictly in
// sequence - one is fully consumed before the next archive is even
// requested.
type Generator struct {
	resolver *Resolver
	fetcher  Fetcher
}

// Generate runs the pass. The record keys are "{corpus}/{idx}" so the
// output ordering is fully determined by the resolved subset order
// and line positions. The returned stats are valid only if err is nil.
func (g *Generator) Generate(
	ctx context.Context,
	vc VariantConf,
	handler RecordHandler,
) (GenerationStats, error) {
	stats := GenerationStats{
		Variant:       vc.Name(),
		CorpusRecords: make(map[string]int),
	}
	subsets, err := g.resolver.Resolve(vc)
	if err != nil {
		return stats, err
	}
	for _, sub := range subsets {
		dlDir, err := g.fetcher.DownloadAndExtract(ctx, sub.ArchiveURL)
		if err != nil {
			return stats, fmt.Errorf("failed to generate %s: %w", vc.Name(), err)
		}
		log.Debug().
			Str("corpus", sub.Corpus).
			Str("archive", sub.ArchiveURL).
			Str("dir", dlDir).
			Msg("processing fetched sub-corpus archive")
		err = ReadPairs(
			sub,
			filepath.Join(dlDir, sub.SourceFile),
			filepath.Join(dlDir, sub.TargetFile),
			vc,
			func(rec Record) error {
				stats.NumRecords++
				stats.CorpusRecords[sub.Corpus]++
				return handler(rec)
			},
		)
		if err == collections.ErrorStopIteration {
			break

		} else if err != nil {
			return stats, fmt.Errorf("failed to generate %s: %w", vc.Name(), err)
		}
	}
	return stats, nil
}

// Resolve exposes the resolution step without running the pass
// (e.g. for previews).
func (g *Generator) Resolve(vc VariantConf) ([]ResolvedSubset, error) {
	return g.resolver.Resolve(vc)
}

func NewGenerator(cat *catalog.Catalog, fetcher Fetcher) *Generator {
	return &Generator{
		resolver: NewResolver(cat),
		fetcher:  fetcher,
	}
}
