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
	"strings"

	"opal/catalog"
)

// ResolvedSubset contains the concrete locations derived for one
// sub-corpus once a specific language pair is chosen. Instances are
// transient - recomputed from the catalog entry and the variant
// configuration on each resolution, never persisted.
type ResolvedSubset struct {
	Corpus string `json:"corpus"`

	// ArchiveURL is the location of the zipped moses-format archive
	// containing both sentence files.
	ArchiveURL string `json:"archiveUrl"`

	// SourceFile and TargetFile are the expected paths of the
	// extracted sentence files inside the archive directory. The paths
	// are relative to the directory returned by the fetch step.
	SourceFile string `json:"sourceFile"`
	TargetFile string `json:"targetFile"`
}

// Resolver derives per-corpus archive URLs and sentence file paths
// for a requested dataset variant.
type Resolver struct {
	catalog *catalog.Catalog
}

// Resolve filters the variant's subsets down to the sub-corpora
// actually providing the requested language pair and derives their
// archive and file locations. The output preserves the order of
// vc.Subsets; sub-corpora not supporting the pair are silently
// omitted (an expected situation, not an error). An unknown subset
// name fails immediately with catalog.ErrCorpusNotFound wrapped in
// the returned error.
func (r *Resolver) Resolve(vc VariantConf) ([]ResolvedSubset, error) {
	fileSuffix := fmt.Sprintf("%s-%s", vc.SourceLang, vc.TargetLang)
	ans := make([]ResolvedSubset, 0, len(vc.Subsets))
	for _, name := range vc.Subsets {
		entry, err := r.catalog.Get(name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve variant %s: %w", vc.Name(), err)
		}
		if !entry.SupportsPair(vc.SourceLang, vc.TargetLang) {
			continue
		}
		ans = append(ans, ResolvedSubset{
			Corpus:     entry.Name,
			ArchiveURL: joinURL(entry.URL, fileSuffix+".txt.zip"),
			SourceFile: fmt.Sprintf("%s.%s.%s", entry.Filename, fileSuffix, vc.SourceLang),
			TargetFile: fmt.Sprintf("%s.%s.%s", entry.Filename, fileSuffix, vc.TargetLang),
		})
	}
	return ans, nil
}

func joinURL(base, suffix string) string {
	return strings.TrimSuffix(base, "/") + "/" + suffix
}

func NewResolver(cat *catalog.Catalog) *Resolver {
	return &Resolver{catalog: cat}
}
