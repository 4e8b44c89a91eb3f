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
	"strings"
)

// Record is one aligned sentence pair. Translation maps a language
// code to the respective sentence, i.e. for an en-de variant it
// contains the keys "en" and "de".
type Record struct {
	Key         string            `json:"key"`
	Translation map[string]string `json:"translation"`
}

// RecordHandler consumes records produced by a single generation
// pass. Returning collections.ErrorStopIteration stops the iteration
// early; any other non-nil error aborts the pass and propagates to
// the caller.
type RecordHandler func(rec Record) error

// ReadPairs aligns the two sentence files of a resolved subset line
// by line and passes one Record per aligned index to the handler.
//
// Both files are read fully and split on "\n". Lines are paired
// positionally; if the files differ in length, the pairing truncates
// to the shorter one (a deliberate alignment assumption inherited
// from OPUS tooling - misaligned corpora are not detected here).
// An index is emitted only if both sides are non-empty strings;
// whitespace-only lines count as non-empty. Each call re-reads the
// files from scratch, so repeated calls over identical inputs yield
// identical sequences.
//
// If the handler stops the iteration, ReadPairs returns
// collections.ErrorStopIteration so a caller iterating multiple
// subsets can distinguish an early stop from normal exhaustion.
func ReadPairs(sub ResolvedSubset, srcPath, tgtPath string, vc VariantConf, handler RecordHandler) error {
	srcLines, err := readLines(srcPath)
	if err != nil {
		return fmt.Errorf("failed to read pairs of %s: %w", sub.Corpus, err)
	}
	tgtLines, err := readLines(tgtPath)
	if err != nil {
		return fmt.Errorf("failed to read pairs of %s: %w", sub.Corpus, err)
	}
	numLines := len(srcLines)
	if len(tgtLines) < numLines {
		numLines = len(tgtLines)
	}
	for i := 0; i < numLines; i++ {
		if srcLines[i] == "" || tgtLines[i] == "" {
			continue
		}
		rec := Record{
			Key: fmt.Sprintf("%s/%d", sub.Corpus, i),
			Translation: map[string]string{
				vc.SourceLang: srcLines[i],
				vc.TargetLang: tgtLines[i],
			},
		}
		if err := handler(rec); err != nil {
			return err
		}
	}
	return nil
}

func readLines(path string) ([]string, error) {
	rawData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(string(rawData), "\n"), nil
}
