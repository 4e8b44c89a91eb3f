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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"opal/catalog"
	"opal/general/collections"
)

// fakeFetcher maps archive URLs to prepared local directories.
type fakeFetcher struct {
	dirs     map[string]string
	requests []string
}

func (ff *fakeFetcher) DownloadAndExtract(ctx context.Context, url string) (string, error) {
	ff.requests = append(ff.requests, url)
	dir, ok := ff.dirs[url]
	if !ok {
		return "", errors.New("unknown archive")
	}
	return dir, nil
}

func prepareArchiveDir(t *testing.T, corpus, fileSuffix, src, tgt, srcContent, tgtContent string) string {
	t.Helper()
	dir := t.TempDir()
	srcName := corpus + "." + fileSuffix + "." + src
	tgtName := corpus + "." + fileSuffix + "." + tgt
	assert.NoError(t, os.WriteFile(filepath.Join(dir, srcName), []byte(srcContent), 0644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, tgtName), []byte(tgtContent), 0644))
	return dir
}

func TestGenerateConsumesCorporaInSequence(t *testing.T) {
	ff := &fakeFetcher{dirs: map[string]string{
		"http://opus.nlpl.eu/download.php?f=KDE4/v2/moses/de-en.txt.zip": prepareArchiveDir(
			t, "KDE4", "de-en", "de", "en", "k1\nk2", "e1\ne2"),
		"http://opus.nlpl.eu/download.php?f=GNOME/v1/moses/de-en.txt.zip": prepareArchiveDir(
			t, "GNOME", "de-en", "de", "en", "g1", "h1"),
	}}
	gen := NewGenerator(catalog.NewCatalog(), ff)
	vc := VariantConf{
		SourceLang: "de",
		TargetLang: "en",
		Subsets:    []string{"KDE4", "GNOME"},
	}
	keys := make([]string, 0, 10)
	stats, err := gen.Generate(context.Background(), vc, func(rec Record) error {
		keys = append(keys, rec.Key)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"KDE4/0", "KDE4/1", "GNOME/0"}, keys)
	assert.Equal(t, 3, stats.NumRecords)
	assert.Equal(t, 2, stats.CorpusRecords["KDE4"])
	assert.Equal(t, 1, stats.CorpusRecords["GNOME"])
	assert.Equal(t, "de-en", stats.Variant)
	// one archive per resolved sub-corpus, in subset order
	assert.Equal(t, 2, len(ff.requests))
}

func TestGenerateSkipsEmptyLines(t *testing.T) {
	ff := &fakeFetcher{dirs: map[string]string{
		"http://opus.nlpl.eu/download.php?f=EMEA/v3/moses/en-es.txt.zip": prepareArchiveDir(
			t, "EMEA", "en-es", "en", "es", "a\nb\n\nc", "x\ny\nz\nw"),
	}}
	gen := NewGenerator(catalog.NewCatalog(), ff)
	vc := VariantConf{
		SourceLang: "en",
		TargetLang: "es",
		Subsets:    []string{"EMEA"},
	}
	keys := make([]string, 0, 4)
	stats, err := gen.Generate(context.Background(), vc, func(rec Record) error {
		keys = append(keys, rec.Key)
		return nil
	})
	assert.NoError(t, err)
	// index 2 has an empty source line, the key numbering keeps the gap
	assert.Equal(t, []string{"EMEA/0", "EMEA/1", "EMEA/3"}, keys)
	assert.Equal(t, 3, stats.NumRecords)
}

func TestGenerateStopsEarlyOnStopIteration(t *testing.T) {
	ff := &fakeFetcher{dirs: map[string]string{
		"http://opus.nlpl.eu/download.php?f=KDE4/v2/moses/de-en.txt.zip": prepareArchiveDir(
			t, "KDE4", "de-en", "de", "en", "k1\nk2\nk3", "e1\ne2\ne3"),
		"http://opus.nlpl.eu/download.php?f=GNOME/v1/moses/de-en.txt.zip": prepareArchiveDir(
			t, "GNOME", "de-en", "de", "en", "g1", "h1"),
	}}
	gen := NewGenerator(catalog.NewCatalog(), ff)
	vc := VariantConf{
		SourceLang: "de",
		TargetLang: "en",
		Subsets:    []string{"KDE4", "GNOME"},
	}
	stats, err := gen.Generate(context.Background(), vc, func(rec Record) error {
		if rec.Key == "KDE4/1" {
			return collections.ErrorStopIteration
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, stats.NumRecords)
	// the second archive must not be fetched once the pass stopped
	assert.Equal(t, 1, len(ff.requests))
}

func TestGeneratePropagatesFetchError(t *testing.T) {
	ff := &fakeFetcher{dirs: map[string]string{}}
	gen := NewGenerator(catalog.NewCatalog(), ff)
	vc := VariantConf{
		SourceLang: "de",
		TargetLang: "en",
		Subsets:    []string{"KDE4"},
	}
	_, err := gen.Generate(context.Background(), vc, func(rec Record) error {
		return nil
	})
	assert.Error(t, err)
}

func TestGeneratePropagatesUnknownSubset(t *testing.T) {
	ff := &fakeFetcher{dirs: map[string]string{}}
	gen := NewGenerator(catalog.NewCatalog(), ff)
	vc := VariantConf{
		SourceLang: "de",
		TargetLang: "en",
		Subsets:    []string{"Europarl"},
	}
	_, err := gen.Generate(context.Background(), vc, func(rec Record) error {
		return nil
	})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrCorpusNotFound))
	assert.Equal(t, 0, len(ff.requests))
}
