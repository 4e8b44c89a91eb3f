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
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	ErrCorpusNotFound = errors.New("corpus not found")
)

// CorpusEntry describes a single OPUS sub-corpus - one named source
// of parallel text contributing sentence pairs for some subset of
// language combinations. Entries are immutable after construction.
type CorpusEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Homepage    string `json:"homepage"`

	// URL is a download location template. The concrete archive
	// address is derived by appending "{src}-{tgt}.txt.zip".
	URL string `json:"url"`

	// Languages lists the language codes the sub-corpus covers.
	Languages []string `json:"languages"`

	// Filename is the archive-internal file name prefix (typically
	// equal to Name but kept separate as OPUS does not guarantee that).
	Filename string `json:"filename"`

	// Pairs contains all the unordered language pairs derived from
	// Languages, computed once when the catalog is built.
	Pairs PairList `json:"pairs"`
}

// SupportsPair tests whether the sub-corpus provides the (lang1, lang2)
// combination. The test is order-insensitive.
func (ce CorpusEntry) SupportsPair(lang1, lang2 string) bool {
	return ce.Pairs.Contains(lang1, lang2)
}

// Catalog is a process-scoped read-only registry of OPUS sub-corpora.
// It is built once at startup and passed by reference to consumers;
// there is no global instance.
type Catalog struct {
	entries map[string]CorpusEntry
}

// Get returns the entry matching the provided name. For an unknown
// name, ErrCorpusNotFound is returned - referencing a non-existing
// sub-corpus signals a caller bug and must not be silently skipped.
func (c *Catalog) Get(name string) (CorpusEntry, error) {
	entry, ok := c.entries[name]
	if !ok {
		return CorpusEntry{}, fmt.Errorf("failed to find sub-corpus %s: %w", name, ErrCorpusNotFound)
	}
	return entry, nil
}

func (c *Catalog) Contains(name string) bool {
	_, ok := c.entries[name]
	return ok
}

// Names returns all the registered sub-corpus names, sorted.
func (c *Catalog) Names() []string {
	ans := maps.Keys(c.entries)
	slices.Sort(ans)
	return ans
}

func (c *Catalog) Size() int {
	return len(c.entries)
}

func newEntry(name, description, homepage, url string, languages []string, filename string) CorpusEntry {
	return CorpusEntry{
		Name:        name,
		Description: description,
		Homepage:    homepage,
		URL:         url,
		Languages:   languages,
		Filename:    filename,
		Pairs:       SupportedPairs(languages),
	}
}

// NewCatalog creates the registry of known OPUS sub-corpora along with
// their derived language pair sets.
func NewCatalog() *Catalog {
	entries := []CorpusEntry{
		newEntry(
			"EMEA",
			"A parallel corpus made out of PDF documents from the European Medicines Agency.",
			"http://opus.nlpl.eu/EMEA.php",
			"http://opus.nlpl.eu/download.php?f=EMEA/v3/moses/",
			[]string{"de", "en", "es"},
			"EMEA",
		),
		newEntry(
			"JRC-Acquis",
			"A collection of legislative text of the European Union and currently comprises selected texts written between the 1950s and now.",
			"http://opus.nlpl.eu/JRC-Acquis.php",
			"http://opus.nlpl.eu/download.php?f=JRC-Acquis/",
			[]string{"de", "en", "es"},
			"JRC-Acquis",
		),
		newEntry(
			"Tanzil",
			"A collection of Quran translations compiled by the Tanzil project.",
			"http://opus.nlpl.eu/Tanzil.php",
			"http://opus.nlpl.eu/download.php?f=Tanzil/v1/moses/",
			[]string{"de", "en", "es"},
			"Tanzil",
		),
		newEntry(
			"GNOME",
			"A parallel corpus of GNOME localization files. Source: https://l10n.gnome.org",
			"http://opus.nlpl.eu/GNOME.php",
			"http://opus.nlpl.eu/download.php?f=GNOME/v1/moses/",
			[]string{"de", "en", "es"},
			"GNOME",
		),
		newEntry(
			"KDE4",
			"A parallel corpus of KDE4 localization files (v.2).",
			"http://opus.nlpl.eu/KDE4.php",
			"http://opus.nlpl.eu/download.php?f=KDE4/v2/moses/",
			[]string{"de", "en", "es"},
			"KDE4",
		),
		newEntry(
			"PHP",
			"A parallel corpus originally extracted from http://se.php.net/download-docs.php.",
			"http://opus.nlpl.eu/PHP.php",
			"http://opus.nlpl.eu/download.php?f=PHP/v1/moses/",
			[]string{"de", "en", "es"},
			"PHP",
		),
		newEntry(
			"Ubuntu",
			"A parallel corpus of Ubuntu localization files. Source: https://translations.launchpad.net",
			"http://opus.nlpl.eu/Ubuntu.php",
			"http://opus.nlpl.eu/download.php?f=Ubuntu/v14.10/moses/",
			[]string{"de", "en", "es"},
			"Ubuntu",
		),
		newEntry(
			"OpenOffice",
			"A collection of documents from http://www.openoffice.org/.",
			"http://opus.nlpl.eu/OpenOffice.php",
			"http://opus.nlpl.eu/download.php?f=OpenOffice/v3/moses/",
			[]string{"de", "en_GB", "es"},
			"OpenOffice",
		),
		newEntry(
			"OpenSubtitles",
			"A new collection of translated movie subtitles from http://www.opensubtitles.org/",
			"http://opus.nlpl.eu/OpenSubtitles-v2018.php",
			"http://opus.nlpl.eu/download.php?f=OpenSubtitles/v2018/",
			[]string{"de", "en", "es"},
			"OpenSubtitles",
		),
	}
	ans := &Catalog{entries: make(map[string]CorpusEntry)}
	for _, entry := range entries {
		ans.entries[entry.Name] = entry
	}
	return ans
}
