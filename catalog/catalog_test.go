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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCatalogContainsAllSubcorpora(t *testing.T) {
	cat := NewCatalog()
	assert.Equal(t, 9, cat.Size())
	for _, name := range []string{
		"EMEA", "JRC-Acquis", "Tanzil", "GNOME", "KDE4",
		"PHP", "Ubuntu", "OpenOffice", "OpenSubtitles",
	} {
		assert.True(t, cat.Contains(name))
	}
}

func TestCatalogGet(t *testing.T) {
	cat := NewCatalog()
	entry, err := cat.Get("KDE4")
	assert.NoError(t, err)
	assert.Equal(t, "KDE4", entry.Name)
	assert.Equal(t, "KDE4", entry.Filename)
	assert.Equal(t, "http://opus.nlpl.eu/download.php?f=KDE4/v2/moses/", entry.URL)
	assert.Equal(t, []string{"de", "en", "es"}, entry.Languages)
}

func TestCatalogGetUnknown(t *testing.T) {
	cat := NewCatalog()
	_, err := cat.Get("Europarl")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorpusNotFound))
}

func TestCatalogNamesAreSorted(t *testing.T) {
	cat := NewCatalog()
	names := cat.Names()
	assert.Equal(t, 9, len(names))
	assert.Equal(t, "EMEA", names[0])
	assert.Equal(t, "Ubuntu", names[len(names)-1])
}

func TestEntryPairsAreDerived(t *testing.T) {
	cat := NewCatalog()
	entry, err := cat.Get("OpenOffice")
	assert.NoError(t, err)
	assert.Equal(t, 3, len(entry.Pairs))
	assert.True(t, entry.SupportsPair("de", "en_GB"))
	assert.True(t, entry.SupportsPair("en_GB", "de"))
	assert.False(t, entry.SupportsPair("de", "en"))
}

func TestEntryDoesNotSupportForeignPair(t *testing.T) {
	cat := NewCatalog()
	entry, err := cat.Get("EMEA")
	assert.NoError(t, err)
	assert.False(t, entry.SupportsPair("en", "fr"))
}
