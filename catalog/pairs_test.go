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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupportedPairs(t *testing.T) {
	pairs := SupportedPairs([]string{"de", "en", "es"})
	assert.Equal(t, 3, len(pairs))
	assert.True(t, pairs.Contains("de", "en"))
	assert.True(t, pairs.Contains("de", "es"))
	assert.True(t, pairs.Contains("en", "es"))
}

func TestSupportedPairsSize(t *testing.T) {
	langs := []string{"cs", "de", "en", "es", "fr", "it"}
	pairs := SupportedPairs(langs)
	// C(6, 2)
	assert.Equal(t, 15, len(pairs))
	seen := make(map[string]bool)
	for _, p := range pairs {
		assert.NotEqual(t, p.First, p.Second)
		assert.Contains(t, langs, p.First)
		assert.Contains(t, langs, p.Second)
		assert.False(t, seen[p.String()])
		seen[p.String()] = true
	}
}

func TestSupportedPairsMembershipIsUnordered(t *testing.T) {
	pairs := SupportedPairs([]string{"de", "en", "es"})
	for _, p := range pairs {
		assert.True(t, pairs.Contains(p.First, p.Second))
		assert.True(t, pairs.Contains(p.Second, p.First))
	}
}

func TestSupportedPairsOnSingleLanguage(t *testing.T) {
	pairs := SupportedPairs([]string{"en"})
	assert.Equal(t, 0, len(pairs))
}

func TestSupportedPairsOnEmptyList(t *testing.T) {
	pairs := SupportedPairs([]string{})
	assert.Equal(t, 0, len(pairs))
}

func TestPairListDoesNotContainForeignPair(t *testing.T) {
	pairs := SupportedPairs([]string{"de", "en", "es"})
	assert.False(t, pairs.Contains("en", "fr"))
	assert.False(t, pairs.Contains("fr", "en"))
}

func TestLangPairString(t *testing.T) {
	lp := LangPair{First: "en", Second: "de"}
	assert.Equal(t, "en-de", lp.String())
}

func TestValidateLangCode(t *testing.T) {
	assert.NoError(t, ValidateLangCode("en"))
	assert.NoError(t, ValidateLangCode("de"))
	assert.NoError(t, ValidateLangCode("en_GB"))
	assert.Error(t, ValidateLangCode("not a language"))
	assert.Error(t, ValidateLangCode(""))
}
