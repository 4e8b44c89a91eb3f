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
	"fmt"

	"golang.org/x/text/language"
)

// LangPair represents a pair of languages a sub-corpus provides
// aligned sentences for. The pair is unordered - (en, de) and (de, en)
// denote the same pair.
type LangPair struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

// Matches tests whether the pair consists of the two provided
// language codes, in any order.
func (lp LangPair) Matches(lang1, lang2 string) bool {
	return lp.First == lang1 && lp.Second == lang2 ||
		lp.First == lang2 && lp.Second == lang1
}

func (lp LangPair) String() string {
	return fmt.Sprintf("%s-%s", lp.First, lp.Second)
}

// PairList is a list of language pairs with order-insensitive
// membership testing.
type PairList []LangPair

func (pl PairList) Contains(lang1, lang2 string) bool {
	for _, lp := range pl {
		if lp.Matches(lang1, lang2) {
			return true
		}
	}
	return false
}

// SupportedPairs derives all the unique two-element combinations
// over the provided language list. For N languages, the result has
// N*(N-1)/2 items. The function is pure - it performs no I/O and
// cannot fail; a malformed catalog is a build-time defect.
func SupportedPairs(languages []string) PairList {
	ans := make(PairList, 0, len(languages)*(len(languages)-1)/2)
	for i, lang1 := range languages {
		for _, lang2 := range languages[i+1:] {
			ans = append(ans, LangPair{First: lang1, Second: lang2})
		}
	}
	return ans
}

// ValidateLangCode tests whether the provided value is a well-formed
// language tag (e.g. "en", "de", "en_GB"). OPUS uses underscore variants
// for regional codes which the BCP 47 parser expects with a dash.
func ValidateLangCode(code string) error {
	norm := make([]rune, 0, len(code))
	for _, c := range code {
		if c == '_' {
			norm = append(norm, '-')

		} else {
			norm = append(norm, c)
		}
	}
	if _, err := language.Parse(string(norm)); err != nil {
		return fmt.Errorf("invalid language code %s: %w", code, err)
	}
	return nil
}
