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

	"opal/catalog"
)

// VariantConf identifies one buildable dataset variant. It is plain
// data - the language pair determines output field naming (source
// first) while sub-corpus membership testing stays order-insensitive.
type VariantConf struct {
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`

	// Subsets lists the names of the sub-corpora to consider for
	// the variant. Names not supporting the pair are skipped during
	// resolution; names unknown to the catalog are an error.
	Subsets []string `json:"subsets"`
}

// Name returns the conventional variant identifier, e.g. "en-de".
func (vc VariantConf) Name() string {
	return fmt.Sprintf("%s-%s", vc.SourceLang, vc.TargetLang)
}

func (vc VariantConf) Description() string {
	return vc.Name() + " documents"
}

func (vc VariantConf) Validate() error {
	if err := catalog.ValidateLangCode(vc.SourceLang); err != nil {
		return fmt.Errorf("invalid variant source language: %w", err)
	}
	if err := catalog.ValidateLangCode(vc.TargetLang); err != nil {
		return fmt.Errorf("invalid variant target language: %w", err)
	}
	if vc.SourceLang == vc.TargetLang {
		return fmt.Errorf("invalid variant %s: source and target languages must differ", vc.Name())
	}
	if len(vc.Subsets) == 0 {
		return fmt.Errorf("invalid variant %s: no subsets defined", vc.Name())
	}
	return nil
}
