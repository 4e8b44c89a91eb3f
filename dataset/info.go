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

const (
	CollectionDescription = "OPUS is a collection of translated texts from the web."

	CollectionHomepage = "http://opus.nlpl.eu/"

	// Citation is the reference publication of the OPUS collection.
	Citation = `@inproceedings{Tiedemann2012ParallelData,
  author = {Tiedemann, J},
  title = {Parallel Data, Tools and Interfaces in OPUS},
  booktitle = {LREC}
  year = {2012}}`

	// SplitTrain is the only logical split a variant provides. Its
	// generation consumes the full resolved subset list.
	SplitTrain = "train"
)

// Info is the dataset registration surface describing one
// language-pair variant to external cataloging tools.
type Info struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Homepage    string   `json:"homepage"`
	Citation    string   `json:"citation"`

	// Features lists the output field names, equal to the two
	// language codes in (source, target) order.
	Features []string `json:"features"`

	// SupervisedKeys is the (input, output) field pairing for
	// supervised training setups.
	SupervisedKeys [2]string `json:"supervisedKeys"`

	Splits  []string `json:"splits"`
	Subsets []string `json:"subsets"`
}

// NewInfo creates the registration record for the provided variant.
func NewInfo(vc VariantConf) Info {
	return Info{
		Name:           vc.Name(),
		Description:    CollectionDescription,
		Homepage:       CollectionHomepage,
		Citation:       Citation,
		Features:       []string{vc.SourceLang, vc.TargetLang},
		SupervisedKeys: [2]string{vc.SourceLang, vc.TargetLang},
		Splits:         []string{SplitTrain},
		Subsets:        vc.Subsets,
	}
}
