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

package jobs

import (
	"golang.org/x/text/message"
)

// GeneralJobInfo defines a general job information
type GeneralJobInfo interface {

	// GetID should provide the job's unique identifier
	GetID() string

	// GetType returns the job's type identifier (e.g. "dataset-build")
	GetType() string

	// GetStartDT provides a datetime information when the job started
	GetStartDT() JSONTime

	// GetNumRestarts provides how many times the job was restarted
	GetNumRestarts() int

	// GetDataset provides the dataset variant the job is related to
	GetDataset() string

	// IsFinished returns true if the job has finished (either
	// successfully or with an error)
	IsFinished() bool

	// AsFinished returns a finished version of the job info
	AsFinished() GeneralJobInfo

	// CompactVersion returns a shortened version of the status
	// suitable for listings
	CompactVersion() JobInfoCompact

	// FullInfo returns a JSON-friendly full status representation
	FullInfo() any

	GetError() error

	// WithError returns a copy of the job info with the provided
	// error attached and the job marked as finished
	WithError(err error) GeneralJobInfo
}

// JobInfoCompact is a simplified job information for job listings
type JobInfoCompact struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Dataset  string   `json:"dataset"`
	Start    JSONTime `json:"start"`
	Update   JSONTime `json:"update"`
	Finished bool     `json:"finished"`
	OK       bool     `json:"ok"`
}

func ErrorToString(err error) string {
	if err != nil {
		return err.Error()
	}
	return ""
}

func extractJobDescription(printer *message.Printer, info GeneralJobInfo) string {
	var desc string
	switch info.GetType() {
	case "dataset-build":
		desc = printer.Sprintf("Parallel corpus dataset generation")
	case "dummy-job":
		desc = printer.Sprintf("Testing and debugging empty job")
	default:
		desc = printer.Sprintf("Unknown job")
	}
	return desc
}

func localizedStatus(printer *message.Printer, info GeneralJobInfo) string {
	if !info.IsFinished() {
		return printer.Sprintf("Job is running")
	}
	if info.GetError() == nil {
		return printer.Sprintf("Job finished without errors")
	}
	return printer.Sprintf("Job finished with error: %s", info.GetError())
}
