// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
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
//
// The buildlog package tracks finished dataset builds. We use it to
// answer "when was this variant last regenerated and how big was it"
// without keeping the service running.

package buildlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"opal/dataset"
)

// BuildRecord is one archived dataset build.
type BuildRecord struct {
	ID         string    `json:"id"`
	Variant    string    `json:"variant"`
	OutFile    string    `json:"outFile"`
	NumRecords int       `json:"numRecords"`
	Corpora    []string  `json:"corpora"`
	Created    time.Time `json:"created"`
}

// Archiver stores finished builds into a MySQL table. It implements
// dataset.BuildArchiver.
type Archiver struct {
	db *sql.DB
}

// StoreBuild saves a finished build job. Only successful builds are
// stored; failed ones stay visible through the jobs API.
func (arch *Archiver) StoreBuild(ctx context.Context, job dataset.BuildJobInfo) error {
	if job.GetError() != nil || job.Result == nil {
		return nil
	}
	corpora := make([]string, 0, len(job.Result.CorpusRecords))
	for corpus := range job.Result.CorpusRecords {
		corpora = append(corpora, corpus)
	}
	rawCorpora, err := json.Marshal(corpora)
	if err != nil {
		return fmt.Errorf("failed to store build %s: %w", job.ID, err)
	}
	_, err = arch.db.ExecContext(
		ctx,
		"INSERT INTO dataset_build (id, variant, out_file, num_records, corpora, created) "+
			"VALUES (?, ?, ?, ?, ?, ?)",
		job.ID, job.DatasetID, job.OutFile, job.Result.NumRecords, rawCorpora,
		time.Time(job.Update),
	)
	if err != nil {
		return fmt.Errorf("failed to store build %s: %w", job.ID, err)
	}
	log.Info().Str("jobId", job.ID).Str("variant", job.DatasetID).Msg("archived dataset build")
	return nil
}

// LoadBuilds provides the archived builds of a variant, newest first.
func (arch *Archiver) LoadBuilds(ctx context.Context, variant string, limit int) ([]BuildRecord, error) {
	rows, err := arch.db.QueryContext(
		ctx,
		"SELECT id, variant, out_file, num_records, corpora, created "+
			"FROM dataset_build WHERE variant = ? ORDER BY created DESC LIMIT ?",
		variant, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load builds of %s: %w", variant, err)
	}
	defer rows.Close()
	ans := make([]BuildRecord, 0, limit)
	for rows.Next() {
		var item BuildRecord
		var rawCorpora []byte
		if err := rows.Scan(
			&item.ID, &item.Variant, &item.OutFile, &item.NumRecords,
			&rawCorpora, &item.Created,
		); err != nil {
			return nil, fmt.Errorf("failed to load builds of %s: %w", variant, err)
		}
		if err := json.Unmarshal(rawCorpora, &item.Corpora); err != nil {
			return nil, fmt.Errorf("failed to load builds of %s: %w", variant, err)
		}
		ans = append(ans, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load builds of %s: %w", variant, err)
	}
	return ans, nil
}

// CreateTables prepares the required schema. It is safe to call
// repeatedly.
func (arch *Archiver) CreateTables(ctx context.Context) error {
	_, err := arch.db.ExecContext(
		ctx,
		"CREATE TABLE IF NOT EXISTS dataset_build ("+
			"id VARCHAR(40) NOT NULL PRIMARY KEY, "+
			"variant VARCHAR(32) NOT NULL, "+
			"out_file TEXT NOT NULL, "+
			"num_records INT NOT NULL, "+
			"corpora TEXT NOT NULL, "+
			"created DATETIME NOT NULL, "+
			"KEY dataset_build_variant_idx (variant))",
	)
	if err != nil {
		return fmt.Errorf("failed to create buildlog tables: %w", err)
	}
	return nil
}

func NewArchiver(db *sql.DB) *Archiver {
	return &Archiver{db: db}
}
