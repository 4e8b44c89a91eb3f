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

package buildlog

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeDriver serves prepared rows for any query so the SQL layer can
// be exercised without a running MySQL server.
type fakeDriver struct {
	conn *fakeConn
}

func (d *fakeDriver) Open(name string) (driver.Conn, error) {
	return d.conn, nil
}

type fakeConn struct {
	rows    [][]driver.Value
	rowsErr error
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return &fakeStmt{conn: c}, nil
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) Begin() (driver.Tx, error) { return nil, driver.ErrSkip }

type fakeStmt struct {
	conn *fakeConn
}

func (s *fakeStmt) Close() error  { return nil }
func (s *fakeStmt) NumInput() int { return -1 }

func (s *fakeStmt) Exec(args []driver.Value) (driver.Result, error) {
	return driver.RowsAffected(1), nil
}

func (s *fakeStmt) Query(args []driver.Value) (driver.Rows, error) {
	return &fakeRows{data: s.conn.rows, err: s.conn.rowsErr}, nil
}

type fakeRows struct {
	data [][]driver.Value
	err  error
	pos  int
}

func (r *fakeRows) Columns() []string {
	return []string{"id", "variant", "out_file", "num_records", "corpora", "created"}
}

func (r *fakeRows) Close() error { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.data) {
		if r.err != nil {
			return r.err
		}
		return io.EOF
	}
	copy(dest, r.data[r.pos])
	r.pos++
	return nil
}

var testDrv = &fakeDriver{}

func init() {
	sql.Register("buildlogtest", testDrv)
}

func openTestDB(t *testing.T, conn *fakeConn) *sql.DB {
	t.Helper()
	testDrv.conn = conn
	db, err := sql.Open("buildlogtest", "")
	assert.NoError(t, err)
	return db
}

func TestLoadBuildsEmptyResult(t *testing.T) {
	db := openTestDB(t, &fakeConn{})
	defer db.Close()
	arch := NewArchiver(db)
	builds, err := arch.LoadBuilds(context.Background(), "en-es", 10)
	assert.NoError(t, err)
	assert.Equal(t, []BuildRecord{}, builds)
}

func TestLoadBuildsDecodesRows(t *testing.T) {
	created := time.Date(2024, 5, 2, 10, 30, 0, 0, time.UTC)
	db := openTestDB(t, &fakeConn{
		rows: [][]driver.Value{
			{"b1", "en-es", "/srv/data/en-es.jsonl", int64(3), []byte(`["EMEA","KDE4"]`), created},
		},
	})
	defer db.Close()
	arch := NewArchiver(db)
	builds, err := arch.LoadBuilds(context.Background(), "en-es", 10)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(builds))
	assert.Equal(t, "b1", builds[0].ID)
	assert.Equal(t, "en-es", builds[0].Variant)
	assert.Equal(t, 3, builds[0].NumRecords)
	assert.Equal(t, []string{"EMEA", "KDE4"}, builds[0].Corpora)
	assert.Equal(t, created, builds[0].Created)
}

func TestLoadBuildsReportsIterationError(t *testing.T) {
	created := time.Date(2024, 5, 2, 10, 30, 0, 0, time.UTC)
	db := openTestDB(t, &fakeConn{
		rows: [][]driver.Value{
			{"b1", "en-es", "/srv/data/en-es.jsonl", int64(3), []byte(`["EMEA"]`), created},
		},
		rowsErr: errors.New("connection lost"),
	})
	defer db.Close()
	arch := NewArchiver(db)
	_, err := arch.LoadBuilds(context.Background(), "en-es", 10)
	assert.ErrorContains(t, err, "connection lost")
}
