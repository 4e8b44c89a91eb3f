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

package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func buildTestArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for name, content := range files {
		item, err := writer.Create(name)
		assert.NoError(t, err)
		_, err = item.Write([]byte(content))
		assert.NoError(t, err)
	}
	assert.NoError(t, writer.Close())
	return buf.Bytes()
}

func TestDownloadAndExtract(t *testing.T) {
	archive := buildTestArchive(t, map[string]string{
		"KDE4.de-en.de": "hallo\nwelt",
		"KDE4.de-en.en": "hello\nworld",
	})
	numRequests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		numRequests++
		w.Write(archive)
	}))
	defer srv.Close()

	dl := NewDownloader(t.TempDir(), 10*time.Second)
	dir, err := dl.DownloadAndExtract(context.Background(), srv.URL+"/de-en.txt.zip")
	assert.NoError(t, err)
	content, err := os.ReadFile(filepath.Join(dir, "KDE4.de-en.de"))
	assert.NoError(t, err)
	assert.Equal(t, "hallo\nwelt", string(content))
	content, err = os.ReadFile(filepath.Join(dir, "KDE4.de-en.en"))
	assert.NoError(t, err)
	assert.Equal(t, "hello\nworld", string(content))
	assert.Equal(t, 1, numRequests)
}

func TestDownloadAndExtractReusesCache(t *testing.T) {
	archive := buildTestArchive(t, map[string]string{"data.txt": "v"})
	numRequests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		numRequests++
		w.Write(archive)
	}))
	defer srv.Close()

	dl := NewDownloader(t.TempDir(), 10*time.Second)
	url := srv.URL + "/x.txt.zip"
	dir1, err := dl.DownloadAndExtract(context.Background(), url)
	assert.NoError(t, err)
	dir2, err := dl.DownloadAndExtract(context.Background(), url)
	assert.NoError(t, err)
	assert.Equal(t, dir1, dir2)
	assert.Equal(t, 1, numRequests)
}

func TestDownloadAndExtractFailedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "no such corpus", http.StatusNotFound)
	}))
	defer srv.Close()

	dl := NewDownloader(t.TempDir(), 10*time.Second)
	_, err := dl.DownloadAndExtract(context.Background(), srv.URL+"/x.txt.zip")
	assert.Error(t, err)
}

func TestDownloadAndExtractBrokenArchive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("this is not a zip file"))
	}))
	defer srv.Close()

	dl := NewDownloader(t.TempDir(), 10*time.Second)
	_, err := dl.DownloadAndExtract(context.Background(), srv.URL+"/x.txt.zip")
	assert.Error(t, err)
}

func TestArchiveDirNameIsStableAndUnique(t *testing.T) {
	name1 := archiveDirName("http://opus.nlpl.eu/download.php?f=KDE4/v2/moses/de-en.txt.zip")
	name2 := archiveDirName("http://opus.nlpl.eu/download.php?f=KDE4/v2/moses/de-en.txt.zip")
	name3 := archiveDirName("http://opus.nlpl.eu/download.php?f=GNOME/v1/moses/de-en.txt.zip")
	assert.Equal(t, name1, name2)
	assert.NotEqual(t, name1, name3)
}
