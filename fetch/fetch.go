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
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/rs/zerolog/log"
)

const (
	dfltRequestTimeout = 10 * time.Minute
)

// Downloader fetches remote zip archives and unpacks them into
// per-archive directories under a common download root. A directory
// which already exists is reused without contacting the network, so
// repeated generation passes over the same variant hit the cache.
// Any download or unpacking failure is returned unchanged to the
// caller - there is no retrying here.
type Downloader struct {
	downloadDir string
	client      *http.Client
}

// DownloadAndExtract obtains the archive at the provided URL and
// returns a local directory containing its extracted contents.
func (d *Downloader) DownloadAndExtract(ctx context.Context, url string) (string, error) {
	targetDir := filepath.Join(d.downloadDir, archiveDirName(url))
	isDir, err := fs.IsDir(targetDir)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	if isDir {
		log.Debug().Str("url", url).Str("dir", targetDir).Msg("archive already extracted, reusing")
		return targetDir, nil
	}
	archivePath, err := d.download(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer os.Remove(archivePath)
	if err := extractZip(archivePath, targetDir); err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	log.Info().Str("url", url).Str("dir", targetDir).Msg("downloaded and extracted archive")
	return targetDir, nil
}

func (d *Downloader) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}
	tmpFile, err := os.CreateTemp(d.downloadDir, "opal-archive-*.zip")
	if err != nil {
		return "", err
	}
	defer tmpFile.Close()
	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		os.Remove(tmpFile.Name())
		return "", err
	}
	return tmpFile.Name(), nil
}

func extractZip(archivePath, targetDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer reader.Close()
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return err
	}
	for _, item := range reader.File {
		if err := extractZipItem(item, targetDir); err != nil {
			return err
		}
	}
	return nil
}

func extractZipItem(item *zip.File, targetDir string) error {
	targetPath := filepath.Join(targetDir, item.Name)
	// refuse entries escaping the target directory
	if !strings.HasPrefix(targetPath, filepath.Clean(targetDir)+string(os.PathSeparator)) {
		return fmt.Errorf("illegal archive item path %s", item.Name)
	}
	if item.FileInfo().IsDir() {
		return os.MkdirAll(targetPath, 0755)
	}
	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return err
	}
	src, err := item.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := os.Create(targetPath)
	if err != nil {
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, src)
	return err
}

// archiveDirName derives a stable directory name for an archive URL.
// OPUS download URLs carry the corpus path in a query argument so a
// plain basename would collide between sub-corpora.
func archiveDirName(url string) string {
	hash := sha1.Sum([]byte(url))
	return hex.EncodeToString(hash[:])
}

func NewDownloader(downloadDir string, requestTimeout time.Duration) *Downloader {
	if requestTimeout == 0 {
		requestTimeout = dfltRequestTimeout
	}
	if err := os.MkdirAll(downloadDir, 0755); err != nil {
		log.Error().Err(err).Str("dir", downloadDir).Msg("failed to create download directory")
	}
	return &Downloader{
		downloadDir: downloadDir,
		client:      &http.Client{Timeout: requestTimeout},
	}
}
