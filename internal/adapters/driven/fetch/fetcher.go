// Package fetch implements the CorpusFetcher port: it downloads USLM
// bulk XML release archives from the US House release point and
// unpacks them into the local data directory.
package fetch

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/uscode-cli/internal/core/ports/driven"
	"github.com/custodia-labs/uscode-cli/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.CorpusFetcher = (*Fetcher)(nil)

// DefaultReleaseBase is the release point directory holding the bulk
// XML archives.
const DefaultReleaseBase = "https://uscode.house.gov/download/releasepoints/us/pl/119/12"

// requestsPerSecond throttles archive requests. Per-title fetches hit
// the server once per title; bulk fetches once in total.
const requestsPerSecond = 0.5

// maxArchiveEntrySize caps a single decompressed archive entry, as a
// guard against malformed archives.
const maxArchiveEntrySize = 1 << 30

// Fetcher downloads release archives into a data directory.
type Fetcher struct {
	client      *http.Client
	limiter     *rate.Limiter
	releaseBase string
	dataDir     string
}

// New creates a fetcher that unpacks into dataDir. An empty
// releaseBase selects the default release point.
func New(dataDir, releaseBase string) *Fetcher {
	if releaseBase == "" {
		releaseBase = DefaultReleaseBase
	}
	return &Fetcher{
		client:      &http.Client{Timeout: 30 * time.Minute},
		limiter:     rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		releaseBase: strings.TrimSuffix(releaseBase, "/"),
		dataDir:     dataDir,
	}
}

// DataDir returns the directory archives are unpacked into.
func (f *Fetcher) DataDir() string {
	return f.dataDir
}

// Fetch downloads and unpacks the full release archive, roughly 250MB
// compressed. A data directory that already holds title XML files is
// left alone unless force is set.
func (f *Fetcher) Fetch(ctx context.Context, force bool) error {
	if !force && f.hasTitleFiles() {
		logger.Info("Corpus already present in %s", f.dataDir)
		return nil
	}
	return f.download(ctx, f.releaseBase+"/xml_uscAll@119-12.zip")
}

// FetchTitle downloads and unpacks one title's archive, e.g. "05" or
// "50A".
func (f *Fetcher) FetchTitle(ctx context.Context, title string, force bool) error {
	name := TitleFileName(title)
	if !force {
		if _, err := os.Stat(filepath.Join(f.dataDir, name)); err == nil {
			logger.Info("Title file %s already present", name)
			return nil
		}
	}
	return f.download(ctx, fmt.Sprintf("%s/xml_usc%s@119-12.zip", f.releaseBase, titleStem(title)))
}

// TitleFileName maps a title number to its release file name: lower
// case, title number padded to two digits ("5" → usc05.xml, "50A" →
// usc50a.xml). Every consumer of the data directory derives file names
// through here so look-ups and unpacked archives agree on
// case-sensitive filesystems.
func TitleFileName(title string) string {
	return "usc" + titleStem(title) + ".xml"
}

// titleStem normalises a title number to its archive stem.
func titleStem(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	digits := 0
	for digits < len(t) && t[digits] >= '0' && t[digits] <= '9' {
		digits++
	}
	if digits == 1 {
		t = "0" + t
	}
	return t
}

func (f *Fetcher) hasTitleFiles() bool {
	entries, err := os.ReadDir(f.dataDir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "usc") && strings.HasSuffix(e.Name(), ".xml") {
			return true
		}
	}
	return false
}

// download fetches one archive to a temp file and unpacks it.
func (f *Fetcher) download(ctx context.Context, url string) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}

	logger.Info("Downloading %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	if err := os.MkdirAll(f.dataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(f.dataDir, "uscode-archive-*.zip")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	size, err := io.Copy(tmp, resp.Body)
	if err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	logger.Debug("Downloaded %d bytes", size)

	if err := f.unpack(tmp.Name()); err != nil {
		return fmt.Errorf("unpack archive: %w", err)
	}

	logger.Info("Corpus unpacked into %s", f.dataDir)
	return nil
}

// unpack extracts the XML files of an archive into the data directory,
// flattening any leading release directory.
func (f *Fetcher) unpack(archivePath string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, entry := range r.File {
		name := filepath.Base(entry.Name)
		if entry.FileInfo().IsDir() || !strings.HasSuffix(name, ".xml") {
			continue
		}
		if err := f.unpackEntry(entry, filepath.Join(f.dataDir, name)); err != nil {
			return fmt.Errorf("extract %s: %w", name, err)
		}
	}
	return nil
}

func (f *Fetcher) unpackEntry(entry *zip.File, dest string) error {
	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, io.LimitReader(src, maxArchiveEntrySize)); err != nil {
		return err
	}
	return out.Close()
}
