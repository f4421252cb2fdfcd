// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gohncena/lading/internal/domain"
)

type archiveEntry struct {
	name     string
	body     string
	typeflag byte
	mode     int64
}

func buildArchive(t *testing.T, entries []archiveEntry) []byte {
	t.Helper()

	var buf bytes.Buffer

	gzWriter := gzip.NewWriter(&buf)
	tarWriter := tar.NewWriter(gzWriter)

	for _, entry := range entries {
		typeflag := entry.typeflag
		if typeflag == 0 {
			typeflag = tar.TypeReg
		}

		mode := entry.mode
		if mode == 0 {
			mode = 0o644
		}

		header := &tar.Header{
			Name:     entry.name,
			Typeflag: typeflag,
			Mode:     mode,
			Size:     int64(len(entry.body)),
		}
		if typeflag == tar.TypeSymlink {
			header.Size = 0
			header.Linkname = entry.body
		}

		require.NoError(t, tarWriter.WriteHeader(header))

		if typeflag == tar.TypeReg {
			_, err := tarWriter.Write([]byte(entry.body))
			require.NoError(t, err)
		}
	}

	require.NoError(t, tarWriter.Close())
	require.NoError(t, gzWriter.Close())

	return buf.Bytes()
}

func writeArchiveFile(t *testing.T, dir string, entries []archiveEntry) domain.Archive {
	t.Helper()

	path := filepath.Join(dir, "pkg.tar.gz")
	require.NoError(t, os.WriteFile(path, buildArchive(t, entries), 0o644))

	return domain.Archive{Path: path}
}

type stubDownloader struct {
	url     string
	payload []byte
	err     error
}

func (s *stubDownloader) DownloadFile(_ context.Context, url, destPath string) error {
	s.url = url

	if s.err != nil {
		return s.err
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(destPath, s.payload, 0o644)
}

func TestFetch(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()
	downloader := &stubDownloader{payload: []byte("archive bytes")}
	installer := NewInstaller(downloader, "https://example.com/packages/", dataDir)

	archive, err := installer.Fetch(context.Background(), domain.PackageRecord{Name: "sl", Version: "5.0.2"})

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/packages/sl/5.0.2/sl-5.0.2.tar.gz", downloader.url)
	assert.Equal(t, filepath.Join(dataDir, "cache", "sl-5.0.2.tar.gz"), archive.Path)

	data, err := os.ReadFile(archive.Path)
	require.NoError(t, err)
	assert.Equal(t, "archive bytes", string(data))
}

func TestFetchFailure(t *testing.T) {
	t.Parallel()

	downloader := &stubDownloader{err: errors.New("connection refused")}
	installer := NewInstaller(downloader, "https://example.com", t.TempDir())

	_, err := installer.Fetch(context.Background(), domain.PackageRecord{Name: "sl", Version: "5.0.2"})

	require.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFetchRejectsUnsafeName(t *testing.T) {
	t.Parallel()

	downloader := &stubDownloader{}
	installer := NewInstaller(downloader, "https://example.com", t.TempDir())

	_, err := installer.Fetch(context.Background(), domain.PackageRecord{Name: "../evil", Version: "1.0"})

	require.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.Empty(t, downloader.url)
}

func TestExtract(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()
	installer := NewInstaller(&stubDownloader{}, "https://example.com", dataDir)

	archive := writeArchiveFile(t, t.TempDir(), []archiveEntry{
		{name: "bin", typeflag: tar.TypeDir},
		{name: "bin/sl", body: "#!/bin/sh\necho choo choo\n", mode: 0o755},
		{name: "share/man/man1/sl.1", body: ".TH SL 1"},
	})

	files, err := installer.Extract(context.Background(), archive, "sl", "5.0.2")

	require.NoError(t, err)
	assert.Equal(t, []string{"bin/sl", "share/man/man1/sl.1"}, files)

	slot := filepath.Join(dataDir, "installed", "sl", "5.0.2")

	content, err := os.ReadFile(filepath.Join(slot, "bin", "sl"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "choo choo")

	info, err := os.Stat(filepath.Join(slot, "bin", "sl"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestExtractReplacesPreviousContents(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()
	installer := NewInstaller(&stubDownloader{}, "https://example.com", dataDir)

	slot := filepath.Join(dataDir, "installed", "sl", "5.0.2")
	require.NoError(t, os.MkdirAll(slot, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(slot, "stale"), []byte("old"), 0o644))

	archive := writeArchiveFile(t, t.TempDir(), []archiveEntry{
		{name: "bin/sl", body: "fresh"},
	})

	_, err := installer.Extract(context.Background(), archive, "sl", "5.0.2")

	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(slot, "stale"))
	assert.True(t, os.IsNotExist(err))
}

func TestExtractRejectsTraversal(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()
	installer := NewInstaller(&stubDownloader{}, "https://example.com", dataDir)

	archive := writeArchiveFile(t, t.TempDir(), []archiveEntry{
		{name: "../../evil.txt", body: "escaped"},
	})

	_, err := installer.Extract(context.Background(), archive, "sl", "5.0.2")

	require.ErrorIs(t, err, domain.ErrExtractFailed)

	_, statErr := os.Stat(filepath.Join(dataDir, "installed", "evil.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtractSkipsSymlinks(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()
	installer := NewInstaller(&stubDownloader{}, "https://example.com", dataDir)

	archive := writeArchiveFile(t, t.TempDir(), []archiveEntry{
		{name: "bin/sl", body: "real"},
		{name: "bin/alias", typeflag: tar.TypeSymlink, body: "/etc/passwd"},
	})

	files, err := installer.Extract(context.Background(), archive, "sl", "5.0.2")

	require.NoError(t, err)
	assert.Equal(t, []string{"bin/sl"}, files)

	_, statErr := os.Lstat(filepath.Join(dataDir, "installed", "sl", "5.0.2", "bin", "alias"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtractMissingArchive(t *testing.T) {
	t.Parallel()

	installer := NewInstaller(&stubDownloader{}, "https://example.com", t.TempDir())

	_, err := installer.Extract(context.Background(), domain.Archive{Path: "/does/not/exist.tar.gz"}, "sl", "5.0.2")

	require.ErrorIs(t, err, domain.ErrExtractFailed)
}

func TestDeleteInstalledFiles(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()
	installer := NewInstaller(&stubDownloader{}, "https://example.com", dataDir)

	oldSlot := filepath.Join(dataDir, "installed", "zsh", "5.8")
	newSlot := filepath.Join(dataDir, "installed", "zsh", "5.9")
	require.NoError(t, os.MkdirAll(oldSlot, 0o755))
	require.NoError(t, os.MkdirAll(newSlot, 0o755))

	ctx := context.Background()

	require.NoError(t, installer.DeleteInstalledFiles(ctx, "zsh", "5.8"))

	_, err := os.Stat(oldSlot)
	assert.True(t, os.IsNotExist(err))

	// The other version stays, and so does the package directory.
	_, err = os.Stat(newSlot)
	require.NoError(t, err)

	require.NoError(t, installer.DeleteInstalledFiles(ctx, "zsh", "5.9"))

	// Last version gone: the package directory is dropped with it.
	_, err = os.Stat(filepath.Join(dataDir, "installed", "zsh"))
	assert.True(t, os.IsNotExist(err))

	// Deleting again is a no-op.
	require.NoError(t, installer.DeleteInstalledFiles(ctx, "zsh", "5.9"))
}

func TestPurgeResidue(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()
	installer := NewInstaller(&stubDownloader{}, "https://example.com", dataDir)

	for _, version := range []string{"5.8", "5.9"} {
		slot := filepath.Join(dataDir, "installed", "zsh", version)
		require.NoError(t, os.MkdirAll(slot, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(slot, "bin"), []byte("x"), 0o644))
	}

	require.NoError(t, installer.PurgeResidue(context.Background(), "zsh"))

	_, err := os.Stat(filepath.Join(dataDir, "installed", "zsh"))
	assert.True(t, os.IsNotExist(err))
}
