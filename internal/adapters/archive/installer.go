// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

// Package archive implements the installer port: tar.gz download, extraction
// into per-version slots, and payload deletion.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gohncena/lading/internal/domain"
)

// Downloader fetches a URL to a local file.
type Downloader interface {
	DownloadFile(ctx context.Context, url, destPath string) error
}

// ErrUnsafeName rejects package names or versions that would escape the data
// directory when used as path elements.
var ErrUnsafeName = errors.New("unsafe package name or version")

// Installer lays package payloads out under `<data>/installed/<name>/<version>`
// and keeps fetched archives under `<data>/cache`.
type Installer struct {
	downloader Downloader
	repoURL    string
	dataDir    string
}

// NewInstaller creates an Installer downloading from the repository URL and
// writing under dataDir.
func NewInstaller(downloader Downloader, repoURL, dataDir string) *Installer {
	return &Installer{
		downloader: downloader,
		repoURL:    strings.TrimRight(repoURL, "/"),
		dataDir:    dataDir,
	}
}

// ArchiveURL returns where the archive for a record lives in the repository.
func (i *Installer) ArchiveURL(rec domain.PackageRecord) string {
	return fmt.Sprintf("%s/%s/%s/%s-%s.tar.gz", i.repoURL, rec.Name, rec.Version, rec.Name, rec.Version)
}

// Fetch downloads the archive for the record into the cache directory.
func (i *Installer) Fetch(ctx context.Context, rec domain.PackageRecord) (domain.Archive, error) {
	if err := checkSlug(rec.Name, rec.Version); err != nil {
		return domain.Archive{}, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}

	dest := filepath.Join(i.dataDir, "cache", fmt.Sprintf("%s-%s.tar.gz", rec.Name, rec.Version))

	if err := i.downloader.DownloadFile(ctx, i.ArchiveURL(rec), dest); err != nil {
		return domain.Archive{}, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}

	return domain.Archive{Path: dest}, nil
}

// Extract unpacks the archive into the slot for (name, version), replacing
// any previous contents, and returns the relative paths of the extracted
// files.
func (i *Installer) Extract(ctx context.Context, archive domain.Archive, name, version string) ([]string, error) {
	if err := checkSlug(name, version); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractFailed, err)
	}

	slot := i.slotPath(name, version)

	if err := os.RemoveAll(slot); err != nil {
		return nil, fmt.Errorf("%w: clearing slot: %v", domain.ErrExtractFailed, err)
	}

	if err := os.MkdirAll(slot, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating slot: %v", domain.ErrExtractFailed, err)
	}

	files, err := unpack(ctx, archive.Path, slot)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractFailed, err)
	}

	return files, nil
}

// DeleteInstalledFiles removes the payload slot for (name, version). Missing
// files are not an error.
func (i *Installer) DeleteInstalledFiles(_ context.Context, name, version string) error {
	if err := checkSlug(name, version); err != nil {
		return err
	}

	if err := os.RemoveAll(i.slotPath(name, version)); err != nil {
		return fmt.Errorf("deleting installed files: %w", err)
	}

	// Drop the package directory too once its last version is gone.
	_ = os.Remove(filepath.Join(i.dataDir, "installed", name))

	return nil
}

// PurgeResidue removes every version and residual file of the named package.
func (i *Installer) PurgeResidue(_ context.Context, name string) error {
	if err := checkSlug(name); err != nil {
		return err
	}

	if err := os.RemoveAll(filepath.Join(i.dataDir, "installed", name)); err != nil {
		return fmt.Errorf("purging package files: %w", err)
	}

	return nil
}

func (i *Installer) slotPath(name, version string) string {
	return filepath.Join(i.dataDir, "installed", name, version)
}

// checkSlug rejects path elements that would land outside the data directory.
func checkSlug(elems ...string) error {
	for _, elem := range elems {
		if elem == "" || !filepath.IsLocal(elem) || strings.ContainsAny(elem, `/\`) {
			return fmt.Errorf("%w: %q", ErrUnsafeName, elem)
		}
	}

	return nil
}

func unpack(ctx context.Context, archivePath, slot string) ([]string, error) {
	// #nosec G304 -- archivePath was produced by Fetch inside the cache dir
	file, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("reading gzip stream: %w", err)
	}

	defer func() {
		_ = gzReader.Close()
	}()

	tarReader := tar.NewReader(gzReader)

	var files []string

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading archive entry: %w", err)
		}

		name := filepath.Clean(header.Name)
		if name == "." {
			continue
		}

		if !filepath.IsLocal(name) {
			return nil, fmt.Errorf("archive entry escapes slot: %q", header.Name)
		}

		dest := filepath.Join(slot, name)

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return nil, fmt.Errorf("creating directory: %w", err)
			}
		case tar.TypeReg:
			if err := writeEntry(dest, tarReader, header.FileInfo().Mode().Perm()); err != nil {
				return nil, err
			}

			files = append(files, name)
		default:
			// Links and special files are not part of the package format.
			continue
		}
	}

	return files, nil
}

func writeEntry(dest string, reader io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}

	// #nosec G304 -- dest is confined to the slot by the IsLocal check above
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if _, err := io.Copy(out, reader); err != nil {
		_ = out.Close()

		return fmt.Errorf("writing file: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("closing file: %w", err)
	}

	return nil
}
