// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan discovers convertible DAT files under an input root.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// datExt is the extension that marks a file as convertible. The match is a
// case-sensitive suffix check, not a shell glob.
const datExt = ".dat"

// Discover lists the .dat files directly under inputDir, sorted
// lexicographically by name, and returns their full paths. Subdirectories
// are not descended into. An empty result is not an error. filter, when
// non-empty, keeps only files whose name contains it case-insensitively.
func Discover(inputDir, filter string) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", inputDir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, datExt) {
			continue
		}
		if filter != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(filter)) {
			continue
		}
		files = append(files, filepath.Join(inputDir, name))
	}

	// os.ReadDir sorts by filename; discovery order is lexicographic.
	return files, nil
}

// BaseName strips the final extension from a file path's base component.
// "report.v1.dat" yields "report.v1"; a name with no dot is returned whole.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
