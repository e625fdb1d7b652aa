// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package datfile reads the header of a Logiqx-style DAT file for display
// purposes. The DAT body (game entries and their ROM records) belongs to the
// converter; this package only surfaces what a scan listing needs.
package datfile

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

// catalogURLs maps the header URL to a known catalog name.
var catalogURLs = map[string]string{
	"https://www.no-intro.org": "No-Intro",
	"http://redump.org/":       "Redump",
}

// namePostfixes are trailing decorations stripped from the system name.
var namePostfixes = []string{
	" (Retool)",
}

// Header summarizes a DAT file.
type Header struct {
	// System is the system name from the DAT header, postfixes stripped.
	System string `json:"system" yaml:"system"`

	// Catalog is the catalog the DAT belongs to ("No-Intro", "Redump"),
	// or empty when the header URL is not recognized.
	Catalog string `json:"catalog,omitempty" yaml:"catalog,omitempty"`

	// Version is the DAT version string, if present.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Games is the number of game entries in the DAT.
	Games int `json:"games" yaml:"games"`
}

// datafile mirrors the parts of the Logiqx DAT schema we read.
type datafile struct {
	Header struct {
		Name    string `xml:"name"`
		Version string `xml:"version"`
		URL     string `xml:"url"`
	} `xml:"header"`
	Games []struct {
		Name string `xml:"name,attr"`
	} `xml:"game"`
}

// ReadHeader parses the DAT file at path and returns its header summary.
func ReadHeader(path string) (*Header, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading DAT file %s: %w", path, err)
	}
	return parseHeader(data, path)
}

func parseHeader(data []byte, path string) (*Header, error) {
	var df datafile
	if err := xml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parsing DAT file %s: %w", path, err)
	}

	system := df.Header.Name
	for _, fix := range namePostfixes {
		system = strings.ReplaceAll(system, fix, "")
	}

	return &Header{
		System:  system,
		Catalog: catalogURLs[strings.TrimSpace(df.Header.URL)],
		Version: df.Header.Version,
		Games:   len(df.Games),
	}, nil
}
