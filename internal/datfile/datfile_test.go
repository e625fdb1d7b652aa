// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package datfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDat = `<?xml version="1.0"?>
<datafile>
	<header>
		<name>Sega - Game Gear (Retool)</name>
		<description>Sega - Game Gear</description>
		<version>20240101-000000</version>
		<url>https://www.no-intro.org</url>
	</header>
	<game name="Sonic the Hedgehog (World)">
		<rom name="Sonic the Hedgehog (World).gg" size="262144"/>
	</game>
	<game name="Columns (World)">
		<rom name="Columns (World).gg" size="131072"/>
	</game>
</datafile>
`

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Header
	}{
		{
			name: "no-intro header with retool postfix",
			data: sampleDat,
			want: Header{
				System:  "Sega - Game Gear",
				Catalog: "No-Intro",
				Version: "20240101-000000",
				Games:   2,
			},
		},
		{
			name: "redump catalog",
			data: `<datafile><header><name>Sony - PlayStation</name><url>http://redump.org/</url></header></datafile>`,
			want: Header{
				System:  "Sony - PlayStation",
				Catalog: "Redump",
			},
		},
		{
			name: "unknown catalog url",
			data: `<datafile><header><name>Custom Set</name><url>https://example.com</url></header><game name="A"/></datafile>`,
			want: Header{
				System: "Custom Set",
				Games:  1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseHeader([]byte(tt.data), "test.dat")
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseHeader_Malformed(t *testing.T) {
	_, err := parseHeader([]byte("not xml at all <"), "bad.dat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.dat")
}

func TestReadHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gamegear.dat")
	require.NoError(t, os.WriteFile(path, []byte(sampleDat), 0o644))

	h, err := ReadHeader(path)
	require.NoError(t, err)
	assert.Equal(t, "Sega - Game Gear", h.System)
	assert.Equal(t, "No-Intro", h.Catalog)
	assert.Equal(t, 2, h.Games)
}

func TestReadHeader_MissingFile(t *testing.T) {
	_, err := ReadHeader(filepath.Join(t.TempDir(), "absent.dat"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.dat")
}
