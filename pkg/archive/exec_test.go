package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sltSample = `
7-Zip [64] 17.04 : Copyright (c) 1999-2021 Igor Pavlov : 2017-08-28

Listing archive: sample.cab

--
Path = sample.cab
Type = Cab
Physical Size = 2048

----------
Path = docs\readme.txt
Folder = -
Size = 1024
Packed Size = 512
Modified = 2024-03-01 12:00:00
Attributes = A
Method = MSZip

Path = docs
Folder = +
Size = 0
Packed Size = 0
Modified = 2024-03-01 12:00:00
Attributes = D

Path = broken.bin
Folder = -
Size = oops
Modified = sometime
`

func TestParseSltListing(t *testing.T) {
	entries, err := parseSltListing([]byte(sltSample), "cab")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	file := entries[0]
	assert.Equal(t, "docs/readme.txt", file.InnerPath)
	assert.Equal(t, "readme.txt", file.Name)
	assert.Equal(t, TypeFile, file.Type)
	assert.Equal(t, int64(1024), file.Size)
	assert.Equal(t, int64(512), file.CompressedSize)
	assert.Equal(t, "MSZip", file.Compression)
	assert.NotZero(t, file.Modified)

	dir := entries[1]
	assert.Equal(t, "docs", dir.InnerPath)
	assert.Equal(t, TypeDirectory, dir.Type)
	assert.Zero(t, dir.Size)
	assert.Equal(t, "cab", dir.Compression)

	// malformed numeric and time fields degrade to zero
	broken := entries[2]
	assert.Equal(t, "broken.bin", broken.InnerPath)
	assert.Zero(t, broken.Size)
	assert.Zero(t, broken.Modified)
}

func TestParseSltListingDirByAttributes(t *testing.T) {
	sample := "----------\nPath = legacy\nAttributes = D....\nSize = 0\n"
	entries, err := parseSltListing([]byte(sample), "arj")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, TypeDirectory, entries[0].Type)
}

func TestParseSltListingNoBanner(t *testing.T) {
	_, err := parseSltListing([]byte("garbage output without a listing"), "lzh")
	assert.ErrorIs(t, err, ErrBackendProcess)
}

func TestSltListingThroughChildIndex(t *testing.T) {
	entries, err := parseSltListing([]byte(sltSample), "cab")
	require.NoError(t, err)

	idx := newChildIndex("")
	for _, e := range entries {
		idx.add(e)
	}
	listing := idx.listing("sample.cab", FormatCab)

	require.Len(t, listing.Entries, 2)
	assert.Equal(t, "docs", listing.Entries[0].Name)
	assert.Equal(t, TypeDirectory, listing.Entries[0].Type)
	assert.Equal(t, "broken.bin", listing.Entries[1].Name)
	assert.Equal(t, TypeFile, listing.Entries[1].Type)
}
