package util

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v6/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptinessChecks(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank(" \t\n"))
	assert.False(t, IsBlank(" x "))

	var nilSlice []int
	assert.True(t, IsNilOrEmpty(nilSlice))
	assert.True(t, IsNilOrEmpty([]string{}))
	assert.False(t, IsNilOrEmpty([]string{"a"}))

	var nilMap map[string]int
	assert.True(t, IsEmptyMap(nilMap))
	assert.False(t, IsEmptyMap(map[string]int{"a": 1}))

	var p *int
	assert.True(t, IsNil(nil))
	assert.True(t, IsNil(p))
	assert.False(t, IsNil(0))
	assert.False(t, IsNil(""))
}

func TestCompactDropsNilPointers(t *testing.T) {
	a, b := 1, 2
	got := Compact([]*int{nil, &a, nil, &b})
	require.Len(t, got, 2)
	assert.Equal(t, 1, *got[0])
	assert.Equal(t, 2, *got[1])
	assert.NotNil(t, Compact[int](nil))
}

func TestBase64(t *testing.T) {
	assert.Equal(t, "", ToBase64(""))
	enc := ToBase64("hello world")
	assert.Equal(t, "aGVsbG8gd29ybGQ=", enc)

	dec, err := FromBase64(enc)
	require.NoError(t, err)
	assert.Equal(t, "hello world", dec)

	_, err = FromBase64("%%%")
	assert.Error(t, err)
}

func TestToBytes(t *testing.T) {
	b, err := ToBytes(nil)
	require.NoError(t, err)
	assert.Empty(t, b)

	b, err = ToBytes(strings.NewReader("payload"))
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), b)
}

func TestToFileRewindsSeekableReader(t *testing.T) {
	fs := memfs.New()
	r := bytes.NewReader([]byte("row1\nrow2\n"))
	_, _ = io.ReadAll(r)

	require.NoError(t, ToFile(fs, "out", "rows.tsv", r))

	f, err := fs.Open(fs.Join("out", "rows.tsv"))
	require.NoError(t, err)
	defer f.Close()
	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "row1\nrow2\n", string(got))
}

func TestToFileTruncatesExisting(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, ToFile(fs, "", "a.txt", strings.NewReader("a much longer body")))
	require.NoError(t, ToFile(fs, "", "a.txt", strings.NewReader("short")))

	f, err := fs.Open("a.txt")
	require.NoError(t, err)
	defer f.Close()
	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "short", string(got))
}

func TestCompare(t *testing.T) {
	assert.True(t, Equal(3, 3))
	assert.False(t, Equal("a", "b"))
	assert.True(t, Less(1.5, 2.0))
	assert.False(t, Less(2, 2))
	assert.True(t, Greater(int64(9), int64(2)))
	assert.False(t, Greater("a", "b"))
}

func TestText(t *testing.T) {
	assert.Equal(t, "a b c", CollapseSpaces("a   b  c"))
	assert.Equal(t, "Hello", Capitalize("hello"))
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "abc", StripDigits("a1-b2c3"))

	assert.True(t, IsValidEmail("dev@example.com"))
	assert.False(t, IsValidEmail("dev@"))
	assert.False(t, IsValidEmail(""))

	assert.True(t, IsValidURL("https://example.com/x"))
	assert.False(t, IsValidURL("ftp://example.com"))
	assert.False(t, IsValidURL("/relative"))
}
