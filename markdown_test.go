package filetree

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, dir string, root *Node, opts RenderOptions) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, WriteMarkdown(&sb, os.DirFS(dir), root, opts))
	return sb.String()
}

func TestRenderOmitUnselected(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "alpha\n")
	writeFile(t, dir, "b.txt", "beta\n")

	root, err := Scan(dir, newIgnore(t, dir))
	require.NoError(t, err)
	root.Find("b.txt").Toggle()

	out := render(t, dir, root, RenderOptions{ShowUnselected: false})

	assert.Contains(out, "a.txt")
	assert.NotContains(out, "b.txt", "omit policy drops unselected entries from the diagram")
	assert.Contains(out, "alpha")
	assert.NotContains(out, "beta", "content sections only cover included files")
}

func TestRenderShowUnselected(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "alpha\n")
	writeFile(t, dir, "b.txt", "beta\n")

	root, err := Scan(dir, newIgnore(t, dir))
	require.NoError(t, err)
	root.Find("b.txt").Toggle()

	out := render(t, dir, root, RenderOptions{ShowUnselected: true})

	assert.Contains(out, MarkerIncluded+" a.txt")
	assert.Contains(out, MarkerExcluded+" b.txt", "unselected entries appear name-only with the excluded marker")
	assert.NotContains(out, "beta", "a name-only entry still contributes no content section")
}

// Every scanned path appears exactly once in the diagram under the
// show-unselected policy.
func TestRenderShowUnselectedRoundTrip(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "alpha\n")
	writeFile(t, dir, "sub/b.txt", "beta\n")
	writeFile(t, dir, "sub/deep/c.txt", "gamma\n")

	root, err := Scan(dir, newIgnore(t, dir))
	require.NoError(t, err)
	root.Find("sub").Toggle()

	out := render(t, dir, root, RenderOptions{ShowUnselected: true})
	diagram := strings.SplitN(out, "---", 2)[0]

	for _, name := range []string{"a.txt", "sub/", "b.txt", "deep/", "c.txt"} {
		assert.Equal(1, strings.Count(diagram, " "+name+"\n"), "%s should appear exactly once", name)
	}
}

// An unselected directory with an included descendant is kept as a
// structural row (with the excluded marker); a wholly unselected subtree
// disappears; an included empty directory always appears.
func TestRenderOmitUnselectedDirectoryRule(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	writeFile(t, dir, "keep/wanted.txt", "w\n")
	writeFile(t, dir, "keep/junk.txt", "j\n")
	writeFile(t, dir, "drop/trash.txt", "t\n")

	root, err := Scan(dir, newIgnore(t, dir))
	require.NoError(t, err)
	root.Find("keep").Toggle() // unselect keep/ and both children
	root.Find("keep/wanted.txt").Toggle()
	root.Find("drop").Toggle()

	out := render(t, dir, root, RenderOptions{ShowUnselected: false})

	assert.Contains(out, MarkerExcluded+" keep/", "structural directory keeps the excluded marker")
	assert.Contains(out, MarkerIncluded+" wanted.txt")
	assert.NotContains(out, "junk.txt")
	assert.NotContains(out, "drop", "a fully unselected subtree vanishes")
}

func TestRenderEmptyDirectory(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(dir+"/empty", 0o755))

	root, err := Scan(dir, newIgnore(t, dir))
	require.NoError(t, err)

	out := render(t, dir, root, RenderOptions{ShowUnselected: false})
	assert.Contains(out, MarkerIncluded+" empty/", "included empty directories stay in the diagram")
	assert.NotContains(out, "### ", "directories never get content sections")
}

// A file that cannot be read becomes an inline note; the rest of the
// render still succeeds.
func TestRenderUnreadableFile(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	writeFile(t, dir, "good.txt", "fine\n")
	writeFile(t, dir, "gone.txt", "soon removed\n")

	root, err := Scan(dir, newIgnore(t, dir))
	require.NoError(t, err)

	// Deleted between scan and render, the same failure mode as a
	// permission error at read time.
	require.NoError(t, os.Remove(dir+"/gone.txt"))

	out := render(t, dir, root, RenderOptions{})
	assert.Contains(out, "_Error reading file:")
	assert.Contains(out, "fine", "other files still render")
}

func TestRenderBinaryPlaceholder(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/blob.bin", []byte{0x00, 0x01, 0xff, 0xfe, 0x00, 0x02}, 0o644))

	root, err := Scan(dir, newIgnore(t, dir))
	require.NoError(t, err)

	out := render(t, dir, root, RenderOptions{})
	assert.Contains(out, "_Binary file — content not embedded._")
	assert.NotContains(out, "\x00")
}

func TestRenderTruncation(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	writeFile(t, dir, "big.txt", strings.Repeat("a", 120))

	root, err := Scan(dir, newIgnore(t, dir))
	require.NoError(t, err)

	out := render(t, dir, root, RenderOptions{MaxBytes: 40})
	assert.Contains(out, "_...truncated at 40 bytes_")
	assert.NotContains(out, strings.Repeat("a", 50))
}

func TestRenderIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.go", "package a\n")
	writeFile(t, dir, "sub/b.md", "# b\n")

	root, err := Scan(dir, newIgnore(t, dir))
	require.NoError(t, err)
	root.Find("sub/b.md").Toggle()

	opts := RenderOptions{ShowUnselected: true, MaxBytes: 1000}
	assert.Equal(t, render(t, dir, root, opts), render(t, dir, root, opts),
		"rendering twice from identical state must be byte-identical")
}

func TestRenderLanguageFences(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n")
	writeFile(t, dir, "notes.weird", "plain\n")

	root, err := Scan(dir, newIgnore(t, dir))
	require.NoError(t, err)

	out := render(t, dir, root, RenderOptions{})
	assert.Contains(out, "```go\npackage main")
	assert.Contains(out, "```\nplain", "unknown extensions get a bare fence")
}

func TestIsBinary(t *testing.T) {
	assert := assert.New(t)
	assert.False(IsBinary(nil))
	assert.False(IsBinary([]byte("hello world\n")))
	assert.False(IsBinary([]byte("héllo wörld ünïcode\n")))
	assert.True(IsBinary([]byte{0x00, 0x01, 0x02, 0x03, 0xff}))
}

func TestLanguageForPath(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("go", LanguageForPath("cmd/main.go"))
	assert.Equal("yaml", LanguageForPath("config.YML"))
	assert.Equal("", LanguageForPath("LICENSE"))
}
