package filetree

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hayeah/filetree/ignore"
)

// Scan walks rootPath and returns a fully materialized Node tree. Entries
// matching ig are pruned before descent, so an excluded directory's
// contents are never read. Symlinks become leaf nodes and are not
// followed. Every node starts Included; only the root starts Expanded.
//
// A missing or unreadable root is a fatal error. Unreadable
// subdirectories degrade to childless directory nodes so the walk can
// continue.
func Scan(rootPath string, ig *ignore.Ignore) (*Node, error) {
	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, fmt.Errorf("cannot access root %s: %w", rootPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", rootPath)
	}

	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		absPath = rootPath
	}

	root := &Node{
		Path:     ".",
		Name:     filepath.Base(absPath),
		IsDir:    true,
		Included: true,
		Expanded: true,
	}
	scanChildren(rootPath, root, ig)
	return root, nil
}

// scanChildren reads the directory backing parent and appends child nodes,
// recursing into subdirectories. Ordering is directories first, then
// case-insensitive by name.
func scanChildren(rootPath string, parent *Node, ig *ignore.Ignore) {
	entries, err := os.ReadDir(filepath.Join(rootPath, filepath.FromSlash(parent.Path)))
	if err != nil {
		// Unreadable directory: keep the node, leave it childless.
		return
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	for _, entry := range entries {
		relPath := path.Join(parent.Path, entry.Name())

		// A symlink is a leaf even when its target is a directory,
		// which keeps the tree acyclic.
		isDir := entry.IsDir() && entry.Type()&fs.ModeSymlink == 0

		if ig != nil && ig.Match(relPath, isDir) {
			continue
		}

		child := &Node{
			Path:     relPath,
			Name:     entry.Name(),
			IsDir:    isDir,
			Included: true,
		}
		parent.Children = append(parent.Children, child)

		if isDir {
			scanChildren(rootPath, child, ig)
		}
	}
}
