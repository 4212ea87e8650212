package filetree

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Markers distinguishing included from excluded entries in the tree
// diagram.
const (
	MarkerIncluded = "◉"
	MarkerExcluded = "◯"
)

// RenderOptions control WriteMarkdown.
type RenderOptions struct {
	// ShowUnselected keeps unselected entries in the tree diagram, marked
	// with MarkerExcluded. When false, unselected entries are omitted
	// along with any directory whose entire subtree renders nothing.
	ShowUnselected bool

	// MaxBytes caps the content embedded per file; 0 means unlimited.
	// Truncated files get a trailing note.
	MaxBytes int
}

// WriteMarkdown renders root as a Markdown document: a fenced tree diagram
// followed by one section per included file, reading contents from fsys
// (rooted at the scan root). It is a pure function of its inputs; a file
// that cannot be read or looks binary becomes an inline placeholder note
// rather than an error.
func WriteMarkdown(w io.Writer, fsys fs.FS, root *Node, opts RenderOptions) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# File Tree for `%s`\n\n", root.Name)

	sb.WriteString("```\n")
	sb.WriteString(root.Name + "\n")
	writeTreeLevel(&sb, root, "", opts)
	sb.WriteString("```\n")

	sb.WriteString("\n---\n\n## Selected files\n")
	for _, f := range root.Files() {
		if !f.Included {
			continue
		}
		fmt.Fprintf(&sb, "\n### `%s`\n\n", f.Path)
		writeFileSection(&sb, fsys, f.Path, opts.MaxBytes)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// renders reports whether n appears in the tree diagram: always under the
// show-unselected policy, otherwise when n or any descendant is included.
// An unselected directory kept only because of an included descendant
// still renders (with the excluded marker); one whose subtree is wholly
// unselected disappears.
func renders(n *Node, showUnselected bool) bool {
	if showUnselected || n.Included {
		return true
	}
	for _, c := range n.Children {
		if renders(c, showUnselected) {
			return true
		}
	}
	return false
}

func writeTreeLevel(sb *strings.Builder, parent *Node, prefix string, opts RenderOptions) {
	var visible []*Node
	for _, c := range parent.Children {
		if renders(c, opts.ShowUnselected) {
			visible = append(visible, c)
		}
	}

	for i, c := range visible {
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(visible)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}

		marker := MarkerExcluded
		if c.Included {
			marker = MarkerIncluded
		}
		name := c.Name
		if c.IsDir {
			name += "/"
		}
		fmt.Fprintf(sb, "%s%s%s %s\n", prefix, connector, marker, name)

		if c.IsDir {
			writeTreeLevel(sb, c, childPrefix, opts)
		}
	}
}

// writeFileSection embeds one file's content as a fenced code block, or a
// placeholder note when the file is binary or unreadable.
func writeFileSection(sb *strings.Builder, fsys fs.FS, relPath string, maxBytes int) {
	content, err := fs.ReadFile(fsys, relPath)
	if err != nil {
		fmt.Fprintf(sb, "_Error reading file: %v_\n", err)
		return
	}

	if IsBinary(content) {
		sb.WriteString("_Binary file — content not embedded._\n")
		return
	}

	truncated := maxBytes > 0 && len(content) > maxBytes
	if truncated {
		content = content[:maxBytes]
	}

	fmt.Fprintf(sb, "```%s\n", LanguageForPath(relPath))
	sb.Write(content)
	if len(content) > 0 && content[len(content)-1] != '\n' {
		sb.WriteByte('\n')
	}
	sb.WriteString("```\n")
	if truncated {
		fmt.Fprintf(sb, "_...truncated at %d bytes_\n", maxBytes)
	}
}

// IsBinary checks if content is likely binary by sampling the first 100
// runes and checking whether they are printable.
func IsBinary(content []byte) bool {
	const sampleSize = 100
	var nonPrintable int
	var totalRunes int

	for i := 0; i < len(content) && totalRunes < sampleSize; {
		r, size := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError {
			nonPrintable++
		} else if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			nonPrintable++
		}
		i += size
		totalRunes++
	}

	if totalRunes == 0 {
		return false // empty file, not binary
	}
	return float64(nonPrintable)/float64(totalRunes) > 0.1
}

// LanguageForPath returns the fenced-code-block language tag for a file
// path, or "" when the extension isn't recognized.
func LanguageForPath(relPath string) string {
	switch strings.ToLower(path.Ext(relPath)) {
	case ".go":
		return "go"
	case ".js":
		return "javascript"
	case ".py":
		return "python"
	case ".rb":
		return "ruby"
	case ".java":
		return "java"
	case ".c", ".cpp", ".h", ".hpp":
		return "cpp"
	case ".cs":
		return "csharp"
	case ".php":
		return "php"
	case ".ts":
		return "typescript"
	case ".html":
		return "html"
	case ".css":
		return "css"
	case ".md":
		return "markdown"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	case ".sh", ".bash":
		return "bash"
	case ".sql":
		return "sql"
	default:
		return ""
	}
}
