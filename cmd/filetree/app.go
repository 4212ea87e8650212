package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/hayeah/filetree"
	"github.com/hayeah/filetree/ignore"
)

// Runner encapsulates the state and behavior for one run: scan the root,
// drive the selection UI, render and write the output file.
type Runner struct {
	Args           Args
	RootPath       string
	Root           *filetree.Node
	TokenEstimator TokenEstimator
}

// NewRunner validates the root, builds the exclusion set and scans the
// tree. Scan errors here are fatal: the UI never starts.
func NewRunner(args Args, rootPath string) (*Runner, error) {
	estimator, err := newTokenEstimator(args.TokenEstimator)
	if err != nil {
		return nil, err
	}

	ig, err := ignore.New(rootPath, ignore.Options{
		Patterns:      excludePatterns(args.Excludes),
		IncludeHidden: args.IncludeHidden,
		UseGitignore:  args.Gitignore,
	})
	if err != nil {
		return nil, err
	}

	root, err := filetree.Scan(rootPath, ig)
	if err != nil {
		return nil, err
	}

	return &Runner{
		Args:           args,
		RootPath:       rootPath,
		Root:           root,
		TokenEstimator: estimator,
	}, nil
}

// excludePatterns splits the comma-separated EXCLUDES value, falling back
// to the defaults when it is empty.
func excludePatterns(excludes string) []string {
	if excludes == "" {
		return ignore.DefaultExcludes
	}
	var patterns []string
	for _, p := range strings.Split(excludes, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// Run drives the interactive selection, then renders and writes the
// output. A user abort returns nil without writing anything.
func (r *Runner) Run() error {
	opts := filetree.RenderOptions{
		ShowUnselected: true,
		MaxBytes:       r.Args.MaxBytes,
	}

	if !r.Args.All {
		outcome, err := selectInteractively(r.Root, r.TokenEstimator, os.DirFS(r.RootPath))
		if err != nil {
			return err
		}
		if outcome.Aborted {
			fmt.Fprintln(os.Stderr, "aborted, no output written")
			return nil
		}
		opts.ShowUnselected = outcome.ShowUnselected
	}

	var sb strings.Builder
	if err := filetree.WriteMarkdown(&sb, os.DirFS(r.RootPath), r.Root, opts); err != nil {
		return err
	}
	md := sb.String()

	if err := os.WriteFile(r.Args.Output, []byte(md), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.Args.Output, err)
	}

	if r.Args.Copy {
		if err := clipboard.WriteAll(md); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
	}

	fmt.Fprintf(os.Stderr, "wrote %s\n", r.Args.Output)
	return nil
}
