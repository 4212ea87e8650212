package main

import (
	"log"

	"github.com/alexflint/go-arg"
)

// Args defines the command-line flags. Every option doubles as an
// environment variable, so `OUTPUT=tree.md filetree` and
// `filetree --output tree.md` are equivalent.
type Args struct {
	Output         string `arg:"--output,env:OUTPUT" default:"FILETREE.md" help:"output file path; overwritten if it already exists"`
	Excludes       string `arg:"--excludes,env:EXCLUDES" help:"comma-separated names/globs to prune entirely (default: .git,node_modules,__pycache__,.venv,.mypy_cache)"`
	IncludeHidden  bool   `arg:"--include-hidden,env:INCLUDE_HIDDEN" default:"true" help:"include dotfiles in the scan"`
	MaxBytes       int    `arg:"--max-bytes,env:MAX_BYTES" default:"300000" help:"per-file content cap in the generated Markdown"`
	Gitignore      bool   `arg:"--gitignore,env:GITIGNORE" help:"additionally prune paths ignored by .gitignore"`
	TokenEstimator string `arg:"--token-estimator,env:TOKEN_ESTIMATOR" default:"simple" help:"token count estimator: 'simple' (size/4) or 'tiktoken'"`
	Copy           bool   `arg:"-c,--copy" help:"also copy the generated Markdown to the clipboard"`
	All            bool   `arg:"-a,--all" help:"skip the UI: select every file and generate immediately"`
}

// main is our entrypoint: parse args, run against the current working
// directory. Exit status is 0 on generation or deliberate cancellation,
// non-zero on fatal errors.
func main() {
	var args Args
	arg.MustParse(&args)

	runner, err := NewRunner(args, ".")
	if err != nil {
		log.Fatal(err)
	}
	if err := runner.Run(); err != nil {
		log.Fatal(err)
	}
}
