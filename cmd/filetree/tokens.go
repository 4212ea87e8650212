package main

import (
	"fmt"
	"io/fs"

	"github.com/pkoukk/tiktoken-go"
)

// TokenEstimator is a function type that estimates token count for a file
type TokenEstimator func(fsys fs.FS, filePath string) (int, error)

func newTokenEstimator(name string) (TokenEstimator, error) {
	switch name {
	case "simple":
		return estimateTokenCountSimple, nil
	case "tiktoken":
		return estimateTokenCountTiktoken, nil
	default:
		return nil, fmt.Errorf("unknown token estimator: %s", name)
	}
}

// estimateTokenCountSimple approximates the token count as size/4.
func estimateTokenCountSimple(fsys fs.FS, filePath string) (int, error) {
	info, err := fs.Stat(fsys, filePath)
	if err != nil {
		return 0, err
	}
	return int(info.Size() / 4), nil
}

// estimateTokenCountTiktoken counts tokens using the tiktoken-go library
func estimateTokenCountTiktoken(fsys fs.FS, filePath string) (int, error) {
	content, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return 0, err
	}

	tke, err := tiktoken.GetEncoding("cl100k_base") // Using the same encoding as GPT-4
	if err != nil {
		return 0, fmt.Errorf("failed to get tiktoken encoding: %v", err)
	}

	return len(tke.Encode(string(content), nil, nil)), nil
}
