package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// scriptFile is the script on disk. Load re-reads it for every run and
// keeps the text it returned so failures can be shown against the source
// that produced them.
type scriptFile struct {
	path string

	mu     sync.Mutex
	source string
}

func openScript(path string) (*scriptFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve script path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("read script: %s is a directory", abs)
	}
	return &scriptFile{path: abs}, nil
}

func (f *scriptFile) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	f.mu.Lock()
	f.source = string(data)
	f.mu.Unlock()
	return string(data), nil
}

// Source returns the text of the most recent Load.
func (f *scriptFile) Source() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.source
}

func (f *scriptFile) Name() string {
	return filepath.Base(f.path)
}
