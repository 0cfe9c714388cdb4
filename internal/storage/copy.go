package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
)

// CopyResult summarizes a copy operation.
type CopyResult struct {
	Files   int // files visited
	Changed int // files whose destination bytes changed
}

// WriteIfChanged writes data unless the destination already holds identical
// bytes. It reports whether a write happened.
func WriteIfChanged(ctx context.Context, dst Store, name string, data []byte) (bool, error) {
	if existing, err := dst.Read(ctx, name); err == nil && bytes.Equal(existing, data) {
		return false, nil
	}
	if err := dst.Write(ctx, name, data); err != nil {
		return false, err
	}
	return true, nil
}

// CopyFile byte-copies one document between stores.
func CopyFile(ctx context.Context, src Store, srcName string, dst Store, dstName string) (CopyResult, error) {
	data, err := src.Read(ctx, srcName)
	if err != nil {
		return CopyResult{}, err
	}
	changed, err := WriteIfChanged(ctx, dst, dstName, data)
	if err != nil {
		return CopyResult{}, err
	}
	res := CopyResult{Files: 1}
	if changed {
		res.Changed = 1
	}
	return res, nil
}

// CopyTree recursively copies every file below srcDir into dstDir, preserving
// relative layout and overwriting existing files.
func CopyTree(ctx context.Context, src Store, srcDir string, dst Store, dstDir string) (CopyResult, error) {
	base, err := CleanName(srcDir)
	if err != nil {
		return CopyResult{}, err
	}
	var res CopyResult
	err = src.Walk(ctx, base, func(name string, _ Entry) error {
		rel := name
		if base != "" {
			rel = strings.TrimPrefix(name, base+"/")
		}
		one, err := CopyFile(ctx, src, name, dst, Join(dstDir, rel))
		if err != nil {
			return fmt.Errorf("copy %s: %w", name, err)
		}
		res.Files += one.Files
		res.Changed += one.Changed
		return nil
	})
	return res, err
}
