package resource

import (
	"bufio"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Registered for header-only dimension sniffing via image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// defaultExtensions are the file extensions recognized as browsable images.
var defaultExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".webp": true,
	".ico":  true,
	".svg":  true,
}

// ScanOptions control resource discovery.
type ScanOptions struct {
	// Recursive searches subdirectories.
	Recursive bool

	// ExcludePatterns are glob patterns matched against file names.
	ExcludePatterns []string

	// ExtraExtensions extends the default extension allowlist.
	ExtraExtensions []string
}

// Scan collects resources from the given paths. Each path may be a
// directory, a single file, or an @response file listing one path per line.
// Duplicates (after resolving) are dropped, discovery order is preserved.
func Scan(paths []string, opts ScanOptions) (*List, error) {
	exts := allowedExtensions(opts.ExtraExtensions)

	var items []Descriptor
	for _, arg := range paths {
		if strings.HasPrefix(arg, "@") {
			found, err := scanResponseFile(arg[1:], exts)
			if err != nil {
				return nil, err
			}
			items = append(items, found...)
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("resource path %s: %w", arg, err)
		}

		if info.IsDir() {
			found, err := scanDir(arg, opts, exts)
			if err != nil {
				return nil, err
			}
			items = append(items, found...)
		} else if exts[strings.ToLower(filepath.Ext(arg))] && !excluded(filepath.Base(arg), opts.ExcludePatterns) {
			items = append(items, describe(arg, info))
		}
	}

	return NewList(dedupe(items)), nil
}

// scanDir walks a directory for resources, optionally recursing.
func scanDir(dir string, opts ScanOptions, exts map[string]bool) ([]Descriptor, error) {
	var items []Descriptor

	walk := func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if !opts.Recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if !exts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if excluded(entry.Name(), opts.ExcludePatterns) {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		items = append(items, describe(path, info))
		return nil
	}

	if err := filepath.WalkDir(dir, walk); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	return items, nil
}

// scanResponseFile reads a file of resource paths, one per line.
// Blank lines and lines starting with # are skipped; missing entries are
// ignored rather than failing the whole load.
func scanResponseFile(path string, exts map[string]bool) ([]Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("response file %s: %w", path, err)
	}
	defer f.Close()

	var items []Descriptor
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		info, err := os.Stat(line)
		if err != nil || info.IsDir() {
			continue
		}
		if exts[strings.ToLower(filepath.Ext(line))] {
			items = append(items, describe(line, info))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("response file %s: %w", path, err)
	}
	return items, nil
}

// describe builds a descriptor, sniffing dimensions from the file header
// when the format is supported. Dimension failures are not errors.
func describe(path string, info os.FileInfo) Descriptor {
	d := Descriptor{
		Name: filepath.Base(path),
		Path: path,
		Size: info.Size(),
	}
	if abs, err := filepath.Abs(path); err == nil {
		d.AbsPath = abs
	} else {
		d.AbsPath = path
	}
	if w, h, ok := sniffDimensions(path); ok {
		d.Width, d.Height = w, h
	}
	return d
}

// sniffDimensions reads only the image header to get pixel dimensions.
func sniffDimensions(path string) (int, int, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, false
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}

func allowedExtensions(extra []string) map[string]bool {
	exts := make(map[string]bool, len(defaultExtensions)+len(extra))
	for ext := range defaultExtensions {
		exts[ext] = true
	}
	for _, ext := range extra {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = true
	}
	return exts
}

func excluded(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}

func dedupe(items []Descriptor) []Descriptor {
	seen := make(map[string]bool, len(items))
	result := items[:0]
	for _, d := range items {
		if seen[d.AbsPath] {
			continue
		}
		seen[d.AbsPath] = true
		result = append(result, d)
	}
	return result
}
