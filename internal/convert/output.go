package convert

import (
	"path/filepath"
	"strings"
)

// OutputTarget is the destination path for one conversion
type OutputTarget struct {
	Path string
}

// ResolveOutput derives <base name>.jpg inside outputDir, or beside the
// input when outputDir is empty.
//
// Different inputs that share a base name and output directory resolve to
// the same target; the later write wins. See FindCollisions.
func ResolveOutput(file ConvertibleFile, outputDir string) OutputTarget {
	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(file.Path)
	}

	base := filepath.Base(file.Path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return OutputTarget{Path: filepath.Join(dir, stem+".jpg")}
}

// FindCollisions returns every target claimed by more than one input,
// mapped to those inputs in batch order. It reports only; it never renames.
func FindCollisions(files []ConvertibleFile, outputDir string) map[string][]string {
	owners := make(map[string][]string)
	for _, f := range files {
		target := ResolveOutput(f, outputDir).Path
		owners[target] = append(owners[target], f.Path)
	}

	collisions := make(map[string][]string)
	for target, inputs := range owners {
		if len(inputs) > 1 {
			collisions[target] = inputs
		}
	}
	return collisions
}
