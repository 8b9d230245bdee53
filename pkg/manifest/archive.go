// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/exp/slices"
)

// ArchiveFiles lists the paths, relative to root, that make up a release
// archive: the manifest file manifestName, every esmodule and its source map, styles, pack
// paths, language files, then the platform includes. Includes containing
// glob meta characters are expanded against root. The result keeps first
// occurrence order and holds no duplicates.
func ArchiveFiles(manifestName string, sys *System, platform *PlatformConfig, root string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(p string) {
		p = filepath.ToSlash(filepath.Clean(p))
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	add(manifestName)
	for _, m := range sys.ESModules {
		add(m)
	}
	for _, m := range sys.ESModules {
		add(m + ".map")
	}
	for _, s := range sys.Styles {
		add(s)
	}
	for _, p := range sys.Packs {
		add(p.Path)
	}
	for _, l := range sys.Languages {
		add(l.Path)
	}

	if platform == nil {
		return files, nil
	}
	fsys := os.DirFS(root)
	for _, inc := range platform.Includes {
		pattern := filepath.ToSlash(inc)
		if !isGlob(pattern) {
			add(pattern)
			continue
		}
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", inc, err)
		}
		slices.Sort(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return files, nil
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
