// SPDX-License-Identifier: MPL-2.0

package compendium

import (
	"context"
	"fmt"
	"os"
	"strings"

	"mythicrealms-cli/pkg/entry"
	"mythicrealms-cli/pkg/fspath"
	"mythicrealms-cli/pkg/manifest"
	"mythicrealms-cli/pkg/platform"
	"mythicrealms-cli/pkg/types"
)

const (
	folderFileName    = "_folder.yml"
	containerFileName = "_container.yml"
	entryExt          = ".yml"
)

type (
	// node is a folder or container discovered in a compiled pack.
	node struct {
		slug   string
		parent string // parent folder id for folders, parent container id for containers
		folder string // owning folder id, containers only
		path   string // resolved relative directory, slash separated
	}

	// index holds the folder and container nodes of one compiled pack.
	index struct {
		folders    map[string]*node
		containers map[string]*node
	}
)

// Extract writes every entry of the compiled packs declared in the system
// manifest back into the source tree, one YAML file per entry, nested by
// folder and container. pack and entryName restrict the packs and entries
// extracted; an unknown pack name is an error.
func (t *Tool) Extract(ctx context.Context, pack, entryName string) error {
	sys, err := manifest.LoadPacks(t.path(t.manifest))
	if err != nil {
		return err
	}

	packs := sys.Packs
	if pack != "" {
		p, ok := sys.PackNamed(pack)
		if !ok {
			return fmt.Errorf("pack %q is not declared in %s", pack, t.manifest)
		}
		packs = []manifest.Pack{p}
	}

	for _, p := range packs {
		if err := ctx.Err(); err != nil {
			return err
		}
		t.logger.Info("Extracting pack", "pack", p.Name)
		if err := t.extractPack(ctx, p, entryName); err != nil {
			return fmt.Errorf("pack %s: %w", p.Name, err)
		}
	}
	return nil
}

func (t *Tool) extractPack(ctx context.Context, p manifest.Pack, entryName string) (err error) {
	store, err := OpenStore(t.format, t.path(p.Path), ModeRead)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	entries, err := store.Entries()
	if err != nil {
		return err
	}

	idx := buildIndex(entries)
	idx.resolve()

	dest := fspath.JoinStr(types.FilesystemPath(t.SourceDir()), p.Name)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !matchesName(e, entryName) {
			continue
		}

		entry.Normalize(e)
		target, err := fspath.JoinWithin(dest, idx.fileName(e))
		if err != nil {
			return err
		}
		if err := writeEntry(target, e); err != nil {
			return err
		}
		t.logger.Debug("Extracted", "key", e.Key, "file", target)
	}
	return nil
}

// buildIndex records every folder and container without writing anything.
func buildIndex(entries []*entry.Entry) *index {
	idx := &index{
		folders:    make(map[string]*node),
		containers: make(map[string]*node),
	}
	for _, e := range entries {
		switch {
		case e.IsFolder():
			idx.folders[e.ID] = &node{slug: slugFor(e), parent: e.FolderID()}
		case e.IsContainer():
			idx.containers[e.ID] = &node{slug: slugFor(e), parent: e.ContainerID(), folder: e.FolderID()}
		}
	}
	return idx
}

// resolve computes the nested path of every node. Folders chain through
// folders; containers chain through containers and are then placed inside
// their owning folder. A parent chain that loops stops at the repeat.
func (idx *index) resolve() {
	for _, n := range idx.folders {
		n.path = chainPath(idx.folders, n)
	}
	for _, n := range idx.containers {
		n.path = chainPath(idx.containers, n)
		if f, ok := idx.folders[n.folder]; ok {
			n.path = f.path + "/" + n.path
		}
	}
}

func chainPath(nodes map[string]*node, n *node) string {
	path := n.slug
	seen := map[*node]bool{n: true}
	for parent := nodes[n.parent]; parent != nil && !seen[parent]; parent = nodes[parent.parent] {
		seen[parent] = true
		path = parent.slug + "/" + path
	}
	return path
}

// fileName returns the slash separated destination of e inside its pack.
func (idx *index) fileName(e *entry.Entry) string {
	if n, ok := idx.folders[e.ID]; ok && e.IsFolder() {
		return n.path + "/" + folderFileName
	}
	if n, ok := idx.containers[e.ID]; ok && e.IsContainer() {
		return n.path + "/" + containerFileName
	}

	name := slugFor(e) + entryExt
	if n, ok := idx.containers[e.ContainerID()]; ok {
		return n.path + "/" + name
	}
	if n, ok := idx.folders[e.FolderID()]; ok {
		return n.path + "/" + name
	}
	return name
}

// slugFor returns the file-safe name of e, falling back to its id when the
// name has no usable characters. Names reserved on Windows get the id
// appended so extracted trees check out everywhere.
func slugFor(e *entry.Entry) string {
	slug := fspath.Slugify(e.Name)
	switch {
	case slug == "":
		return e.ID
	case platform.IsWindowsReservedName(slug):
		return slug + "-" + strings.ToLower(e.ID)
	}
	return slug
}

func writeEntry(path types.FilesystemPath, e *entry.Entry) error {
	out, err := e.EncodeYAML()
	if err != nil {
		return err
	}
	dir := fspath.Dir(path)
	if err := os.MkdirAll(dir.String(), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := os.WriteFile(path.String(), out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
