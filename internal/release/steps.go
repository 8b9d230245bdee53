// SPDX-License-Identifier: MPL-2.0

package release

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/exp/slices"

	"mythicrealms-cli/internal/runner"
	"mythicrealms-cli/pkg/manifest"
)

// npmInstallVerbs are the npm subcommands that run package lifecycle scripts.
var npmInstallVerbs = []string{"ci", "install", "i"}

func (b *Builder) prepare(context.Context) error {
	b.logger.Info("Cleaning existing output", "dir", b.out)
	if err := os.RemoveAll(b.out); err != nil {
		return fmt.Errorf("failed to remove %s: %w", b.out, err)
	}
	if err := os.MkdirAll(b.out, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", b.out, err)
	}
	return nil
}

func (b *Builder) checkout(ctx context.Context) error {
	b.logger.Info("Cloning repository", "repo", b.opts.Repo, "tag", b.opts.Tag)
	return b.runner.Run(ctx, runner.Command{
		Name: "git",
		Args: []string{"clone", "-b", b.opts.Tag, "--depth", "1", b.opts.Repo, b.out},
	})
}

func (b *Builder) install(ctx context.Context) error {
	b.logger.Info("Installing dependencies")
	cmd, err := runner.ParseCommand(b.opts.InstallCommand)
	if err != nil {
		return err
	}
	cmd.Args = withIgnoreScripts(cmd)
	cmd.Dir = b.out
	return b.runner.Run(ctx, cmd)
}

// withIgnoreScripts appends --ignore-scripts to npm installs that lack it.
func withIgnoreScripts(cmd runner.Command) []string {
	if cmd.Name != "npm" || len(cmd.Args) == 0 || !slices.Contains(npmInstallVerbs, cmd.Args[0]) {
		return cmd.Args
	}
	if slices.Contains(cmd.Args, "--ignore-scripts") {
		return cmd.Args
	}
	return append(slices.Clone(cmd.Args), "--ignore-scripts")
}

func (b *Builder) compileManifest(context.Context) error {
	b.logger.Info("Compiling system manifest")
	return manifest.Compile(manifest.CompileOptions{
		SystemPath: filepath.Join(b.out, b.opts.Manifest),
		FreePath:   filepath.Join(b.opts.FreeRules, manifest.FreeFileName),
		Tag:        b.opts.Tag,
		BaseURL:    b.opts.URL,
		SystemName: b.opts.SystemName,
		FlagScope:  b.opts.FlagScope,
	})
}

func (b *Builder) copyIcons(context.Context) error {
	b.logger.Info("Copying icons")
	src := filepath.Join(b.opts.FreeRules, "icons")
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		b.logger.Debug("No icons to copy", "dir", src)
		return nil
	}
	return copyTree(src, filepath.Join(b.out, "icons"), plainCopier{})
}

func (b *Builder) copyContent(context.Context) error {
	b.logger.Info("Copying compendium content", "policy", b.opts.ContentCopy)
	src := filepath.Join(b.opts.FreeRules, "packs")
	entries, err := os.ReadDir(src)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrFreeRulesMissing, src)
	}
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", src, err)
	}

	c := b.copier()
	destRoot := filepath.Join(b.out, "packs")
	for _, e := range entries {
		from := filepath.Join(src, e.Name())
		to := filepath.Join(destRoot, e.Name())
		switch {
		case e.IsDir():
			err = copyTree(from, to, c)
		case e.Type().IsRegular():
			err = copyFile(from, to, c)
		default:
			continue
		}
		if err != nil {
			return err
		}
		b.logger.Info("Copied "+e.Name()+" to packs")
	}
	return nil
}

func (b *Builder) copier() copier {
	if b.opts.ContentCopy == CopyRewrite {
		return newRewriteCopier(b.opts.IconPathFrom, b.opts.IconPathTo)
	}
	return plainCopier{}
}

func (b *Builder) build(ctx context.Context) error {
	b.logger.Info("Building system")
	cmd, err := runner.ParseCommand(b.opts.BuildCommand)
	if err != nil {
		return err
	}
	cmd.Dir = b.out
	if err := b.runner.Run(ctx, cmd); err != nil {
		return err
	}

	if b.opts.CompiledEntry == "" || b.opts.CompiledEntry == b.opts.Entry {
		return nil
	}
	from := filepath.Join(b.out, b.opts.CompiledEntry)
	to := filepath.Join(b.out, b.opts.Entry)
	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("failed to rename build output: %w", err)
	}
	return nil
}

func (b *Builder) archive(ctx context.Context) error {
	b.logger.Info("Building release artifact")
	sys, err := manifest.Load(filepath.Join(b.out, b.opts.Manifest))
	if err != nil {
		return err
	}
	platform, err := manifest.LoadPlatformConfig(filepath.Join(b.out, b.opts.PlatformConfig))
	if err != nil {
		return err
	}
	files, err := manifest.ArchiveFiles(b.opts.Manifest, sys, platform, b.out)
	if err != nil {
		return err
	}

	name := archiveName(b.opts)
	if b.opts.Archiver == ArchiverNative {
		return writeZip(filepath.Join(b.out, name), b.out, files, b.logger)
	}
	return b.runner.Run(ctx, runner.Command{
		Name: "zip",
		Args: append([]string{name, "-r"}, files...),
		Dir:  b.out,
	})
}

func archiveName(o Options) string {
	return manifest.ArchiveName(o.SystemName, o.Tag)
}
