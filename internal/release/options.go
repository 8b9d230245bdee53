// SPDX-License-Identifier: MPL-2.0

package release

import (
	"errors"
	"fmt"

	"mythicrealms-cli/pkg/manifest"
)

const (
	// ArchiverZip shells out to the zip tool.
	ArchiverZip Archiver = "zip"
	// ArchiverNative writes the archive in-process.
	ArchiverNative Archiver = "native"

	// CopyPlain copies free rules content byte for byte.
	CopyPlain CopyPolicy = "plain"
	// CopyRewrite additionally rewrites icon paths inside text files.
	CopyRewrite CopyPolicy = "rewrite"
)

var (
	// ErrInvalidOptions is wrapped by every option validation failure.
	ErrInvalidOptions = errors.New("invalid release options")

	// ErrFreeRulesMissing is returned when required free rules content is absent.
	ErrFreeRulesMissing = errors.New("free rules content not found")

	// ErrUnsafeOutput is returned when the output directory would wipe the
	// filesystem root or the working directory.
	ErrUnsafeOutput = errors.New("refusing to use output directory")
)

type (
	// Archiver selects how the release archive is produced.
	Archiver string

	// CopyPolicy selects how free rules packs are copied into the release.
	CopyPolicy string

	// Options describe one release build.
	Options struct {
		// Tag is the release tag, <prefix>-<version>.
		Tag string
		// FreeRules is the root of the free rules module.
		FreeRules string
		// Out is the output directory. It is deleted and recreated.
		Out string
		// Repo is the git URL of the system repository.
		Repo string
		// URL is the public repository URL the download link derives from.
		URL string

		SystemName     string
		FlagScope      string
		Manifest       string // system manifest file name inside the repository
		PlatformConfig string

		InstallCommand string
		BuildCommand   string
		CompiledEntry  string
		Entry          string

		Archiver     Archiver
		ContentCopy  CopyPolicy
		IconPathFrom string
		IconPathTo   string
	}
)

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Out:            "./dist",
		Repo:           "git@github.com:YourUsername/MythicRealms.git",
		URL:            "https://github.com/YourUsername/MythicRealms",
		SystemName:     "mythicrealms",
		FlagScope:      manifest.DefaultFlagScope,
		Manifest:       manifest.FileName,
		PlatformConfig: "foundryvtt.json",
		InstallCommand: "npm ci --ignore-scripts",
		BuildCommand:   "npm run build",
		CompiledEntry:  "mythicrealms-compiled.mjs",
		Entry:          "mythicrealms.mjs",
		Archiver:       ArchiverZip,
		ContentCopy:    CopyPlain,
		IconPathFrom:   "modules/mythicrealms-free/icons",
		IconPathTo:     "systems/mythicrealms/icons",
	}
}

// Validate checks that the options describe a buildable release.
func (o Options) Validate() error {
	var errs []error
	if _, err := manifest.ParseTag(o.Tag); err != nil {
		errs = append(errs, err)
	}
	for _, req := range []struct{ name, value string }{
		{"free rules path", o.FreeRules},
		{"output", o.Out},
		{"repository", o.Repo},
		{"release URL", o.URL},
		{"system name", o.SystemName},
		{"manifest", o.Manifest},
		{"install command", o.InstallCommand},
		{"build command", o.BuildCommand},
	} {
		if req.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", req.name))
		}
	}
	switch o.Archiver {
	case ArchiverZip, ArchiverNative:
	default:
		errs = append(errs, fmt.Errorf("unknown archiver %q (want zip or native)", o.Archiver))
	}
	switch o.ContentCopy {
	case CopyPlain:
	case CopyRewrite:
		if o.IconPathFrom == "" {
			errs = append(errs, errors.New("rewrite content copy needs an icon path to replace"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown content copy policy %q (want plain or rewrite)", o.ContentCopy))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, errors.Join(errs...))
	}
	return nil
}
