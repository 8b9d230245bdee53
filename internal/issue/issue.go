// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const (
	ExternalToolFailedId Id = iota + 1
	ManifestMismatchId
	ManifestInvalidId
	ConfigLoadFailedId
	PackSourceMissingId
	FreeRulesMissingId
	PermissionDeniedId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink
		extLinks []HttpLink // external links that might be useful for the user
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue guidance with the named glamour style
// ("dark", "light", "notty", "auto" or a JSON style path).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	externalToolFailedIssue = &Issue{
		id: ExternalToolFailedId,
		mdMsg: `
# An external tool failed!

The release build runs git, npm and zip as child processes. One of them
exited with a non-zero status and the remaining steps were skipped.

## Things you can try:
- Read the tool output printed above the error
- Check that the tool is installed and on your PATH:
~~~
$ git --version && npm --version && zip -v
~~~
- For clone failures, check that the tag exists and you can reach the repository:
~~~
$ git ls-remote --tags <repo>
~~~
- Use the in-process archiver if zip is not available:
~~~cue
dist: archiver: "native"
~~~`,
		extLinks: []HttpLink{"https://docs.npmjs.com/cli/commands/npm-ci"},
	}

	manifestMismatchIssue = &Issue{
		id: ManifestMismatchId,
		mdMsg: `
# The system manifest does not match the release tag!

A release tag ` + "`<prefix>-<version>`" + ` must be cut from a commit whose
system.json already carries that version and the matching download URL.
Nothing is corrected automatically.

## Things you can try:
- Update ` + "`version`" + ` and ` + "`download`" + ` in system.json, commit, and re-tag
- Check that ` + "`--url`" + ` points at the repository the release is published from
- The download URL has the form:
~~~
<url>/releases/download/<tag>/mythicrealms-<tag>.zip
~~~`,
	}

	manifestInvalidIssue = &Issue{
		id: ManifestInvalidId,
		mdMsg: `
# The system manifest is invalid!

system.json is missing a required field or a field has the wrong type.

## Required fields:
- ` + "`version`" + `: a semantic version such as 2.3.0
- ` + "`download`" + `: an http(s) URL
- ` + "`packs[].name`" + ` and ` + "`packs[].path`" + ` for every declared pack

## Things you can try:
- Check the field path named in the error message above
- Validate the JSON syntax with your editor or ` + "`jq . system.json`",
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Things you can try:
- Print the file that was loaded:
~~~
$ mythicrealms config path
~~~
- Show the effective configuration:
~~~
$ mythicrealms config show
~~~
- Regenerate a file with every default:
~~~
$ mythicrealms config init --force
~~~`,
	}

	packSourceMissingIssue = &Issue{
		id: PackSourceMissingId,
		mdMsg: `
# Pack sources not found!

The pack tooling works on ` + "`packs/_source/<pack>`" + ` relative to the current
directory and reads the pack list from system.json.

## Things you can try:
- Run the command from the system repository root
- Extract the compiled packs first:
~~~
$ mythicrealms package unpack
~~~
- Point ` + "`packs.source`" + ` at your source tree in the config file`,
	}

	freeRulesMissingIssue = &Issue{
		id: FreeRulesMissingId,
		mdMsg: `
# Free rules content not found!

The release bundles the free rules module. Its root must contain
module.json and a ` + "`packs`" + ` directory; ` + "`icons`" + ` is optional.

## Things you can try:
- Check the ` + "`<free-rules>`" + ` argument points at the module root
- Build the free rules packs before running the release`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Things you can try:
- Check file/directory permissions of the output directory
- Choose an output directory you own:
~~~
$ mythicrealms dist <tag> <free-rules> --out ./dist
~~~`,
	}

	issues = map[Id]*Issue{
		externalToolFailedIssue.Id(): externalToolFailedIssue,
		manifestMismatchIssue.Id():   manifestMismatchIssue,
		manifestInvalidIssue.Id():    manifestInvalidIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		packSourceMissingIssue.Id():  packSourceMissingIssue,
		freeRulesMissingIssue.Id():   freeRulesMissingIssue,
		permissionDeniedIssue.Id():   permissionDeniedIssue,
	}
)

// Values returns every issue ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
