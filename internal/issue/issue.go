// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"errors"

	"jarmin/pkg/jar"
	"jarmin/pkg/manifest"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const (
	MissingManifestId Id = iota + 1
	MissingMainClassId
	InvalidArchiveId
	OutputWriteFailedId
	InvalidMainClassId
	ConfigLoadFailedId
	OptimizerFailedId
)

type Id int

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation for the tool the issue concerns
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	jarSpecLink = HttpLink("https://docs.oracle.com/javase/8/docs/technotes/guides/jar/jar.html")
	r8Link      = HttpLink("https://r8.googlesource.com/r8")

	missingManifestIssue = &Issue{
		id: MissingManifestId,
		mdMsg: `
# No manifest in the input JAR!

No ` + "`--mainclass`" + ` was given, so jarmin looked for the entry point in
` + "`META-INF/MANIFEST.MF`" + `, but the archive has no manifest at all.

## Things you can try:
- Name the entry point explicitly; jarmin will inject a manifest for it:
~~~
$ jarmin --mainclass com.example.Tool --input-jar build/libs/tool.jar
~~~

- Rebuild the JAR with a manifest (e.g. ` + "`jar cfe`" + ` or your build tool's manifest settings)`,
		docLinks: []HttpLink{jarSpecLink},
	}

	missingMainClassIssue = &Issue{
		id: MissingMainClassId,
		mdMsg: `
# The manifest has no Main-Class!

The input JAR has a ` + "`META-INF/MANIFEST.MF`" + `, but it does not declare a
` + "`Main-Class`" + ` attribute, so there is no entry point to keep.

## Things you can try:
- Add the attribute to the manifest your build produces:
~~~
Main-Class: com.example.Tool
~~~

- Or override it on the command line:
~~~
$ jarmin --mainclass com.example.Tool
~~~`,
		docLinks: []HttpLink{jarSpecLink},
	}

	invalidArchiveIssue = &Issue{
		id: InvalidArchiveId,
		mdMsg: `
# The input JAR could not be read!

The input path does not exist, is not a file, or is not a valid ZIP archive.

## Things you can try:
- Check the path passed to ` + "`--input-jar`" + ` (default: ` + "`build/libs/r8.jar`" + `)
- Rebuild the JAR; a truncated or partially written archive cannot be opened
- Verify the file is a JAR: ` + "`unzip -l <file>`",
	}

	outputWriteFailedIssue = &Issue{
		id: OutputWriteFailedId,
		mdMsg: `
# An output file could not be written!

jarmin could not create the repackaged JAR or the keep rules in its
working directory.

## Things you can try:
- Check that the temporary directory (` + "`$TMPDIR`" + `) exists and is writable
- Check free disk space
- Make sure the destination is not the input JAR itself`,
	}

	invalidMainClassIssue = &Issue{
		id: InvalidMainClassId,
		mdMsg: `
# Invalid main class name!

The main class must be a fully-qualified Java class name: dot-separated
identifiers such as ` + "`com.example.Tool`" + `.

## Things you can try:
- Use dots, not slashes: ` + "`com.example.Tool`" + `, not ` + "`com/example/Tool`" + `
- Leave out the ` + "`.class`" + ` extension`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Things you can try:
- Check the CUE syntax of ` + "`jarmin.cue`" + ` or ` + "`~/.config/jarmin/config.cue`" + `
- Remove unknown keys; the schema is closed
- Run with ` + "`--config /dev/null`" + ` to fall back to defaults`,
	}

	optimizerFailedIssue = &Issue{
		id: OptimizerFailedId,
		mdMsg: `
# The optimizer could not be started!

jarmin prepared the input JAR and keep rules but failed to launch R8.

## Things you can try:
- Check that ` + "`java`" + ` is on your PATH or set ` + "`optimizer.java`" + ` in the config
- Build R8 first so ` + "`build/libs/r8.jar`" + ` exists, or set ` + "`optimizer.jar`" + `
- Re-run with ` + "`--verbose`" + ` to see the exact command line`,
		docLinks: []HttpLink{r8Link},
	}

	issues = map[Id]*Issue{
		missingManifestIssue.Id():   missingManifestIssue,
		missingMainClassIssue.Id():  missingMainClassIssue,
		invalidArchiveIssue.Id():    invalidArchiveIssue,
		outputWriteFailedIssue.Id(): outputWriteFailedIssue,
		invalidMainClassIssue.Id():  invalidMainClassIssue,
		configLoadFailedIssue.Id():  configLoadFailedIssue,
		optimizerFailedIssue.Id():   optimizerFailedIssue,
	}
)

// Values returns every catalog issue ordered by Id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}

// sentinelIssues maps the package-level errors of the archive and manifest
// layers to catalog entries, for errors that never passed through an
// ActionableError carrying an Id.
var sentinelIssues = []struct {
	err error
	id  Id
}{
	{jar.ErrMissingManifest, MissingManifestId},
	{manifest.ErrMissingMainClass, MissingMainClassId},
	{manifest.ErrInvalidMainClass, InvalidMainClassId},
	{jar.ErrInvalidArchive, InvalidArchiveId},
	{jar.ErrOutputWrite, OutputWriteFailedId},
}

// ForError returns the catalog issue for err, or nil. The Id of the first
// ActionableError in the chain that carries one wins; otherwise known
// sentinel errors are matched with errors.Is.
func ForError(err error) *Issue {
	for cause := err; cause != nil; {
		var ae *ActionableError
		if !errors.As(cause, &ae) {
			break
		}
		if ae.Issue != 0 {
			return Get(ae.Issue)
		}
		cause = ae.Cause
	}
	for _, s := range sentinelIssues {
		if errors.Is(err, s.err) {
			return Get(s.id)
		}
	}
	return nil
}
