// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	SourceDirNotFoundId Id = iota + 1
	VendorDirNotFoundId
	ConfigFileNotFoundId
	PatchAnchorNotFoundId
	ConfigPatchFailedId
	RegistryWriteFailedId
	ToolConfigLoadFailedId
	InvalidFormatId
	MalformedTranslationFileId
	PriorRegistryUnreadableId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation for this issue
	extLinks []HttpLink  // external links that might be useful for the user
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

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue as terminal markdown using a glamour style
// ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md.WriteString("\n- <" + string(link) + ">")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	sourceDirNotFoundIssue = &Issue{
		id: SourceDirNotFoundId,
		mdMsg: `
# Translation directory not found!

langlock scans ` + "`{source_directory}/{locale}/*.php`" + ` for ` + "`@locked`" + ` markers,
but the source directory does not exist.

## Things you can try:
- Run langlock from the Laravel project root, or pass it explicitly:
~~~
$ langlock --project /path/to/app export-locked
~~~
- Check ` + "`source_directory`" + ` in config/ai-translator.php (default: ` + "`lang`" + `)
- Check ` + "`AI_TRANSLATOR_SOURCE_DIR`" + ` or whichever variable your config reads through ` + "`env()`",
		extLinks: []HttpLink{"https://laravel.com/docs/localization"},
	}

	vendorDirNotFoundIssue = &Issue{
		id: VendorDirNotFoundId,
		mdMsg: `
# Vendor translations not found!

generate-source works on published package translations under
` + "`{source_directory}/vendor/{package}/{locale}/`" + `, and that directory does not exist.

## Things you can try:
- Publish the package translations first:
~~~
$ php artisan vendor:publish --tag=laravel-translations
~~~
- Check ` + "`source_directory`" + ` in config/ai-translator.php`,
		extLinks: []HttpLink{"https://laravel.com/docs/localization#overriding-package-language-files"},
	}

	configFileNotFoundIssue = &Issue{
		id: ConfigFileNotFoundId,
		mdMsg: `
# Translator config not found!

The ` + "`php`" + ` export format writes ` + "`locked_keys`" + ` into config/ai-translator.php,
which does not exist yet.

## Things you can try:
- Publish the config:
~~~
$ php artisan vendor:publish --provider="Kargnas\LaravelAiTranslator\ServiceProvider"
~~~
- Or export to a standalone file instead:
~~~
$ langlock export-locked --format json
~~~`,
	}

	patchAnchorNotFoundIssue = &Issue{
		id: PatchAnchorNotFoundId,
		mdMsg: `
# Could not place locked_keys!

The config has no ` + "`locked_keys`" + ` entry and neither of the lines langlock inserts after:

~~~php
// 'skip_files' => [],
// 'skip_locales' => [],
~~~

Nothing was written. Paste the printed ` + "`'locked_keys' => [...]`" + ` entry into the
returned array yourself; later runs will update it in place.`,
	}

	configPatchFailedIssue = &Issue{
		id: ConfigPatchFailedId,
		mdMsg: `
# Could not update locked_keys!

The existing ` + "`locked_keys`" + ` entry could not be replaced safely.

## Things you can try:
- Make sure ` + "`locked_keys`" + ` appears only once in the returned array
- Make sure its value is an array literal (` + "`[...]`" + ` or ` + "`array(...)`" + `), not a function call
- Export to a standalone file with ` + "`--format json`" + ` or ` + "`--format yaml`",
	}

	registryWriteFailedIssue = &Issue{
		id: RegistryWriteFailedId,
		mdMsg: `
# Could not write the locked-key registry!

The consolidated registry file could not be written, so the run stopped.
Files written earlier in the run are kept.

## Things you can try:
- Check that the file and its directory are writable
- Check free disk space
- Re-run with ` + "`--dry-run`" + ` to preview the result without writing`,
	}

	toolConfigLoadFailedIssue = &Issue{
		id: ToolConfigLoadFailedId,
		mdMsg: `
# Failed to load langlock configuration!

The CUE configuration file could not be read or does not match the schema.

## Things you can try:
- Show where langlock looks for its config:
~~~
$ langlock config path
~~~
- Recreate a default config:
~~~
$ langlock config init --local
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	invalidFormatIssue = &Issue{
		id: InvalidFormatId,
		mdMsg: `
# Unknown export format!

Supported formats:

| Format | Output |
|--------|--------|
| php    | ` + "`locked_keys`" + ` in config/ai-translator.php |
| json   | locked-translations.json |
| yaml   | locked-translations.yaml |`,
	}

	malformedTranslationFileIssue = &Issue{
		id: MalformedTranslationFileId,
		mdMsg: `
# Translation file skipped

A translation file must return a (possibly nested) array:

~~~php
<?php

return [
    'title' => 'Home',
    'nav' => [
        'home' => 'Home',
    ],
];
~~~

Files that fail to parse or return something else are skipped; the rest of the
batch continues.`,
	}

	priorRegistryUnreadableIssue = &Issue{
		id: PriorRegistryUnreadableId,
		mdMsg: `
# Existing locked keys could not be read!

langlock merges new markers into the ` + "`locked_keys`" + ` already in
config/ai-translator.php. That entry, or the config around it, could not be
evaluated, so writing a registry now would drop every key locked so far.
Nothing was written.

## Things you can try:
- Keep ` + "`locked_keys`" + ` a plain array of ` + "`'key' => 'locale'`" + ` or ` + "`'key' => ['en', 'ko']`" + ` entries
- Move computed values (ternaries, closures, ` + "`new`" + ` expressions) out of the returned array
- Preview what would be merged:
~~~
$ langlock export-locked --dry-run
~~~`,
	}

	issues = map[Id]*Issue{
		sourceDirNotFoundIssue.Id():        sourceDirNotFoundIssue,
		vendorDirNotFoundIssue.Id():        vendorDirNotFoundIssue,
		configFileNotFoundIssue.Id():       configFileNotFoundIssue,
		patchAnchorNotFoundIssue.Id():      patchAnchorNotFoundIssue,
		configPatchFailedIssue.Id():        configPatchFailedIssue,
		registryWriteFailedIssue.Id():      registryWriteFailedIssue,
		toolConfigLoadFailedIssue.Id():     toolConfigLoadFailedIssue,
		invalidFormatIssue.Id():            invalidFormatIssue,
		malformedTranslationFileIssue.Id(): malformedTranslationFileIssue,
		priorRegistryUnreadableIssue.Id():  priorRegistryUnreadableIssue,
	}
)

func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
