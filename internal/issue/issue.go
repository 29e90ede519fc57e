// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"

	"github.com/invowk/opsconsole/pkg/console"
	"github.com/invowk/opsconsole/pkg/cueutil"
)

type Id int

const (
	DocumentNotFoundId Id = iota + 1
	DocumentDecodeFailedId
	MissingPropertyId
	InvalidPropertyId
	UnresolvedReferenceId
	MalformedReferenceId
	TypeLoadFailedId
	CapabilityUnimplementedId
	ConflictId
	NotFoundId
	ConfigLoadFailedId
	StoreUnavailableId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // never empty
	extLinks []HttpLink
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

// Render renders the guide with glamour using the named style.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("\n- <" + string(link) + ">")
		}
		for _, link := range i.extLinks {
			md.WriteString("\n- <" + string(link) + ">")
		}
	}
	return render(md.String(), stylePath)
}

const docsBase = "https://github.com/invowk/opsconsole/blob/main/docs/"

var (
	render = glamour.Render

	documentNotFoundIssue = &Issue{
		id: DocumentNotFoundId,
		mdMsg: `
# Console document not found

The file you passed does not exist or cannot be read.

## Things you can try
- Check the path; relative paths are resolved from the current directory.
- Create a starter document:
~~~
$ opsconsole export --example > console.yaml
~~~`,
		docLinks: []HttpLink{docsBase + "documents.md"},
	}

	documentDecodeFailedIssue = &Issue{
		id: DocumentDecodeFailedId,
		mdMsg: `
# The console document could not be decoded

The file is not valid CUE, JSON, YAML or TOML, or a value has the wrong shape.
The error names the file and the path of the offending value, for example
` + "`console.yaml: widgets.W1.displayName: conflicting values 3 and string`" + `.

## Things you can try
- Make sure the file extension matches its format (.cue, .json, .yaml, .yml, .toml).
- Fix the value at the reported path.`,
		docLinks: []HttpLink{docsBase + "documents.md"},
	}

	missingPropertyIssue = &Issue{
		id: MissingPropertyId,
		mdMsg: `
# A required property is missing

Every entity of a console declares a few properties the engine cannot work without:

| Entity   | Required properties                  |
|----------|--------------------------------------|
| Console  | name, providers, pages, widgets      |
| Page     | route                                |
| Widget   | type, displayName                    |
| Provider | type                                 |

A property set to null counts as missing.`,
		docLinks: []HttpLink{docsBase + "documents.md#required-properties"},
	}

	invalidPropertyIssue = &Issue{
		id: InvalidPropertyId,
		mdMsg: `
# A property has the wrong shape

The property exists but holds a value of the wrong kind, such as a string where
a list of references is expected.`,
		docLinks: []HttpLink{docsBase + "documents.md"},
	}

	unresolvedReferenceIssue = &Issue{
		id: UnresolvedReferenceId,
		mdMsg: `
# A reference points to nothing

A page, widget or tab refers to a widget id (or a widget refers to a provider id)
that is not defined in the console.

## Things you can try
- Check the spelling of the id; the error suggests the closest defined id.
- Add the missing entity under ` + "`widgets`" + ` or ` + "`providers`" + `.
- If you deleted the entity on purpose, remove the references to it as well.`,
		docLinks: []HttpLink{docsBase + "references.md"},
	}

	malformedReferenceIssue = &Issue{
		id: MalformedReferenceId,
		mdMsg: `
# A reference is malformed

References are objects of the form:

~~~yaml
$ref: "#/Console/widgets/<id>"
~~~

The category must be one of providers, widgets, pages or dashboards and must
match the list the reference appears in. References into other files are not
supported.`,
		docLinks: []HttpLink{docsBase + "references.md"},
	}

	typeLoadFailedIssue = &Issue{
		id: TypeLoadFailedId,
		mdMsg: `
# A widget or provider type could not be loaded

Each type used by the console needs an entry in ` + "`dependencies`" + ` naming the
source it is loaded from, and that source must export the type.

~~~yaml
dependencies:
  Basic: builtin
~~~

## Things you can try
- Add the missing dependencies entry.
- List the types the builtin source provides:
~~~
$ opsconsole types
~~~`,
		docLinks: []HttpLink{docsBase + "types.md"},
	}

	capabilityUnimplementedIssue = &Issue{
		id: CapabilityUnimplementedId,
		mdMsg: `
# The type does not support this operation

The widget or provider was loaded, but its implementation does not provide the
requested capability (for example rendering or credentials).`,
		docLinks: []HttpLink{docsBase + "types.md#capabilities"},
	}

	conflictIssue = &Issue{
		id: ConflictId,
		mdMsg: `
# The entity already exists

Page routes and widget ids must be unique within a console.

## Things you can try
- Use ` + "`page update`" + ` to change an existing page.
- Pick another route or id.`,
		docLinks: []HttpLink{docsBase + "store.md"},
	}

	notFoundIssue = &Issue{
		id: NotFoundId,
		mdMsg: `
# Not found

The console, page or widget does not exist in the configured store.

## Things you can try
~~~
$ opsconsole page list --console <name>
~~~`,
		docLinks: []HttpLink{docsBase + "store.md"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load the configuration

The configuration file exists but could not be read or does not match the
expected schema.

## Things you can try
- Show where the file is read from:
~~~
$ opsconsole config path
~~~
- Recreate a default file:
~~~
$ opsconsole config init --force
~~~`,
		docLinks: []HttpLink{docsBase + "configuration.md"},
	}

	storeUnavailableIssue = &Issue{
		id: StoreUnavailableId,
		mdMsg: `
# The console store is unavailable

The store configured with ` + "`store.driver`" + ` and ` + "`store.path`" + ` could not be opened.

## Things you can try
- Check that the directory (file driver) or database file (sqlite driver) is writable.
- Override the location for one run with ` + "`OPSCONSOLE_STORE_PATH`" + `.`,
		docLinks: []HttpLink{docsBase + "store.md"},
	}

	issues = map[Id]*Issue{
		documentNotFoundIssue.Id():        documentNotFoundIssue,
		documentDecodeFailedIssue.Id():    documentDecodeFailedIssue,
		missingPropertyIssue.Id():         missingPropertyIssue,
		invalidPropertyIssue.Id():         invalidPropertyIssue,
		unresolvedReferenceIssue.Id():     unresolvedReferenceIssue,
		malformedReferenceIssue.Id():      malformedReferenceIssue,
		typeLoadFailedIssue.Id():          typeLoadFailedIssue,
		capabilityUnimplementedIssue.Id(): capabilityUnimplementedIssue,
		conflictIssue.Id():                conflictIssue,
		notFoundIssue.Id():                notFoundIssue,
		configLoadFailedIssue.Id():        configLoadFailedIssue,
		storeUnavailableIssue.Id():        storeUnavailableIssue,
	}

	// sentinels maps error sentinels to issues, most specific first.
	sentinels = []struct {
		err error
		id  Id
	}{
		{console.ErrMissingProperty, MissingPropertyId},
		{console.ErrInvalidProperty, InvalidPropertyId},
		{console.ErrUnresolvedReference, UnresolvedReferenceId},
		{console.ErrMalformedReference, MalformedReferenceId},
		{console.ErrTypeLoad, TypeLoadFailedId},
		{console.ErrCapabilityUnimplemented, CapabilityUnimplementedId},
		{console.ErrConflict, ConflictId},
		{console.ErrNotFound, NotFoundId},
		{cueutil.ErrInvalidDocument, DocumentDecodeFailedId},
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

// ForError returns the issue guide matching the kind of err, or nil.
func ForError(err error) *Issue {
	if err == nil {
		return nil
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return issues[s.id]
		}
	}
	return nil
}
