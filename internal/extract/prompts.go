package extract

import (
	_ "embed"
	"text/template"
)

//go:embed prompts/extract_filter.md
var extractFilterPromptRaw string

// ExtractFilterTemplate is the parsed prompt template for the combined
// structure-and-filter call. Parsed once at package init; reused per batch.
var ExtractFilterTemplate = template.Must(template.New("extract_filter").Parse(extractFilterPromptRaw))
