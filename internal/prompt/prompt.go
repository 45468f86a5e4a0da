// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt builds the system prompt and per-page instruction sent
// with each page image.
package prompt

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/pdiddy/datasheet-parser/pkg/types"
)

// tableRules is the shared formatting policy for tabular content. Wide or
// long-cell tables make vision models emit degenerate runs of repeated
// characters, so the prompts bias hard toward lists.
const tableRules = `For tables:
- USE LISTS INSTEAD OF TABLES when the table has more than 3 columns or any cell would exceed 50 characters
- If using tables, limit cell content to at most 50 characters
- Never repeat characters (like dots or dashes) within table cells
- Split complex tables into multiple simpler tables with clearer headings
- If long text or repeated characters start appearing in a cell, stop and reformat as bullet points

For tables of contents:
- NEVER use dots or other repeated characters to fill space between an entry and its page number
- Use clean formatting like "Section Name - Page X", or list section names without page numbers
- Show hierarchy with indentation or nested lists, not print-style alignment dots`

// systemExtract is the system prompt for extraction mode.
const systemExtract = `You are an expert in extracting and structuring information from technical documentation.
Your task is to extract all valuable information from datasheet pages and format it in Markdown.
Use headings, lists, and other Markdown elements for optimal presentation.
Preserve all technical specifications, parameters, diagram descriptions, and functional details.

` + tableRules + `

Include only essential technical information, ignoring page numbers, headers, footers, and other formatting elements not related to the content.
Your output should be well-structured, comprehensive, and immediately usable as technical documentation.`

// systemTranslateTmpl is the system prompt for translation mode. The
// contract is strict: translated content only, no source-language echo,
// technical tokens kept verbatim.
var systemTranslateTmpl = template.Must(template.New("system-translate").Parse(`You are an expert in extracting, structuring, and translating information from technical documentation.
Your task is to extract all valuable information from datasheet pages and directly translate it into {{.Language}}, formatting the translated content in Markdown.
Use headings, lists, and other Markdown elements for optimal presentation.
Preserve all technical specifications, parameters, diagram descriptions, and functional details.

` + tableRules + `

Include only essential technical information, ignoring page numbers, headers, footers, and other formatting elements not related to the content.
DO NOT include the source text in your response. Provide ONLY the translated content.
Keep all units, chemical formulas, mathematical expressions, part numbers, and model numbers unchanged.
Your output should be well-structured, comprehensive, and immediately usable as translated technical documentation.`))

// instructionTmpl is the per-page instruction for extraction mode.
var instructionTmpl = template.Must(template.New("instruction").Parse(`This is page {{.PageNum}} of {{.TotalPages}} from the datasheet.
Extract all technical information and format it in Markdown.
Use headings, lists, and other Markdown elements for optimal presentation.
Maintain technical integrity while creating a clean, structured document.

For register descriptions: present name, address, type, and bank as plain text; use bullet points for bit fields instead of tables where possible.
If this page contains a table of contents, format it as a clean list without alignment dots.`))

// instructionTranslateTmpl is the per-page instruction for translation mode.
var instructionTranslateTmpl = template.Must(template.New("instruction-translate").Parse(`This is page {{.PageNum}} of {{.TotalPages}} from the datasheet.
Extract all technical information, translate it directly into {{.Language}}, and format it in Markdown.
DO NOT include the source text in your response. Only provide the translated content.
Keep all measurements, part numbers, and technical values unchanged during translation.
Use headings, lists, and other Markdown elements for optimal presentation while maintaining technical accuracy.

For register descriptions: present name, address, type, and bank as plain text; use bullet points for bit fields instead of tables where possible.
If this page contains a table of contents, format it as a clean list without alignment dots.`))

// pageVars feeds the instruction templates.
type pageVars struct {
	PageNum    int
	TotalPages int
	Language   string
}

// Build returns the system prompt and per-page instruction for the given
// page. It is a pure function of its arguments. Translation mode without
// a target language is a ConfigError.
func Build(pageNum, totalPages int, mode types.Mode, language string) (system, instruction string, err error) {
	vars := pageVars{PageNum: pageNum, TotalPages: totalPages, Language: language}

	switch mode {
	case types.ModeExtract:
		instruction, err = render(instructionTmpl, vars)
		return systemExtract, instruction, err
	case types.ModeTranslate:
		if language == "" {
			return "", "", &types.ConfigError{Reason: "translation requested without a target language"}
		}
		system, err = render(systemTranslateTmpl, vars)
		if err != nil {
			return "", "", err
		}
		instruction, err = render(instructionTranslateTmpl, vars)
		return system, instruction, err
	default:
		return "", "", &types.ConfigError{Reason: fmt.Sprintf("unknown mode %q", mode)}
	}
}

func render(tmpl *template.Template, vars pageVars) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("rendering %s template: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
