// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rag

import (
	"bytes"
	"text/template"
)

// answerPromptTmpl frames the retrieved context for the chat model. The
// leading newline and four-space indent are part of the prompt text and
// count toward its token total.
var answerPromptTmpl = template.Must(template.New("answer").Parse(`
    ## Prompt:
    **Task:** Answer the user's query based on the provided sustainability reports.
    **Query:** {{.Query}}
    **Context:**
    {{.Context}}

    **Guidelines:**
    - Ensure your response is accurate and relevant to the query.
    - Reference specific sections of the sustainability reports if possible.
    - Consider the following sustainability reporting standards: GRI, SASB, TCFD.
    - If the query is unclear or the information is not available, provide a polite and informative response.
    `))

// RenderPrompt fills the answer template with query and context.
func RenderPrompt(query, context string) (string, error) {
	var buf bytes.Buffer
	err := answerPromptTmpl.Execute(&buf, struct{ Query, Context string }{query, context})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
