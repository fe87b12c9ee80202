package compose

import (
	"fmt"
	"html"
	"strings"

	"github.com/avaliafacil/pdf-service/internal/model"
)

// Free-response line caps. Two-column pages are narrower, so fewer ruled
// lines fit a column without forcing an awkward break.
const (
	maxLinesSingleColumn = 40
	maxLinesTwoColumn    = 35
	defaultLines         = 5
)

// DefaultHeaderTitle is the running header used when the assessment has no name.
const DefaultHeaderTitle = "QUESTÕES DA AVALIAÇÃO"

// HeaderTitle returns the uppercased assessment title for the running page
// header. The title is rendered by the PDF engine's header template, not
// embedded in the document body.
func HeaderTitle(p *model.AssessmentPayload) string {
	if name := strings.TrimSpace(p.NomeAvaliacao); name != "" {
		return strings.ToUpper(name)
	}
	return DefaultHeaderTitle
}

// RunningHeader builds the header template injected into the questions
// fragment's reserved top margin on every page.
func RunningHeader(title string) string {
	return fmt.Sprintf(`<div style="width: 100%%; text-align: center; font-size: 10px; font-family: Arial, sans-serif; font-weight: bold; border-bottom: 1px solid #333; padding: 6px 0; margin: 0 20px;">%s</div>`,
		html.EscapeString(title))
}

// QuestionsDocument builds the question pages: every item in payload order
// as a numbered, page-break-atomic block. Column mode changes spacing only,
// never content or ordering.
func QuestionsDocument(p *model.AssessmentPayload) string {
	containerClass := "single-column"
	if p.TwoColumns() {
		containerClass = "two-column"
	}

	var body strings.Builder
	for idx := range p.SelectedItems {
		writeQuestion(&body, &p.SelectedItems[idx], idx+1, p.TwoColumns())
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <style>%s</style>
</head>
<body>
  <div class="questions-container %s">
    %s
  </div>
</body>
</html>
`, questionsCSS, containerClass, body.String())
}

func writeQuestion(b *strings.Builder, item *model.Item, questionNumber int, twoColumns bool) {
	marginLeft := "3mm"
	gap := "2mm"
	letterSpacing := "15px"
	if twoColumns {
		marginLeft = "2.5mm"
		gap = "1.5mm"
		letterSpacing = "6px"
	}

	// Prompts are Quill rich-text fragments and render unescaped inside the
	// editor wrapper so the print output matches the authoring preview.
	prompt := ""
	if item.TextoItem != "" {
		prompt = fmt.Sprintf(`<div class="ql-container"><div class="ql-editor">%s</div></div>`, item.TextoItem)
	}

	var content strings.Builder
	switch item.TipoItem {
	case model.ItemMultipleChoice:
		fmt.Fprintf(&content, `<div style="margin-left: %s;">`, marginLeft)
		for altIndex, alt := range item.ValidAlternativas() {
			fmt.Fprintf(&content, `
              <div style="margin: 1mm 0; display: flex; align-items: flex-start;">
                <span style="margin-right: %s; font-weight: bold; font-size: 14px;">%c)</span>
                <span style="font-size: 14px; line-height: 1.3;">%s</span>
              </div>`, gap, rune('A'+altIndex), alt)
		}
		content.WriteString(`</div>`)

	case model.ItemTrueFalse:
		fmt.Fprintf(&content, `<div style="margin-left: %s;">`, marginLeft)
		for afirmIndex, afirm := range item.ValidAfirmativas() {
			fmt.Fprintf(&content, `
              <div style="display: flex; align-items: flex-start; margin: 1mm 0;">
                <span style="margin-right: %s; font-weight: bold; font-size: 14px;">%d.</span>
                <span style="margin-right: %s; font-family: monospace; letter-spacing: %s; font-size: 14px;">( )</span>
                <span style="flex: 1; font-size: 14px; line-height: 1.3;">%s</span>
              </div>`, gap, afirmIndex+1, gap, letterSpacing, afirm)
		}
		content.WriteString(`</div>`)

	case model.ItemFreeResponse:
		lines := item.QuantidadeLinhas.Int()
		if lines <= 0 {
			lines = defaultLines
		}
		maxLines := maxLinesSingleColumn
		lineHeight := "4mm"
		topMargin := "2mm"
		if twoColumns {
			maxLines = maxLinesTwoColumn
			lineHeight = "3.5mm"
			topMargin = "1.5mm"
		}
		if lines > maxLines {
			lines = maxLines
		}
		fmt.Fprintf(&content, `<div style="margin: %s 0 0 %s;">`, topMargin, marginLeft)
		for i := 0; i < lines; i++ {
			fmt.Fprintf(&content, `<div style="border-bottom: 1px solid #9ca3af; height: %s; margin: 1mm 0;"></div>`, lineHeight)
		}
		content.WriteString(`</div>`)
	}

	fmt.Fprintf(b, `
      <div class="question">
        <div style="display: flex; align-items: flex-start; margin-bottom: 2mm;">
          <span style="margin-right: 2mm; font-weight: bold; font-size: 14px;">%d.</span>
          <div style="flex: 1;">%s</div>
        </div>
        %s
        <div class="question-separator"></div>
      </div>
`, questionNumber, prompt, content.String())
}
