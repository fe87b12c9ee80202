package compose

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/avaliafacil/pdf-service/internal/model"
)

// pageHeader builds the cover header block: the uploaded header image at its
// configured dimensions, or the structured school/subject/teacher/class/date
// table fallback. Both variants are followed by the optional assessment-type
// banner and instructions.
func pageHeader(p *model.AssessmentPayload) string {
	var b strings.Builder

	if p.HeaderImage != "" {
		width := p.ImageWidth.Int()
		if width <= 0 {
			width = 190
		}
		height := p.ImageHeight.Int()
		if height <= 0 {
			height = 40
		}
		fmt.Fprintf(&b, `
      <div style="text-align: center; margin-bottom: 4mm;">
        <img src="%s"
             style="width: %dmm; height: %dmm; object-fit: fill;"
             alt="Cabeçalho">
      </div>
`, p.HeaderImage, width, height)
	} else {
		fmt.Fprintf(&b, `
      <div class="header-standard">
        <div class="header-row">
          <div class="header-cell header-cell-full">
            <strong>NOME DA ESCOLA: </strong><span>%s</span>
          </div>
        </div>
        <div class="header-row">
          <div class="header-cell header-cell-full">
            <strong>COMPONENTE CURRICULAR: </strong><span>%s</span>
          </div>
        </div>
        <div class="header-row">
          <div class="header-cell header-cell-full">
            <strong>PROFESSOR(A): </strong><span>%s</span>
          </div>
        </div>
        <div class="header-row">
          <div class="header-cell header-cell-split">
            <strong>SÉRIE/TURMA: </strong><span>%s</span>
          </div>
          <div class="header-cell header-cell-date">
            <strong>DATA: </strong><span>%s</span>
          </div>
        </div>
        <div class="header-row">
          <div class="header-cell header-cell-full"><strong>ESTUDANTE:</strong></div>
        </div>
      </div>
`,
			html.EscapeString(p.NomeEscola),
			html.EscapeString(p.ComponenteCurricular),
			html.EscapeString(p.Professor),
			html.EscapeString(p.Turma),
			formatDate(p.Data))
	}

	if p.MostrarTipoAvaliacao && p.TipoAvaliacao != "" {
		fmt.Fprintf(&b, `
        <div style="text-align: center; font-weight: bold; font-size: 14px; margin: 4mm 0;">
          %s
        </div>
`, html.EscapeString(strings.ToUpper(p.TipoAvaliacao)))
	}

	if p.Instrucoes != "" {
		fmt.Fprintf(&b, `
        <div style="margin-bottom: 4mm;">
          <h3 style="font-weight: bold; margin: 0 0 2mm 0; font-size: 14px;">INSTRUÇÕES:</h3>
          <p style="font-size: 14px; line-height: 1.5; margin: 0; white-space: pre-wrap;">%s</p>
        </div>
`, html.EscapeString(p.Instrucoes))
	}

	return b.String()
}

// formatDate renders an ISO date (as sent by the UI date picker) in the
// Brazilian dd/mm/yyyy convention. Anything unparseable passes through
// as-is rather than failing the document.
func formatDate(iso string) string {
	if iso == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return html.EscapeString(iso)
	}
	return t.Format("02/01/2006")
}
