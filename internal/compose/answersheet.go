package compose

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/avaliafacil/pdf-service/internal/model"
)

// Physical capacity of the bubble sheet. The scanning side locates bubbles
// by this fixed 4x15 geometry, so the partition is a hard property of the
// printed form: item index i lands in column i/15, row i%15, and items past
// the capacity are not representable on the sheet.
const (
	sheetColumns       = 4
	sheetRowsPerColumn = 15
	sheetCapacity      = sheetColumns * sheetRowsPerColumn
)

// SheetColumnFor returns the answer-sheet column for a 0-based item index.
func SheetColumnFor(index int) int { return index / sheetRowsPerColumn }

// SheetGrid returns the strict block partition of item indices into the four
// sheet columns. Indices at or past capacity are excluded.
func SheetGrid(itemCount int) [][]int {
	grid := make([][]int, sheetColumns)
	for col := 0; col < sheetColumns; col++ {
		for row := 0; row < sheetRowsPerColumn; row++ {
			idx := col*sheetRowsPerColumn + row
			if idx >= itemCount {
				break
			}
			grid[col] = append(grid[col], idx)
		}
	}
	return grid
}

// AnswerSheet builds the machine-readable answer sheet: fiducial corner
// markers, instructions, the QR code, and the bubble grid. Returns an empty
// string when there are no items, matching the cover builder's expectation.
func AnswerSheet(items []model.Item, qrDataURL string, log zerolog.Logger) string {
	if len(items) == 0 {
		return ""
	}
	if len(items) > sheetCapacity {
		log.Warn().
			Int("items", len(items)).
			Int("capacity", sheetCapacity).
			Msg("assessment exceeds bubble sheet capacity, extra items omitted from grid")
	}

	var b strings.Builder

	b.WriteString(`
    <div style="position: relative; padding: 8mm; border: 1.5px solid #333; margin-top: 5mm; page-break-inside: avoid;">
      <div style="position: absolute; top: 2mm; left: 2mm; width: 5mm; height: 5mm; background-color: #000;"></div>
      <div style="position: absolute; top: 2mm; right: 2mm; width: 5mm; height: 5mm; background-color: #000;"></div>
      <div style="position: absolute; bottom: 2mm; left: 2mm; width: 5mm; height: 5mm; background-color: #000;"></div>
      <div style="position: absolute; bottom: 2mm; right: 2mm; width: 5mm; height: 5mm; background-color: #000;"></div>

      <div style="display: flex; justify-content: space-between; align-items: flex-start; border-bottom: 1px solid #ccc; padding-bottom: 3mm; margin-bottom: 3mm;">
          <div>
              <h3 style="margin: 0; font-size: 13px; font-weight: bold;">FOLHA DE RESPOSTAS</h3>
              <p style="font-size: 9px; margin: 1.5mm 0 0 0; color: #555;">Use caneta preta ou azul. Preencha completamente a bolha da alternativa correta.</p>
          </div>
`)
	if qrDataURL != "" {
		fmt.Fprintf(&b, `          <img src="%s" style="width: 22mm; height: 22mm;" alt="QR Code">`+"\n", qrDataURL)
	}
	b.WriteString(`      </div>

      <div style="display: flex; gap: 4mm; justify-content: space-between;">
`)

	for _, column := range SheetGrid(len(items)) {
		b.WriteString(`<div style="flex: 1; display: flex; flex-direction: column;">`)
		for _, idx := range column {
			writeQuestionBubbles(&b, &items[idx], idx+1)
		}
		b.WriteString(`</div>`)
	}

	b.WriteString(`</div></div>`)
	return b.String()
}

// writeQuestionBubbles emits one question's region. Every region is
// break-inside avoided: a question's bubbles never split across pages.
func writeQuestionBubbles(b *strings.Builder, item *model.Item, questionNumber int) {
	switch item.TipoItem {
	case model.ItemFreeResponse:
		fmt.Fprintf(b, `
        <div style="display: flex; align-items: center; margin: 1mm 0; break-inside: avoid;">
          <span style="font-weight: bold; margin-right: 1.5mm; min-width: 6mm; font-size: 9px;">%d</span>
          <span style="font-size: 8px; font-style: italic; color: #555;">Item discursivo</span>
        </div>
`, questionNumber)

	case model.ItemMultipleChoice:
		fmt.Fprintf(b, `
        <div style="display: flex; align-items: center; margin: 1mm 0; break-inside: avoid;">
          <span style="font-weight: bold; margin-right: 1.5mm; min-width: 6mm; font-size: 9px;">%d</span>
          <div style="display: flex; gap: 1mm; flex-wrap: wrap;">
`, questionNumber)
		for altIndex := range item.ValidAlternativas() {
			fmt.Fprintf(b, `          <div class="bubble" style="width: 4.5mm; height: 4.5mm; border: 1.2px solid #333; border-radius: 50%%; background: white; display: flex; align-items: center; justify-content: center; font-size: 7px; font-weight: bold; color: #333;">%c</div>`+"\n",
				rune('A'+altIndex))
		}
		b.WriteString(`</div></div>`)

	case model.ItemTrueFalse:
		fmt.Fprintf(b, `
        <div style="margin: 1mm 0; break-inside: avoid;">
          <div style="display: flex; align-items: center; margin-bottom: 0.5mm;">
            <span style="font-weight: bold; font-size: 9px;">%d</span>
          </div>
`, questionNumber)
		for afirmIndex := range item.ValidAfirmativas() {
			fmt.Fprintf(b, `
          <div style="display: flex; align-items: center; gap: 1mm; margin: 0.5mm 0 0.5mm 4mm;">
            <span style="font-size: 7px; font-weight: bold; min-width: 3mm;">%d:</span>
            <div class="bubble" style="width: 4mm; height: 4mm; border: 1.2px solid #333; border-radius: 50%%; background: white; display: flex; align-items: center; justify-content: center; font-size: 6px; font-weight: bold; color: #333;">V</div>
            <div class="bubble" style="width: 4mm; height: 4mm; border: 1.2px solid #333; border-radius: 50%%; background: white; display: flex; align-items: center; justify-content: center; font-size: 6px; font-weight: bold; color: #333;">F</div>
          </div>
`, afirmIndex+1)
		}
		b.WriteString(`</div>`)
	}
}
