package compose

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avaliafacil/pdf-service/internal/model"
)

func manyMultipleChoice(n int) []model.Item {
	items := make([]model.Item, n)
	for i := range items {
		items[i] = model.Item{
			TipoItem:        model.ItemMultipleChoice,
			Alternativas:    []string{"a", "b", "c", "d"},
			RespostaCorreta: "A",
		}
	}
	return items
}

func TestSheetColumnForStrictPartition(t *testing.T) {
	assert.Equal(t, 0, SheetColumnFor(0))
	assert.Equal(t, 0, SheetColumnFor(14))
	assert.Equal(t, 1, SheetColumnFor(15))
	assert.Equal(t, 2, SheetColumnFor(30))
	assert.Equal(t, 3, SheetColumnFor(45))
	assert.Equal(t, 3, SheetColumnFor(59))
}

func TestSheetGridBlockPartition(t *testing.T) {
	grid := SheetGrid(33)
	require.Len(t, grid, 4)
	assert.Equal(t, 15, len(grid[0]))
	assert.Equal(t, 15, len(grid[1]))
	assert.Equal(t, 3, len(grid[2]))
	assert.Empty(t, grid[3])

	// Column c holds exactly indices [c*15, c*15+15).
	assert.Equal(t, 0, grid[0][0])
	assert.Equal(t, 14, grid[0][14])
	assert.Equal(t, 15, grid[1][0])
	assert.Equal(t, 32, grid[2][2])
}

func TestSheetGridCapsAtCapacity(t *testing.T) {
	grid := SheetGrid(61)
	total := 0
	for _, col := range grid {
		total += len(col)
	}
	assert.Equal(t, 60, total, "items past the physical sheet capacity are omitted")
}

func TestAnswerSheetBubbleLetteringOverFilteredOptions(t *testing.T) {
	items := []model.Item{{
		TipoItem:     model.ItemMultipleChoice,
		Alternativas: []string{"um texto", "", "outro texto", "mais um"},
	}}

	html := AnswerSheet(items, "", zerolog.Nop())
	assert.Equal(t, 3, strings.Count(html, `class="bubble"`), "blank options never get a bubble")
	assert.Contains(t, html, ">A</div>")
	assert.Contains(t, html, ">C</div>")
	assert.NotContains(t, html, ">D</div>")
}

func TestAnswerSheetTrueFalseRows(t *testing.T) {
	items := []model.Item{{
		TipoItem:            model.ItemTrueFalse,
		Afirmativas:         []string{"s1", "s2", "s3"},
		AfirmativasExtras:   []string{"extra"},
		GabaritoAfirmativas: []string{"V", "F", "V", "F"},
	}}

	html := AnswerSheet(items, "", zerolog.Nop())
	// One V and one F bubble per filtered statement.
	assert.Equal(t, 8, strings.Count(html, `class="bubble"`))
	assert.Contains(t, html, ">V</div>")
	assert.Contains(t, html, ">F</div>")
}

func TestAnswerSheetFreeResponsePlaceholder(t *testing.T) {
	items := []model.Item{{TipoItem: model.ItemFreeResponse, QuantidadeLinhas: 10}}

	html := AnswerSheet(items, "", zerolog.Nop())
	assert.Contains(t, html, "Item discursivo")
	assert.NotContains(t, html, `class="bubble"`)
}

func TestAnswerSheetFiducialMarkers(t *testing.T) {
	html := AnswerSheet(manyMultipleChoice(1), "", zerolog.Nop())
	assert.Equal(t, 4, strings.Count(html, "background-color: #000"), "four corner markers")
}

func TestAnswerSheetQRCodeEmbedding(t *testing.T) {
	withQR := AnswerSheet(manyMultipleChoice(1), "data:image/png;base64,AAAA", zerolog.Nop())
	assert.Contains(t, withQR, `<img src="data:image/png;base64,AAAA"`)

	withoutQR := AnswerSheet(manyMultipleChoice(1), "", zerolog.Nop())
	assert.NotContains(t, withoutQR, "<img")
}

func TestAnswerSheetTruncatesPastCapacity(t *testing.T) {
	html := AnswerSheet(manyMultipleChoice(61), "", zerolog.Nop())
	// 60 questions x 4 bubbles each; question 61 is not on the sheet.
	assert.Equal(t, 240, strings.Count(html, `class="bubble"`))
	assert.Contains(t, html, ">60</span>")
	assert.NotContains(t, html, ">61</span>")
}

func TestAnswerSheetEmptyItems(t *testing.T) {
	assert.Empty(t, AnswerSheet(nil, "", zerolog.Nop()))
}
