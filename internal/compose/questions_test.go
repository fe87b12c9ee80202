package compose

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avaliafacil/pdf-service/internal/model"
)

const ruledLine = "border-bottom: 1px solid #9ca3af"

func TestQuestionsDocumentListsEveryItem(t *testing.T) {
	p := &model.AssessmentPayload{SelectedItems: manyMultipleChoice(61)}

	html := QuestionsDocument(p)
	// The bubble sheet caps at 60, the question pages never truncate.
	assert.Equal(t, 61, strings.Count(html, `<div class="question">`))
	assert.Contains(t, html, ">61.</span>")
}

func TestQuestionsDocumentOptionLettering(t *testing.T) {
	p := &model.AssessmentPayload{SelectedItems: []model.Item{{
		TipoItem:     model.ItemMultipleChoice,
		Alternativas: []string{"um texto", "", "outro texto", "mais um"},
	}}}

	html := QuestionsDocument(p)
	assert.Contains(t, html, ">A)</span>")
	assert.Contains(t, html, ">B)</span>")
	assert.Contains(t, html, ">C)</span>")
	assert.NotContains(t, html, ">D)</span>", "lettering covers only filtered options")
}

func TestQuestionsDocumentTrueFalsePlaceholders(t *testing.T) {
	p := &model.AssessmentPayload{SelectedItems: []model.Item{{
		TipoItem:          model.ItemTrueFalse,
		Afirmativas:       []string{"s1", "", "s3"},
		AfirmativasExtras: []string{"extra"},
	}}}

	html := QuestionsDocument(p)
	// One "( )" marking placeholder per filtered statement.
	assert.Equal(t, 3, strings.Count(html, "( )"))
	assert.Contains(t, html, ">1.</span>")
	assert.Contains(t, html, ">3.</span>")
}

func TestQuestionsDocumentFreeResponseLines(t *testing.T) {
	doc := func(lines model.FlexInt, columns string) string {
		return QuestionsDocument(&model.AssessmentPayload{
			Columns: columns,
			SelectedItems: []model.Item{{
				TipoItem:         model.ItemFreeResponse,
				QuantidadeLinhas: lines,
			}},
		})
	}

	assert.Equal(t, 12, strings.Count(doc(12, "1"), ruledLine))
	assert.Equal(t, 5, strings.Count(doc(0, "1"), ruledLine), "default line count")
	assert.Equal(t, 40, strings.Count(doc(99, "1"), ruledLine), "single column cap")
	assert.Equal(t, 35, strings.Count(doc(99, "2"), ruledLine), "two column cap")
}

func TestQuestionsDocumentColumnModes(t *testing.T) {
	p := &model.AssessmentPayload{SelectedItems: manyMultipleChoice(2)}

	single := QuestionsDocument(p)
	assert.Contains(t, single, `questions-container single-column`)

	p.Columns = "2"
	double := QuestionsDocument(p)
	assert.Contains(t, double, `questions-container two-column`)

	// Column mode never changes content or ordering.
	assert.Equal(t,
		strings.Count(single, `<div class="question">`),
		strings.Count(double, `<div class="question">`))
}

func TestQuestionsDocumentSeparators(t *testing.T) {
	p := &model.AssessmentPayload{SelectedItems: manyMultipleChoice(3)}

	html := QuestionsDocument(p)
	assert.Equal(t, 3, strings.Count(html, `class="question-separator"`))
	// Last separator is suppressed by CSS, not by the builder.
	assert.Contains(t, html, ".question:last-child .question-separator")
}

func TestQuestionsDocumentRichTextPromptPassthrough(t *testing.T) {
	p := &model.AssessmentPayload{SelectedItems: []model.Item{{
		TipoItem:  model.ItemFreeResponse,
		TextoItem: `<p>Explique a <strong>fotossíntese</strong>.</p>`,
	}}}

	html := QuestionsDocument(p)
	assert.Contains(t, html, `<strong>fotossíntese</strong>`)
	assert.Contains(t, html, `class="ql-editor"`)
}

func TestQuestionsDocumentEmptyPayload(t *testing.T) {
	html := QuestionsDocument(&model.AssessmentPayload{})
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.NotContains(t, html, `<div class="question">`)
}

func TestHeaderTitle(t *testing.T) {
	assert.Equal(t, DefaultHeaderTitle, HeaderTitle(&model.AssessmentPayload{}))
	assert.Equal(t, DefaultHeaderTitle, HeaderTitle(&model.AssessmentPayload{NomeAvaliacao: "   "}))
	assert.Equal(t, "PROVA FINAL", HeaderTitle(&model.AssessmentPayload{NomeAvaliacao: " prova final "}))
}

func TestRunningHeaderEscapesTitle(t *testing.T) {
	html := RunningHeader(`PROVA <X>`)
	assert.Contains(t, html, "PROVA &lt;X&gt;")
}
