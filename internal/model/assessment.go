package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Item kinds as produced by the authoring UI.
const (
	ItemMultipleChoice = "multipla_escolha"
	ItemTrueFalse      = "verdadeiro_falso"
	ItemFreeResponse   = "discursiva"
)

// Page layout modes. LayoutThreePages inserts one blank page between the
// cover/answer-sheet fragment and the question pages.
const (
	LayoutTwoPages   = "pagina2"
	LayoutThreePages = "pagina3"
)

// FlexInt unmarshals from a JSON number or a numeric string. The authoring
// UI is inconsistent about which one it sends for line counts and image
// dimensions.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Tolerate garbage the same way parseInt-based consumers did:
		// fall back to zero instead of rejecting the whole payload.
		*f = 0
		return nil
	}
	*f = FlexInt(n)
	return nil
}

// Int returns the plain int value.
func (f FlexInt) Int() int { return int(f) }

var _ json.Unmarshaler = (*FlexInt)(nil)

// Item is one exam question.
type Item struct {
	TipoItem  string `json:"tipoItem" binding:"required,oneof=multipla_escolha verdadeiro_falso discursiva"`
	TextoItem string `json:"textoItem"`

	// multipla_escolha
	Alternativas    []string `json:"alternativas"`
	RespostaCorreta string   `json:"respostaCorreta"`

	// verdadeiro_falso: a fixed primary statement list plus an appendable
	// extra list, graded by two parallel truth-value lists.
	Afirmativas               []string `json:"afirmativas"`
	AfirmativasExtras         []string `json:"afirmativasExtras"`
	GabaritoAfirmativas       []string `json:"gabaritoAfirmativas"`
	GabaritoAfirmativasExtras []string `json:"gabaritoAfirmativasExtras"`

	// discursiva
	QuantidadeLinhas FlexInt `json:"quantidadeLinhas"`
}

// ValidAlternativas returns the options with blank entries removed.
// Blank entries never consume a letter or an answer-sheet bubble, so every
// consumer must count and number over this list, never the raw one.
func (i *Item) ValidAlternativas() []string {
	return filterBlank(i.Alternativas)
}

// AllAfirmativas returns primary and extra statements concatenated in order,
// before blank filtering.
func (i *Item) AllAfirmativas() []string {
	out := make([]string, 0, len(i.Afirmativas)+len(i.AfirmativasExtras))
	out = append(out, i.Afirmativas...)
	out = append(out, i.AfirmativasExtras...)
	return out
}

// ValidAfirmativas returns the concatenated statement list with blank
// entries removed.
func (i *Item) ValidAfirmativas() []string {
	return filterBlank(i.AllAfirmativas())
}

// GabaritoForValid returns the concatenated truth-value list truncated to
// the filtered statement count, keeping answers and statements parallel.
func (i *Item) GabaritoForValid() []string {
	all := make([]string, 0, len(i.GabaritoAfirmativas)+len(i.GabaritoAfirmativasExtras))
	all = append(all, i.GabaritoAfirmativas...)
	all = append(all, i.GabaritoAfirmativasExtras...)
	n := len(i.ValidAfirmativas())
	if n > len(all) {
		n = len(all)
	}
	return all[:n]
}

func filterBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// AssessmentPayload is the unit the PDF pipeline consumes: ordered items
// (order is exam question order) plus header metadata and presentation
// options. Field names match the authoring UI wire format.
type AssessmentPayload struct {
	SelectedItems []Item `json:"selectedItems" binding:"dive"`

	AssessmentID  string `json:"assessmentId"`
	StudentID     string `json:"studentId"`
	NomeAvaliacao string `json:"nomeAvaliacao"`

	NomeEscola           string `json:"nomeEscola"`
	Professor            string `json:"professor"`
	Turma                string `json:"turma"`
	Data                 string `json:"data"`
	ComponenteCurricular string `json:"componenteCurricular"`
	Instrucoes           string `json:"instrucoes"`
	TipoAvaliacao        string `json:"tipoAvaliacao"`
	MostrarTipoAvaliacao bool   `json:"mostrarTipoAvaliacao"`

	// HeaderImage is a base64 data URL; dimensions are millimeters.
	HeaderImage string  `json:"headerImage"`
	ImageWidth  FlexInt `json:"imageWidth"`
	ImageHeight FlexInt `json:"imageHeight"`

	LayoutPaginas string `json:"layoutPaginas" binding:"omitempty,oneof=pagina2 pagina3"`
	Columns       string `json:"columns" binding:"omitempty,oneof=1 2"`
}

// TwoColumns reports whether the questions document uses the two-column layout.
func (p *AssessmentPayload) TwoColumns() bool { return p.Columns == "2" }

// BlankSeparator reports whether a blank page goes between cover and questions.
func (p *AssessmentPayload) BlankSeparator() bool { return p.LayoutPaginas == LayoutThreePages }
