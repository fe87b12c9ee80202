// Package answerkey derives the grading key for an assessment and encodes it
// as the QR payload printed on the answer sheet.
//
// Numbering contract shared with the grading side: scored units are dense,
// sequential, in payload order, skipping free-response items. A multiple
// choice item is one scored unit; a true/false item is one unit per filtered
// statement. Entries is the single source of that numbering — grading code
// must consume it rather than re-derive it.
package answerkey

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/avaliafacil/pdf-service/internal/model"
)

// Entry is one scored unit in the dense grading key.
type Entry struct {
	Numero   int    // dense position, 1-based, across the whole assessment
	Tipo     string // item kind the unit belongs to
	Resposta string // correct letter for multiple choice, "V"/"F" per statement
	// Alternativas is the filtered option count, multiple choice only.
	Alternativas int
}

// Entries derives the dense scored-unit list from the ordered item list.
// Free-response items contribute no entries.
func Entries(items []model.Item) []Entry {
	var entries []Entry
	numero := 0

	for idx := range items {
		item := &items[idx]
		switch item.TipoItem {
		case model.ItemMultipleChoice:
			numero++
			entries = append(entries, Entry{
				Numero:       numero,
				Tipo:         model.ItemMultipleChoice,
				Resposta:     item.RespostaCorreta,
				Alternativas: len(item.ValidAlternativas()),
			})
		case model.ItemTrueFalse:
			for _, resp := range item.GabaritoForValid() {
				numero++
				entries = append(entries, Entry{
					Numero:   numero,
					Tipo:     model.ItemTrueFalse,
					Resposta: resp,
				})
			}
		}
	}
	return entries
}

// Record is one per-scored-item entry inside the QR payload. This is the
// wire shape the scanning/grading collaborator reads; numero here is the
// printed question number, not the dense unit position.
type Record struct {
	Numero          int      `json:"numero"`
	Tipo            string   `json:"tipo"`
	RespostaCorreta string   `json:"respostaCorreta,omitempty"`
	Gabarito        []string `json:"gabarito,omitempty"`
	Alternativas    int      `json:"alternativas,omitempty"`
	Afirmativas     int      `json:"afirmativas,omitempty"`
}

// Records builds the per-item QR records in payload order. Free-response
// items are skipped entirely.
func Records(items []model.Item) []Record {
	var records []Record
	for idx := range items {
		item := &items[idx]
		questionNumber := idx + 1

		switch item.TipoItem {
		case model.ItemMultipleChoice:
			records = append(records, Record{
				Numero:          questionNumber,
				Tipo:            model.ItemMultipleChoice,
				RespostaCorreta: item.RespostaCorreta,
				Alternativas:    len(item.ValidAlternativas()),
			})
		case model.ItemTrueFalse:
			valid := item.ValidAfirmativas()
			records = append(records, Record{
				Numero:      questionNumber,
				Tipo:        model.ItemTrueFalse,
				Gabarito:    item.GabaritoForValid(),
				Afirmativas: len(valid),
			})
		}
	}
	return records
}

// Payload is the full QR content bound to one printed assessment.
type Payload struct {
	AssessmentID  string   `json:"assessmentId"`
	NomeAvaliacao string   `json:"nomeAvaliacao"`
	StudentID     string   `json:"studentId"`
	Timestamp     int64    `json:"timestamp"`
	Gabarito      []Record `json:"gabarito"`
	TotalQuestoes int      `json:"totalQuestoes"`
}

// BuildPayload assembles the QR payload for an assessment. now feeds both
// the timestamp field and the fallback assessment id, so rebuilding with
// the same clock yields an identical payload.
func BuildPayload(p *model.AssessmentPayload, now time.Time) Payload {
	records := Records(p.SelectedItems)

	assessmentID := p.AssessmentID
	if assessmentID == "" {
		assessmentID = fmt.Sprintf("avaliacao_%d", now.UnixMilli())
	}
	nome := p.NomeAvaliacao
	if nome == "" {
		nome = "Avaliação"
	}
	studentID := p.StudentID
	if studentID == "" {
		studentID = "aluno"
	}

	return Payload{
		AssessmentID:  assessmentID,
		NomeAvaliacao: nome,
		StudentID:     studentID,
		Timestamp:     now.UnixMilli(),
		Gabarito:      records,
		TotalQuestoes: len(records),
	}
}

// Encode serializes the payload to the compact JSON string the QR carries.
func (p Payload) Encode() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode answer key payload: %w", err)
	}
	return string(b), nil
}
