package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/avaliafacil/pdf-service/internal/answerkey"
	"github.com/avaliafacil/pdf-service/internal/compose"
	"github.com/avaliafacil/pdf-service/internal/merge"
	"github.com/avaliafacil/pdf-service/internal/metrics"
	"github.com/avaliafacil/pdf-service/internal/model"
	"github.com/avaliafacil/pdf-service/internal/render"
)

// Page margins in millimeters. The questions fragment reserves extra top
// margin for the running title header.
const (
	coverMarginMM        = 7.5
	questionsTopMarginMM = 25
)

// PDFService orchestrates the full pipeline for one request: answer key and
// QR, document composition, two sequential renders inside one engine
// process, and the final merge.
type PDFService struct {
	renderer *render.Renderer
	log      zerolog.Logger
}

// NewPDFService creates a PDFService.
func NewPDFService(renderer *render.Renderer, log zerolog.Logger) *PDFService {
	return &PDFService{renderer: renderer, log: log}
}

// Generate produces the final merged PDF for an assessment payload. Either
// the complete artifact is returned or an error; a lone fragment is never
// surfaced.
func (s *PDFService) Generate(ctx context.Context, payload *model.AssessmentPayload) ([]byte, error) {
	start := time.Now()
	artifact, err := s.generate(ctx, payload)
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.PipelineDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	return artifact, err
}

func (s *PDFService) generate(ctx context.Context, payload *model.AssessmentPayload) ([]byte, error) {
	log := s.log.With().
		Str("assessment_id", payload.AssessmentID).
		Int("items", len(payload.SelectedItems)).
		Logger()

	// Answer key and QR code. QR failure is recovered here: the sheet is
	// printed without a barcode rather than failing the request.
	qrDataURL := ""
	keyPayload := answerkey.BuildPayload(payload, time.Now())
	encoded, err := keyPayload.Encode()
	if err != nil {
		log.Error().Err(err).Msg("answer key encoding failed, printing sheet without barcode")
	} else {
		qrDataURL = answerkey.DataURL(encoded, log)
	}

	coverDoc := render.Document{
		HTML: compose.CoverDocument(payload, qrDataURL, log),
		Options: render.PDFOptions{
			MarginTopMM:    coverMarginMM,
			MarginRightMM:  coverMarginMM,
			MarginBottomMM: coverMarginMM,
			MarginLeftMM:   coverMarginMM,
		},
	}
	questionsDoc := render.Document{
		HTML: compose.QuestionsDocument(payload),
		Options: render.PDFOptions{
			MarginTopMM:    questionsTopMarginMM,
			MarginRightMM:  coverMarginMM,
			MarginBottomMM: coverMarginMM,
			MarginLeftMM:   coverMarginMM,
			HeaderHTML:     compose.RunningHeader(compose.HeaderTitle(payload)),
		},
	}

	coverPDF, questionsPDF, err := s.renderer.Render(ctx, coverDoc, questionsDoc)
	if err != nil {
		return nil, err
	}

	artifact, err := merge.Merge(coverPDF, questionsPDF, payload.BlankSeparator())
	if err != nil {
		return nil, err
	}

	if pages, err := merge.PageCount(artifact); err == nil {
		log.Info().Int("pages", pages).Int("bytes", len(artifact)).Msg("PDF generated")
	}
	return artifact, nil
}
