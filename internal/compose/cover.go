package compose

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/avaliafacil/pdf-service/internal/model"
)

// CoverDocument builds the self-contained cover page: header block, optional
// type banner and instructions, then the bubble answer sheet with the
// embedded QR code. A zero-item payload still yields a valid document with
// an empty sheet region.
func CoverDocument(p *model.AssessmentPayload, qrDataURL string, log zerolog.Logger) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><style>%s</style></head>
<body>
  %s
  <div style="font-weight: bold; margin: 4mm 0; font-size: 14px;">FOLHA DE RESPOSTAS:</div>
  %s
</body>
</html>
`, coverCSS, pageHeader(p), AnswerSheet(p.SelectedItems, qrDataURL, log))
}
