package answerkey

import (
	"encoding/base64"

	"github.com/rs/zerolog"
	qrcode "github.com/skip2/go-qrcode"
)

// qrSize is the raster size in pixels; the sheet prints it at 22mm.
const qrSize = 256

// DataURL renders content as a QR PNG and returns it as an embeddable
// data URL. Generation failure is non-fatal: the document must still be
// produced, so the error is logged and an empty string returned, which the
// composer turns into an empty barcode region.
func DataURL(content string, log zerolog.Logger) string {
	png, err := qrcode.Encode(content, qrcode.Medium, qrSize)
	if err != nil {
		log.Error().Err(err).Int("payload_len", len(content)).Msg("QR code generation failed, printing sheet without barcode")
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
