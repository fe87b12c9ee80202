package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avaliafacil/pdf-service/internal/config"
	"github.com/avaliafacil/pdf-service/internal/handler"
	"github.com/avaliafacil/pdf-service/internal/merge"
	"github.com/avaliafacil/pdf-service/internal/render"
	"github.com/avaliafacil/pdf-service/internal/router"
	"github.com/avaliafacil/pdf-service/internal/service"
	"github.com/avaliafacil/pdf-service/internal/validator"
)

// ─── Stub engine producing real (minimal) PDFs ──────────────────────────────

type stubTab struct{ pdf []byte }

func (t *stubTab) SetContent(context.Context, string) error { return nil }
func (t *stubTab) Rasterize(context.Context, render.PDFOptions) ([]byte, error) {
	return t.pdf, nil
}
func (t *stubTab) IsAlive() bool { return true }
func (t *stubTab) Close()       {}

type stubHandle struct {
	pdfs [][]byte
	next int
}

func (h *stubHandle) NewTab(context.Context) (render.Tab, error) {
	pdf := h.pdfs[h.next%len(h.pdfs)]
	h.next++
	return &stubTab{pdf: pdf}, nil
}
func (h *stubHandle) IsAlive() bool { return true }
func (h *stubHandle) Close()       {}

// stubEngine serves fresh handles whose first tab yields the cover fragment
// and second the questions fragment.
type stubEngine struct {
	coverPages    int
	questionPages int
	acquireErr    error
}

func (e *stubEngine) Acquire(context.Context) (render.Handle, error) {
	if e.acquireErr != nil {
		return nil, e.acquireErr
	}
	return &stubHandle{pdfs: [][]byte{makePDF(e.coverPages), makePDF(e.questionPages)}}, nil
}

// makePDF builds a minimal valid PDF with the given page count.
func makePDF(pages int) []byte {
	var buf bytes.Buffer
	var offsets []int
	write := func(s string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(s)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, pages)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}

	write("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	write(fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n",
		strings.Join(kids, " "), pages))
	for i := 0; i < pages; i++ {
		write(fmt.Sprintf("%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] >>\nendobj\n", i+3))
	}

	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefPos)
	return buf.Bytes()
}

// ─── Fixture ────────────────────────────────────────────────────────────────

func newTestServer(engine render.Engine) *gin.Engine {
	validator.Setup()
	cfg := &config.Config{
		GinMode:          gin.TestMode,
		MaxBodyBytes:     1 << 20,
		PDFRatePerMinute: 1000,
	}
	log := zerolog.Nop()
	renderer := render.NewRenderer(engine, render.Config{LaunchAttempts: 2, ContentAttempts: 2}, log)
	pdfService := service.NewPDFService(renderer, log)
	return router.SetupRouter(&router.Handlers{
		PDF: handler.NewPDFHandler(pdfService, log),
	}, cfg)
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const validPayload = `{
	"assessmentId": "av-123",
	"nomeAvaliacao": "Prova Bimestral",
	"nomeEscola": "Escola Municipal",
	"selectedItems": [
		{
			"tipoItem": "multipla_escolha",
			"textoItem": "<p>Quanto é 2+2?</p>",
			"alternativas": ["3", "4", "5", "6"],
			"respostaCorreta": "B"
		}
	]
}`

// ─── Tests ──────────────────────────────────────────────────────────────────

func TestGeneratePDFReturnsMergedArtifact(t *testing.T) {
	r := newTestServer(&stubEngine{coverPages: 2, questionPages: 3})

	w := postJSON(r, "/api/generate-pdf", validPayload)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="avaliacao.pdf"`, w.Header().Get("Content-Disposition"))

	pages, err := merge.PageCount(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 5, pages, "cover pages followed by question pages")
}

func TestGeneratePDFThreePageLayoutInsertsBlankPage(t *testing.T) {
	r := newTestServer(&stubEngine{coverPages: 2, questionPages: 3})

	payload := strings.Replace(validPayload, `"assessmentId": "av-123",`,
		`"assessmentId": "av-123", "layoutPaginas": "pagina3",`, 1)
	w := postJSON(r, "/api/generate-pdf", payload)

	require.Equal(t, http.StatusOK, w.Code)
	pages, err := merge.PageCount(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 6, pages)
}

func TestPreviewPDFServesInline(t *testing.T) {
	r := newTestServer(&stubEngine{coverPages: 1, questionPages: 1})

	w := postJSON(r, "/api/preview-pdf", validPayload)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `inline; filename="avaliacao.pdf"`, w.Header().Get("Content-Disposition"))
}

func TestGeneratePDFRejectsUnknownItemKind(t *testing.T) {
	r := newTestServer(&stubEngine{coverPages: 1, questionPages: 1})

	w := postJSON(r, "/api/generate-pdf",
		`{"selectedItems": [{"tipoItem": "dissertativa"}]}`)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Payload inválido", body["error"])
	assert.Contains(t, body["details"], "tipoItem")
	_, err := time.Parse(time.RFC3339, body["timestamp"])
	assert.NoError(t, err)
}

func TestGeneratePDFRejectsMalformedJSON(t *testing.T) {
	r := newTestServer(&stubEngine{coverPages: 1, questionPages: 1})

	w := postJSON(r, "/api/generate-pdf", `{"selectedItems": [`)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Payload inválido", body["error"])
}

func TestGeneratePDFEngineUnavailable(t *testing.T) {
	r := newTestServer(&stubEngine{acquireErr: errors.New("spawn ENOENT")})

	w := postJSON(r, "/api/generate-pdf", validPayload)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Erro interno ao gerar o PDF", body["error"])
	assert.Contains(t, body["details"], render.ErrEngineUnavailable.Error())
	assert.Contains(t, body["details"], "spawn ENOENT", "root cause surfaces in the details")
	_, err := time.Parse(time.RFC3339, body["timestamp"])
	assert.NoError(t, err)
}

func TestHealth(t *testing.T) {
	r := newTestServer(&stubEngine{coverPages: 1, questionPages: 1})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "Serviço de geração de PDF operacional", body["message"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	r := newTestServer(&stubEngine{coverPages: 1, questionPages: 1})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}