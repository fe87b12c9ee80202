package compose

// quillCSS is the subset of the Quill editor stylesheet the rendered
// documents need. Prompts arrive as Quill HTML fragments wrapped in
// .ql-editor, so the print output has to agree with what the teacher saw
// in the editor.
const quillCSS = `
.ql-editor { font-family: inherit; font-size: inherit; line-height: inherit; }
.ql-editor p { margin-bottom: 8px; }
.ql-editor h1, .ql-editor h2, .ql-editor h3 { margin-bottom: 12px; margin-top: 16px; }
.ql-editor ul, .ql-editor ol { margin-bottom: 12px; padding-left: 20px; }
.ql-editor img { max-width: 100%; height: auto; display: block; margin: 8px 0; }
.ql-editor strong { font-weight: bold; }
.ql-editor em { font-style: italic; }
.ql-editor u { text-decoration: underline; }
`

const coverCSS = quillCSS + `
@page { size: A4; margin: 7.5mm; }
body { font-family: Arial, sans-serif; }

.header-standard { border: 1px solid #000; margin-bottom: 4mm; }
.header-row { display: flex; border-bottom: 1px solid #000; min-height: 6mm; align-items: center; }
.header-row:last-child { border-bottom: none; }
.header-cell { padding: 2px 8px; font-size: 14px; display: flex; align-items: center; }
.header-cell-full { flex: 1; }
.header-cell-split { flex: 1; border-right: 1px solid #000; }
.header-cell-date { flex: 0 0 auto; min-width: 120px; padding-left: 8px; }

@media print {
  body {
    -webkit-print-color-adjust: exact;
    print-color-adjust: exact;
  }
  .header-standard { border: 1px solid #000 !important; }
  .header-row { border-bottom: 1px solid #000 !important; }
}
`

// questionsCSS drives both column modes; the container class picks one.
// Question blocks are page-break-atomic, separators are suppressed on the
// last block via CSS so the builder never special-cases it.
const questionsCSS = quillCSS + `
@page {
  size: A4;
  margin: 17mm 8mm 5mm 8mm;
}

body {
  font-family: Arial, sans-serif;
  margin: 0;
  padding: 0;
}

.questions-container {
  margin-top: 0;
}

.questions-container.two-column {
  column-count: 2;
  column-gap: 8mm;
  column-rule: 1px solid #313030ff;
}

.questions-container.single-column {
  width: 100%;
}

.question {
  width: 100%;
  break-inside: avoid;
  page-break-inside: avoid;
  -webkit-column-break-inside: avoid;
  margin-bottom: 2mm;
  box-sizing: border-box;
}

.question-separator {
  border-bottom: 1px solid #858383ff;
  margin-top: 2mm;
  margin: 0mm 14mm 0mm 0mm;
}

.question:last-child .question-separator {
  display: none;
}

.ql-editor img {
  max-width: 100% !important;
  height: auto !important;
  object-fit: contain !important;
  max-height: 40vh !important;
}

.ql-editor {
  padding: 0 !important;
  font-size: 14px;
  line-height: 1.4;
  overflow: hidden;
  max-width: 100%;
  box-sizing: border-box;
}
`
