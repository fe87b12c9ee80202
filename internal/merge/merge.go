// Package merge assembles the final PDF artifact from the two rendered
// fragments. Pages are copied byte-faithfully; nothing is re-rasterized.
package merge

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func configuration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	// Chrome's PrintToPDF output is occasionally sloppy about optional
	// metadata; relaxed validation keeps those fragments mergeable.
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Merge concatenates the cover fragment's pages followed by the questions
// fragment's pages. With blankSeparator set, exactly one blank page goes
// between them (the 3-page print layout: front, back, questions). Any
// malformed fragment is fatal.
func Merge(cover, questions []byte, blankSeparator bool) ([]byte, error) {
	if len(cover) == 0 || len(questions) == 0 {
		return nil, fmt.Errorf("merge: empty fragment (cover=%d bytes, questions=%d bytes)", len(cover), len(questions))
	}

	fragments := []io.ReadSeeker{
		bytes.NewReader(cover),
		bytes.NewReader(questions),
	}

	var out bytes.Buffer
	if err := api.MergeRaw(fragments, &out, blankSeparator, configuration()); err != nil {
		return nil, fmt.Errorf("merge fragments: %w", err)
	}
	return out.Bytes(), nil
}

// PageCount reports the number of pages in a PDF byte buffer.
func PageCount(pdf []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(pdf), configuration())
	if err != nil {
		return 0, fmt.Errorf("page count: %w", err)
	}
	return n, nil
}
