package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF walks pages in ascending order, joins each page's text runs
// with single spaces and separates pages by a blank line.
func extractPDF(data []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs; surface those as
	// ordinary errors so a bad upload cannot take the process down.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf decode: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		runs := make([]string, 0, len(content.Text))
		for _, t := range content.Text {
			if s := strings.TrimSpace(t.S); s != "" {
				runs = append(runs, s)
			}
		}
		b.WriteString(strings.Join(runs, " "))
		b.WriteString("\n\n")
	}
	return b.String(), nil
}
