package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var slideEntryRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// extractPPTX treats the file as a container of per-slide markup entries.
// Slides are processed in ascending slide-number order (the archive's own
// enumeration order is not guaranteed to be numeric), text runs within a
// slide are joined with single spaces, empty slides are dropped, and
// surviving slides are separated by a blank line.
func extractPPTX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	type slideEntry struct {
		num  int
		file *zip.File
	}
	var slides []slideEntry
	for _, f := range zr.File {
		m := slideEntryRe.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides = append(slides, slideEntry{num: n, file: f})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	var texts []string
	for _, s := range slides {
		rc, err := s.file.Open()
		if err != nil {
			return "", err
		}
		text, err := textFromSlideXML(rc)
		rc.Close()
		if err != nil {
			return "", err
		}
		if text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "\n\n"), nil
}

// textFromSlideXML collects the content of every text-run node (a:t) in
// document order.
func textFromSlideXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		runs   []string
		inText bool
		buf    bytes.Buffer
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
				buf.Reset()
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
				runs = append(runs, buf.String())
			}
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		}
	}
	return strings.TrimSpace(strings.Join(runs, " ")), nil
}
