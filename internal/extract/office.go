package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// OOXML word-processor and presentation documents are zip containers of XML
// parts, so they are decoded here with the same zip plumbing the archive
// traversal uses plus a streaming XML token walk.

// extractWordDocument concatenates docx paragraph text in document order,
// newline-joined.
func extractWordDocument(data []byte) Outcome {
	part, err := readOOXMLPart(data, "word/document.xml")
	if err != nil {
		return failed(fmt.Sprintf("opening docx: %v", err))
	}

	paragraphs, err := collectXMLText(part, "p", "t")
	if err != nil {
		return failed(fmt.Sprintf("parsing docx: %v", err))
	}
	return ok(strings.Join(paragraphs, "\n"))
}

// slidePattern matches presentation slide parts and captures the slide number
var slidePattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// extractPresentation concatenates the text of every shape that carries a
// text body, across slides in slide order, newline-joined.
func extractPresentation(data []byte) Outcome {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return failed(fmt.Sprintf("opening pptx: %v", err))
	}

	type slidePart struct {
		number int
		file   *zip.File
	}
	var slides []slidePart
	for _, f := range reader.File {
		m := slidePattern.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides = append(slides, slidePart{number: n, file: f})
	}
	// part listing order inside the container is arbitrary; slide order is not
	sort.Slice(slides, func(i, j int) bool { return slides[i].number < slides[j].number })

	var shapes []string
	for _, slide := range slides {
		rc, err := slide.file.Open()
		if err != nil {
			continue
		}
		part, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}

		slideShapes, err := collectXMLText(part, "txBody", "t")
		if err != nil {
			continue
		}
		shapes = append(shapes, slideShapes...)
	}

	return ok(strings.Join(shapes, "\n"))
}

// readOOXMLPart opens the container and returns the named part's bytes.
func readOOXMLPart(data []byte, name string) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	for _, f := range reader.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("missing part %s", name)
}

// collectXMLText walks an XML part and gathers the character data of every
// <textElem> element, grouped by enclosing <groupElem> element. Namespace
// prefixes are ignored; only local names are matched.
func collectXMLText(part []byte, groupElem, textElem string) ([]string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(part))

	var groups []string
	var current strings.Builder
	groupDepth := 0
	inText := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case groupElem:
				groupDepth++
			case textElem:
				inText = groupDepth > 0
			}
		case xml.EndElement:
			switch t.Name.Local {
			case groupElem:
				groupDepth--
				if groupDepth == 0 {
					groups = append(groups, current.String())
					current.Reset()
				}
			case textElem:
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return groups, nil
}
