package normalise

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/praxos-ai/groundwork/internal/core/domain"
)

// wordDocument mirrors the parts of word/document.xml we read. Namespace
// prefixes are ignored; xml matches on local names.
type wordDocument struct {
	Body struct {
		Paragraphs []struct {
			Runs []struct {
				Text []struct {
					Value string `xml:",chardata"`
				} `xml:"t"`
			} `xml:"r"`
		} `xml:"p"`
	} `xml:"body"`
}

// coreProperties mirrors docProps/core.xml, the archive's metadata part.
type coreProperties struct {
	Title string `xml:"title"`
}

// extractDocx pulls paragraph text and the document title out of a DOCX
// archive. Paragraphs are joined with newlines. The title is empty when
// the archive carries no docProps/core.xml title.
func extractDocx(data []byte) (content, title string, err error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", "", fmt.Errorf("%w: not a docx archive", domain.ErrInvalidInput)
	}

	body, err := archivePart(archive, "word/document.xml")
	if err != nil {
		return "", "", err
	}
	if body == nil {
		return "", "", fmt.Errorf("%w: docx archive has no document part", domain.ErrInvalidInput)
	}

	var doc wordDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", "", fmt.Errorf("%w: malformed document part", domain.ErrInvalidInput)
	}

	var b strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			b.WriteString("\n")
		}
		for _, run := range para.Runs {
			for _, text := range run.Text {
				b.WriteString(text.Value)
			}
		}
	}

	return strings.TrimSpace(b.String()), docxTitle(archive), nil
}

// docxTitle reads the title from docProps/core.xml. Missing or malformed
// metadata is not an error, the caller falls back to the filename.
func docxTitle(archive *zip.Reader) string {
	data, err := archivePart(archive, "docProps/core.xml")
	if err != nil || data == nil {
		return ""
	}
	var core coreProperties
	if err := xml.Unmarshal(data, &core); err != nil {
		return ""
	}
	return strings.TrimSpace(core.Title)
}

// archivePart returns the named file's content, or nil when absent.
func archivePart(archive *zip.Reader, name string) ([]byte, error) {
	for _, file := range archive.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: unreadable docx part %s", domain.ErrInvalidInput, name)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: unreadable docx part %s", domain.ErrInvalidInput, name)
		}
		return data, nil
	}
	return nil, nil
}
