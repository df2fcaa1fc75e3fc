package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"pii-anonymizer-be/pkg/apperrors"
)

// Format is an export target container.
type Format string

const (
	FormatTXT  Format = "txt"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Document is the render input. It carries only shareable data: anonymized
// text and mapping metadata. Original values never reach this package.
type Document struct {
	SessionID      string
	Filename       string
	AnonymizedText string
	Mappings       []MappingMetadata
	ExportedAt     time.Time
}

// MappingMetadata is the PII mapping view safe for export: type,
// placeholder and detection info, no values.
type MappingMetadata struct {
	EntityType  string  `json:"entity_type"`
	Placeholder string  `json:"placeholder"`
	Confidence  float64 `json:"confidence"`
	Method      string  `json:"detection_method"`
}

// ParseFormat validates a client-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatTXT, FormatJSON, FormatPDF, FormatDOCX:
		return Format(strings.ToLower(s)), nil
	}
	return "", apperrors.New(apperrors.KindValidation, fmt.Sprintf("unsupported export format %q", s))
}

// Render produces the export payload for a format. Pure function over the
// document: the same session content always yields identical anonymized
// payload bytes for txt and json; pdf/docx embed no volatile metadata either.
func Render(format Format, doc Document) (data []byte, contentType string, err error) {
	switch format {
	case FormatTXT:
		return []byte(doc.AnonymizedText), "text/plain; charset=utf-8", nil
	case FormatJSON:
		return renderJSON(doc)
	case FormatPDF:
		data, err := renderPDF(doc.AnonymizedText)
		return data, "application/pdf", err
	case FormatDOCX:
		data, err := renderDOCX(doc.AnonymizedText)
		return data, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", err
	}
	return nil, "", apperrors.New(apperrors.KindValidation, fmt.Sprintf("unsupported export format %q", format))
}

// FileExtension returns the download extension for a format.
func FileExtension(format Format) string {
	return string(format)
}

func renderJSON(doc Document) ([]byte, string, error) {
	payload := struct {
		SessionID string            `json:"session_id"`
		Filename  string            `json:"filename"`
		Mappings  []MappingMetadata `json:"mappings"`
	}{
		SessionID: doc.SessionID,
		Filename:  doc.Filename,
		Mappings:  doc.Mappings,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.KindInternal, "marshal mapping export", err)
	}
	return data, "application/json", nil
}

// renderPDF writes a minimal single-font PDF. There is no PDF writer in our
// dependency set (ledongthuc/pdf only reads), and the anonymized text needs
// nothing beyond line-wrapped Helvetica.
func renderPDF(text string) ([]byte, error) {
	const (
		pageWidth    = 595
		pageHeight   = 842
		margin       = 50
		lineHeight   = 14
		maxLineChars = 90
	)
	linesPerPage := (pageHeight - 2*margin) / lineHeight

	lines := wrapLines(text, maxLineChars)
	if len(lines) == 0 {
		lines = []string{""}
	}
	var pages [][]string
	for start := 0; start < len(lines); start += linesPerPage {
		end := start + linesPerPage
		if end > len(lines) {
			end = len(lines)
		}
		pages = append(pages, lines[start:end])
	}

	var buf bytes.Buffer
	var offsets []int
	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	// object layout: 1 catalog, 2 pages, 3 font, then per page: page obj, content obj
	pageObjIDs := make([]int, len(pages))
	for i := range pages {
		pageObjIDs[i] = 4 + i*2
	}
	var kids []string
	for _, id := range pageObjIDs {
		kids = append(kids, fmt.Sprintf("%d 0 R", id))
	}

	writeObj("<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	writeObj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i, pageLines := range pages {
		var content strings.Builder
		content.WriteString("BT\n/F1 11 Tf\n")
		fmt.Fprintf(&content, "%d %d Td\n%d TL\n", margin, pageHeight-margin, lineHeight)
		for _, line := range pageLines {
			fmt.Fprintf(&content, "(%s) Tj\nT*\n", escapePDFString(line))
		}
		content.WriteString("ET")
		stream := content.String()

		writeObj(fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			pageWidth, pageHeight, pageObjIDs[i]+1))
		writeObj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefStart)

	return buf.Bytes(), nil
}

func escapePDFString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "(", `\(`)
	s = strings.ReplaceAll(s, ")", `\)`)
	return s
}

// wrapLines breaks text into width-rune chunks, preferring the last space
// before the limit. Cuts land on rune boundaries so multibyte characters
// survive intact.
func wrapLines(text string, width int) []string {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		runes := []rune(strings.ReplaceAll(raw, "\r", ""))
		for len(runes) > width {
			cut := width
			for i := width; i > 1; i-- {
				if runes[i-1] == ' ' {
					cut = i - 1
					break
				}
			}
			lines = append(lines, string(runes[:cut]))
			runes = runes[cut:]
			for len(runes) > 0 && runes[0] == ' ' {
				runes = runes[1:]
			}
		}
		lines = append(lines, string(runes))
	}
	return lines
}

// renderDOCX builds the minimal OOXML package: one document part with one
// paragraph per line.
func renderDOCX(text string) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`,
		"_rels/.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`,
		"word/document.xml": buildDocumentXML(text),
	}

	// fixed order keeps repeat exports byte-identical
	for _, name := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml"} {
		header := &zip.FileHeader{Name: name, Method: zip.Deflate}
		f, err := w.CreateHeader(header)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindInternal, "build docx package", err)
		}
		if _, err := f.Write([]byte(files[name])); err != nil {
			return nil, apperrors.Wrap(apperrors.KindInternal, "build docx package", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "finalize docx package", err)
	}
	return buf.Bytes(), nil
}

func buildDocumentXML(text string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, line := range strings.Split(text, "\n") {
		var escaped bytes.Buffer
		_ = xml.EscapeText(&escaped, []byte(line))
		b.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		b.Write(escaped.Bytes())
		b.WriteString(`</w:t></w:r></w:p>`)
	}
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}
