package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"pii-anonymizer-be/pkg/apperrors"
)

// MaxFileSize caps uploads at 10MB.
const MaxFileSize = 10 * 1024 * 1024

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

// Text extracts plain text from an uploaded document by extension.
func Text(filename string, content []byte) (string, error) {
	if len(content) > MaxFileSize {
		return "", apperrors.New(apperrors.KindValidation,
			fmt.Sprintf("file exceeds the %dMB limit", MaxFileSize/(1024*1024)))
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", apperrors.New(apperrors.KindValidation,
			fmt.Sprintf("file type %q not allowed (accepted: pdf, docx, txt)", ext))
	}

	var text string
	var err error
	switch ext {
	case ".txt":
		if !utf8.Valid(content) {
			return "", apperrors.New(apperrors.KindValidation, "text file is not valid UTF-8")
		}
		text = string(content)
	case ".pdf":
		text, err = fromPDF(content)
	case ".docx":
		text, err = fromDOCX(content)
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", apperrors.New(apperrors.KindValidation, "no text content found in document")
	}
	return text, nil
}

func fromPDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindValidation, "parse pdf", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindValidation, "extract pdf text", err)
	}
	data, err := io.ReadAll(plain)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindValidation, "read pdf text", err)
	}
	return string(data), nil
}

func fromDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindValidation, "open docx package", err)
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", apperrors.Wrap(apperrors.KindValidation, "open docx document part", err)
		}
		defer rc.Close()
		return docxText(rc)
	}
	return "", apperrors.New(apperrors.KindValidation, "docx package has no document part")
}

// docxText walks document.xml collecting run text, inserting a newline at
// each paragraph close.
func docxText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var b strings.Builder
	inText := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", apperrors.Wrap(apperrors.KindValidation, "parse docx document", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
