package extract

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pii-anonymizer-be/pkg/apperrors"
)

func buildDOCX(t *testing.T, paragraphs []string) []byte {
	t.Helper()

	var body strings.Builder
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(body.String()))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestTextFromTXT(t *testing.T) {
	text, err := Text("notes.txt", []byte("plain content with john@x.com"))
	require.NoError(t, err)
	assert.Equal(t, "plain content with john@x.com", text)
}

func TestTextRejectsInvalidUTF8(t *testing.T) {
	_, err := Text("notes.txt", []byte{0xff, 0xfe, 0xfd})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestTextRejectsUnknownExtension(t *testing.T) {
	_, err := Text("image.png", []byte("data"))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestTextRejectsOversizedFile(t *testing.T) {
	_, err := Text("big.txt", make([]byte, MaxFileSize+1))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestTextRejectsEmptyDocument(t *testing.T) {
	_, err := Text("empty.txt", []byte("   \n\t  "))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestTextFromDOCX(t *testing.T) {
	content := buildDOCX(t, []string{"First paragraph.", "Second paragraph."})

	text, err := Text("report.docx", content)
	require.NoError(t, err)
	assert.Contains(t, text, "First paragraph.")
	assert.Contains(t, text, "Second paragraph.")
	assert.True(t, strings.Index(text, "First") < strings.Index(text, "Second"))
}

func TestTextFromDOCXWithoutDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/other.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<x/>"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = Text("report.docx", buf.Bytes())
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestTextFromMalformedPDF(t *testing.T) {
	_, err := Text("broken.pdf", []byte("not a pdf at all"))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}
