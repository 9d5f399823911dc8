package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
)

// createTestDOCX creates a minimal valid DOCX file in memory.
func createTestDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	// Add [Content_Types].xml (required for valid DOCX)
	contentTypes, err := w.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = contentTypes.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`))
	require.NoError(t, err)

	if documentXML != "" {
		doc, err := w.Create(documentPart)
		require.NoError(t, err)
		_, err = doc.Write([]byte(documentXML))
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
	return buf.Bytes()
}

func wrapBody(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>` + body + `</w:body>
</w:document>`
}

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestSupportedMIMETypes(t *testing.T) {
	mimeTypes := New().SupportedMIMETypes()

	require.NotEmpty(t, mimeTypes)
	assert.Contains(t, mimeTypes, "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	assert.Len(t, mimeTypes, 1)
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 50, New().Priority())
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "single paragraph",
			body:     `<w:p><w:r><w:t>Hello World</w:t></w:r></w:p>`,
			expected: "Hello World",
		},
		{
			name: "multiple paragraphs",
			body: `<w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
<w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p>`,
			expected: "First paragraph\nSecond paragraph",
		},
		{
			name:     "multiple runs joined",
			body:     `<w:p><w:r><w:t xml:space="preserve">Hostel fee is </w:t></w:r><w:r><w:t>20000</w:t></w:r></w:p>`,
			expected: "Hostel fee is 20000",
		},
		{
			name:     "line breaks kept",
			body:     `<w:p><w:r><w:t>Line one</w:t><w:br/><w:t>Line two</w:t></w:r></w:p>`,
			expected: "Line one\nLine two",
		},
		{
			name: "table rows become lines",
			body: `<w:p><w:r><w:t>Fee structure</w:t></w:r></w:p>
<w:tbl>
<w:tr><w:tc><w:p><w:r><w:t>Fee</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>Amount</w:t></w:r></w:p></w:tc></w:tr>
<w:tr><w:tc><w:p><w:r><w:t>Hostel</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>20000</w:t></w:r></w:p></w:tc></w:tr>
</w:tbl>`,
			expected: "Fee structure\nFee | Amount\nHostel | 20000",
		},
		{
			name:     "empty body",
			body:     ``,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := createTestDOCX(t, wrapBody(tt.body))

			text, err := New().Extract(context.Background(), content, "rules.docx")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, text)
		})
	}
}

func TestExtract_InvalidZip(t *testing.T) {
	_, err := New().Extract(context.Background(), []byte("not a zip file"), "broken.docx")
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestExtract_MissingDocumentPart(t *testing.T) {
	content := createTestDOCX(t, "")

	_, err := New().Extract(context.Background(), content, "hollow.docx")
	require.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.Contains(t, err.Error(), documentPart)
}

func TestExtract_MalformedXML(t *testing.T) {
	content := createTestDOCX(t, `<w:document><w:body><w:p>`)

	_, err := New().Extract(context.Background(), content, "cut.docx")
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.TextExtractor = (*Normaliser)(nil)
}

func BenchmarkExtract(b *testing.B) {
	t := &testing.T{}
	content := createTestDOCX(t, wrapBody(`<w:p><w:r><w:t>Benchmark content</w:t></w:r></w:p>`))
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = New().Extract(ctx, content, "bench.docx")
	}
}
