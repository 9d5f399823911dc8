package normalisers

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// fallbackMIMETypes covers extensions the platform MIME table often lacks.
var fallbackMIMETypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".go":       "text/x-go",
	".py":       "text/x-python",
	".rs":       "text/x-rust",
	".ts":       "text/typescript",
	".tsx":      "text/typescript-jsx",
	".jsx":      "text/javascript-jsx",
	".yaml":     "text/yaml",
	".yml":      "text/yaml",
	".toml":     "text/toml",
	".sh":       "text/x-shellscript",
	".bash":     "text/x-shellscript",
	".sql":      "text/x-sql",
	".csv":      "text/csv",
	".txt":      "text/plain",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// DetectMIMEType determines the MIME type from a file name's extension.
// Files without an extension are treated as plain text.
func DetectMIMEType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return "text/plain"
	}

	if mimeType, ok := fallbackMIMETypes[ext]; ok {
		return mimeType
	}

	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		return stripParams(mimeType)
	}

	return "application/octet-stream"
}

// DetectContentType resolves the MIME type of fetched content. A declared
// type wins unless it is missing or generic; then the URL path extension is
// tried, then the content is sniffed.
func DetectContentType(declared, path string, content []byte) string {
	if mimeType := stripParams(declared); mimeType != "" && mimeType != "application/octet-stream" {
		return mimeType
	}

	if ext := filepath.Ext(path); ext != "" {
		if mimeType := DetectMIMEType(path); mimeType != "application/octet-stream" {
			return mimeType
		}
	}

	return stripParams(http.DetectContentType(content))
}

// stripParams drops parameters such as "; charset=utf-8".
func stripParams(mimeType string) string {
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = mimeType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
