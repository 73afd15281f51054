package storage

import (
	"mime"
	"path/filepath"
	"strings"
)

// spreadsheetTypes are the media types the generation service delivers
// single linesheets under.
var spreadsheetTypes = map[string]bool{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-excel": true,
}

// DetectContentType determines the MIME type for a stored object.
//
// Detection priority:
// 1. If providedType is non-empty, use it directly
// 2. Try to detect from the key's extension
// 3. Fall back to "application/octet-stream"
func DetectContentType(providedType, key string) string {
	if providedType != "" {
		return providedType
	}

	ext := strings.ToLower(filepath.Ext(key))
	switch ext {
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".zip":
		return "application/zip"
	}
	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return contentType
	}

	return "application/octet-stream"
}

// IsZip returns true if the content type is a ZIP archive.
func IsZip(contentType string) bool {
	return baseType(contentType) == "application/zip"
}

// IsSpreadsheet returns true if the content type is a spreadsheet format.
func IsSpreadsheet(contentType string) bool {
	return spreadsheetTypes[baseType(contentType)]
}

// baseType strips parameters (e.g. charset) and normalizes case.
func baseType(contentType string) string {
	base := strings.Split(contentType, ";")[0]
	return strings.TrimSpace(strings.ToLower(base))
}
