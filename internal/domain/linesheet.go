package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// OutputType selects how selected catalogs are rendered by the generation
// service: one combined workbook, or one workbook per catalog (bundled as a
// ZIP archive when more than one catalog is selected).
type OutputType string

const (
	OutputCombined OutputType = "combined"
	OutputSeparate OutputType = "separate"
)

// Valid reports whether the output type is one of the known values.
func (t OutputType) Valid() bool {
	return t == OutputCombined || t == OutputSeparate
}

// Media types relevant to delivery resolution.
const (
	ContentTypeZip         = "application/zip"
	ContentTypeSpreadsheet = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// ArchiveExtension is appended when delivery is resolved as an archive.
	ArchiveExtension = ".zip"
)

// GenerationRequest is the outbound payload for the generation service.
// Constructed fresh per action, never mutated. Catalogs holds the selected
// catalogs in their original load order, not selection-click order.
type GenerationRequest struct {
	Company    Company    `json:"company"`
	CatalogIDs []string   `json:"catalogIds"`
	Catalogs   []Catalog  `json:"catalogs"`
	OutputType OutputType `json:"outputType"`
}

// DeliveryOutcome is the resolved result of one generation call: the file
// bytes, the name to save them under, and whether they are a ZIP bundle.
// It exists only for the duration of one download action.
type DeliveryOutcome struct {
	Bytes     []byte
	Filename  string
	IsArchive bool
}

// ContentType returns the media type the file should be delivered under.
// Archive outcomes are always tagged application/zip, even when the server's
// own content type differed.
func (o DeliveryOutcome) ContentType() string {
	if o.IsArchive {
		return ContentTypeZip
	}
	return ContentTypeSpreadsheet
}

// DefaultFilename computes the fallback download name for a generation when
// the server provides no Content-Disposition: the company name with
// whitespace runs collapsed to underscores, suffixed per output type.
func DefaultFilename(companyName string, output OutputType) string {
	base := sanitizeFilenameBase(companyName)
	suffix := "Linesheet.xlsx"
	if output == OutputSeparate {
		suffix = "Linesheets.xlsx"
	}
	if base == "" {
		return suffix
	}
	return base + "_" + suffix
}

// foldMarks strips combining marks so accented company names produce plain
// ASCII-ish filenames (e.g. "Café Nómada" -> "Cafe Nomada").
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func sanitizeFilenameBase(name string) string {
	folded, _, err := transform.String(foldMarks, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	inSpace := false
	for _, r := range folded {
		switch {
		case unicode.IsSpace(r):
			if !inSpace && b.Len() > 0 {
				b.WriteRune('_')
			}
			inSpace = true
		case strings.ContainsRune(`/\:*?"<>|`, r):
			inSpace = false
		default:
			b.WriteRune(r)
			inSpace = false
		}
	}
	return strings.Trim(b.String(), "_")
}
