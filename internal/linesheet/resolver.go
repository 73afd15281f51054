package linesheet

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/domain"
)

// ResponseMeta carries the parts of a generation response that delivery
// resolution inspects. Non-2xx responses never reach resolution; the client
// fails them first.
type ResponseMeta struct {
	ContentType        string
	ContentDisposition string
	Body               []byte
}

// filenamePattern matches the quoted filename token of a Content-Disposition
// header. Only the quoted form is supported; the RFC 5987 extended form
// (filename*=) is not emitted by the generation service.
var filenamePattern = regexp.MustCompile(`filename="([^"]+)"`)

// Resolve decides how the response bytes are delivered.
//
// The payload is an archive when the server labels it application/zip, or
// when separate output was requested for more than one catalog. The second
// rule is a client-side safety net against a mislabeling server. The
// filename comes from the Content-Disposition header when present, else the
// caller's default; archive deliveries always end in .zip, replacing any
// other extension.
func Resolve(meta ResponseMeta, output domain.OutputType, catalogCount int, defaultName string) domain.DeliveryOutcome {
	isArchive := mediaType(meta.ContentType) == domain.ContentTypeZip ||
		(output == domain.OutputSeparate && catalogCount > 1)

	filename := defaultName
	if name, ok := FilenameFromDisposition(meta.ContentDisposition); ok {
		filename = name
	}

	if isArchive && !strings.HasSuffix(strings.ToLower(filename), domain.ArchiveExtension) {
		filename = strings.TrimSuffix(filename, filepath.Ext(filename)) + domain.ArchiveExtension
	}

	return domain.DeliveryOutcome{
		Bytes:     meta.Body,
		Filename:  filename,
		IsArchive: isArchive,
	}
}

// FilenameFromDisposition extracts the quoted filename token from a
// Content-Disposition header value. Returns false when the header is empty
// or carries no quoted filename.
func FilenameFromDisposition(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	match := filenamePattern.FindStringSubmatch(header)
	if match == nil || match[1] == "" {
		return "", false
	}
	return match[1], true
}

// mediaType strips any parameters (e.g. "; charset=") from a Content-Type
// value and normalizes case.
func mediaType(contentType string) string {
	base, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
