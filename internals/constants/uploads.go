package constants

import (
	"path/filepath"
	"strings"
)

// UploadKind selects the size limit and extension allow-list of an upload.
type UploadKind int

const (
	UploadImage UploadKind = iota + 1
	UploadDocument
	UploadAssignment
)

func (k UploadKind) String() string {
	switch k {
	case UploadImage:
		return "image"
	case UploadDocument:
		return "document"
	case UploadAssignment:
		return "assignment"
	default:
		return "file"
	}
}

var (
	ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

	DocumentExtensions = []string{".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".txt"}

	AssignmentExtensions = []string{
		".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".txt",
		".jpg", ".jpeg", ".png", ".zip", ".rar",
	}
)

// AllowedExtensions returns the allow-list for kind.
func AllowedExtensions(kind UploadKind) []string {
	switch kind {
	case UploadImage:
		return ImageExtensions
	case UploadDocument:
		return DocumentExtensions
	case UploadAssignment:
		return AssignmentExtensions
	default:
		return nil
	}
}

// ExtensionAllowed checks the lower-cased extension of filename.
func ExtensionAllowed(kind UploadKind, filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return false
	}
	for _, allowed := range AllowedExtensions(kind) {
		if ext == allowed {
			return true
		}
	}
	return false
}
