package storage

import (
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Kind classifies a document by its filename extension and selects the
// render strategy for it.
type Kind int

const (
	KindUnsupported Kind = iota
	KindMarkdown
	KindText
	KindImage
)

// ClassifyName maps a filename to its document kind. The extension match
// is case-insensitive.
func ClassifyName(name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md":
		return KindMarkdown
	case ".txt":
		return KindText
	case ".jpg", ".jpeg", ".png":
		return KindImage
	default:
		return KindUnsupported
	}
}

// ValidateName checks a user-supplied document name. The returned error
// messages are shown verbatim in form responses.
func ValidateName(name string) error {
	return validation.Validate(name,
		validation.Required.Error("A name is required."),
		validation.By(func(value interface{}) error {
			if ClassifyName(value.(string)) == KindUnsupported {
				return validation.NewError("validation_extension", "A valid file extension is required.")
			}
			return nil
		}),
	)
}

// CopyName derives the name a duplicated document is stored under by
// inserting "_copy" before the first dot: "about.md" -> "about_copy.md",
// "report.v2.md" -> "report_copy.v2.md".
func CopyName(name string) string {
	base, rest, ok := strings.Cut(name, ".")
	if !ok {
		return name + "_copy"
	}
	return base + "_copy." + rest
}
