package services

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// timeNow is a seam so key derivation is deterministic in tests.
var timeNow = time.Now

// newUploadID feeds the random component of issuer object keys.
var newUploadID = uuid.NewString

// folderDateFormat is ddmmyyyy; downstream folder naming depends on this
// exact layout.
const folderDateFormat = "02012006"

// CleanName normalizes an applicant name for use in storage folder names:
// accents are decomposed and dropped, everything outside the basic Latin
// letter ranges (spaces excepted) is stripped, and the remaining words are
// title-cased and joined with underscores.
//
//	"José Martínez!" -> "Jose_Martinez"
func CleanName(fullName string) string {
	strip := transform.Chain(norm.NFD, runes.Remove(runes.Predicate(func(r rune) bool {
		return !isBasicLatinLetter(r) && r != ' '
	})))

	stripped, _, err := transform.String(strip, fullName)
	if err != nil {
		stripped = fullName
	}

	words := strings.Fields(stripped)
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, "_")
}

func isBasicLatinLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func titleWord(w string) string {
	rs := []rune(strings.ToLower(w))
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}

// FolderName derives the per-registration folder:
// {ddmmyyyy}-{national_id}-{CleanName}.
func FolderName(now time.Time, nationalID, fullName string) string {
	return fmt.Sprintf("%s-%s-%s", now.Format(folderDateFormat), nationalID, CleanName(fullName))
}

// DocumentKey derives the object key for one registration document. The key
// is fully determined by date, national id and document type, so a retried
// registration overwrites rather than duplicates a prior upload.
func DocumentKey(now time.Time, folder, nationalID, docType, ext string) string {
	return fmt.Sprintf("%s/%s-%s-%s.%s", folder, now.Format(folderDateFormat), nationalID, docType, ext)
}

// UploadObjectKey derives the issuer-path key:
// uploads/{field_name}/{UTC timestamp}_{random id}_{file_name}. Independent
// of the registration key scheme.
func UploadObjectKey(fieldName, fileName string) string {
	ts := timeNow().UTC().Format("20060102_150405")
	return fmt.Sprintf("uploads/%s/%s_%s_%s", fieldName, ts, newUploadID(), fileName)
}

// contentTypeExtensions maps declared content types to the extension used
// in document keys. Unrecognized types default to pdf.
var contentTypeExtensions = map[string]string{
	"application/pdf":    "pdf",
	"image/jpeg":         "jpg",
	"image/png":          "png",
	"application/msword": "doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
}

func extensionForContentType(contentType string) string {
	if ext, ok := contentTypeExtensions[strings.ToLower(strings.TrimSpace(contentType))]; ok {
		return ext
	}
	return "pdf"
}
