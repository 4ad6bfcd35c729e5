package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// MaxUploadSize is the ceiling for a single uploaded file in bytes.
const MaxUploadSize = 10 << 20 // 10 MB

// Upload describes a local file accepted for object storage.
type Upload struct {
	// ID uniquely identifies the upload (UUID); it also names the
	// stored object, so paths never collide or leak the local name.
	ID string

	// SessionID links the upload to the session it was made under.
	SessionID string

	// Name is the original file name.
	Name string

	// MIMEType is the detected content type.
	MIMEType string

	// Size is the file size in bytes.
	Size int64

	// URL is the public object-storage URL once stored.
	URL string

	// CreatedAt is when the upload completed.
	CreatedAt time.Time
}

// Attachment converts the stored upload to message-attachment metadata.
func (u Upload) Attachment() Attachment {
	return Attachment{
		Name:     u.Name,
		MIMEType: u.MIMEType,
		Size:     u.Size,
		URL:      u.URL,
	}
}

// documentMIMETypes is the allow-list for document uploads, keyed by
// MIME type with the canonical file extension as value.
var documentMIMETypes = map[string]string{
	"application/pdf":    ".pdf",
	"image/jpeg":         ".jpg",
	"image/png":          ".png",
	"image/webp":         ".webp",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

// documentExtensions maps lower-case extensions back to their MIME type.
var documentExtensions = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// audioMIMETypes is the allow-list for transcription uploads.
var audioMIMETypes = map[string]string{
	"audio/webm": ".webm",
	"audio/wav":  ".wav",
	"audio/mpeg": ".mp3",
	"audio/ogg":  ".ogg",
	"audio/mp4":  ".m4a",
}

// audioExtensions maps lower-case extensions back to their MIME type.
var audioExtensions = map[string]string{
	".webm": "audio/webm",
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
	".mp4":  "audio/mp4",
}

// ValidateUpload checks a candidate document against the allow-list and
// the size ceiling. The returned error wraps ErrUnsupportedFileType or
// ErrFileTooLarge so callers can classify with errors.Is.
func ValidateUpload(name, mimeType string, size int64) error {
	if _, ok := documentMIMETypes[mimeType]; !ok {
		return fmt.Errorf("%w: %s (%s)", ErrUnsupportedFileType, name, mimeType)
	}
	if size > MaxUploadSize {
		return fmt.Errorf("%w: %s is %d bytes (limit %d)",
			ErrFileTooLarge, name, size, MaxUploadSize)
	}
	return nil
}

// ValidateAudio checks a candidate audio file before transcription.
func ValidateAudio(name, mimeType string, size int64) error {
	if _, ok := audioMIMETypes[mimeType]; !ok {
		return fmt.Errorf("%w: %s (%s)", ErrUnsupportedFileType, name, mimeType)
	}
	if size > MaxUploadSize {
		return fmt.Errorf("%w: %s is %d bytes (limit %d)",
			ErrFileTooLarge, name, size, MaxUploadSize)
	}
	return nil
}

// DocumentMIMEType resolves a file name to its allow-listed document
// MIME type. Returns false when the extension is not accepted.
func DocumentMIMEType(name string) (string, bool) {
	mime, ok := documentExtensions[extensionOf(name)]
	return mime, ok
}

// AudioMIMEType resolves a file name to its allow-listed audio MIME type.
func AudioMIMEType(name string) (string, bool) {
	mime, ok := audioExtensions[extensionOf(name)]
	return mime, ok
}

// ObjectExtension returns the canonical extension used when naming the
// stored object for the given MIME type.
func ObjectExtension(mimeType string) string {
	if ext, ok := documentMIMETypes[mimeType]; ok {
		return ext
	}
	return ""
}

// AllowedDocumentTypes returns the document allow-list sorted by MIME
// type, for display.
func AllowedDocumentTypes() []string {
	types := make([]string, 0, len(documentMIMETypes))
	for mime := range documentMIMETypes {
		types = append(types, mime)
	}
	sort.Strings(types)
	return types
}

// AllowedAudioTypes returns the audio allow-list sorted by MIME type.
func AllowedAudioTypes() []string {
	types := make([]string, 0, len(audioMIMETypes))
	for mime := range audioMIMETypes {
		types = append(types, mime)
	}
	sort.Strings(types)
	return types
}

func extensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(name[idx:])
}
