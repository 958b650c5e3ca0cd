package domain

import (
	"time"

	"github.com/google/uuid"
)

type ExportFormat string

const (
	FormatPrint ExportFormat = "print"
	FormatPDF   ExportFormat = "pdf"
	FormatPNG   ExportFormat = "png"
	FormatJPEG  ExportFormat = "jpeg"
)

// Extension is the file extension used for downloads of this format.
func (f ExportFormat) Extension() string {
	if f == FormatPrint {
		return "html"
	}
	return string(f)
}

func (f ExportFormat) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	default:
		return "text/html; charset=utf-8"
	}
}

const (
	ExportSucceeded = "succeeded"
	ExportFailed    = "failed"
)

// ExportJob records one export attempt. It never carries CV content.
type ExportJob struct {
	ID        uuid.UUID    `json:"id"`
	Filename  string       `json:"filename"`
	Format    ExportFormat `json:"format"`
	Template  string       `json:"template"`
	Status    string       `json:"status"`
	Error     string       `json:"error,omitempty"`
	SizeBytes int          `json:"size_bytes"`
	Location  string       `json:"location,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
