package records

import (
	"time"

	"gorm.io/gorm"
)

type UploadStatus string

const (
	UploadPending  UploadStatus = "pending"
	UploadUploaded UploadStatus = "uploaded"
)

// ExtractionStatus follows none → queued → processing → completed | error.
type ExtractionStatus string

const (
	ExtractionNone       ExtractionStatus = "none"
	ExtractionQueued     ExtractionStatus = "queued"
	ExtractionProcessing ExtractionStatus = "processing"
	ExtractionCompleted  ExtractionStatus = "completed"
	ExtractionError      ExtractionStatus = "error"
)

// Document is a file stored in object storage under ObjectKey.
type Document struct {
	Base

	Title            string           `gorm:"not null" json:"title"`
	FileName         string           `json:"file_name,omitempty"`
	ObjectKey        string           `gorm:"not null;uniqueIndex" json:"object_key"`
	ContentType      string           `json:"content_type,omitempty"`
	SizeBytes        int64            `gorm:"not null;default:0" json:"size_bytes"`
	UploadStatus     UploadStatus     `gorm:"type:varchar(20);not null;default:'pending'" json:"upload_status"`
	ExtractionStatus ExtractionStatus `gorm:"type:varchar(20);not null;default:'none';index" json:"extraction_status"`
	ExtractionError  string           `gorm:"type:text" json:"extraction_error,omitempty"`
	ExtractedAt      *time.Time       `json:"extracted_at,omitempty"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
