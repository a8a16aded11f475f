package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// DocumentTypes is the closed set of accepted document types.
var DocumentTypes = []string{"passport", "ktp", "visa", "photo", "medical", "certificate", "other"}

// Document is an uploaded file record for a jamaah.
type Document struct {
	ID               int         `json:"id"`
	JamaahID         int         `json:"jamaah_id"`
	DocumentType     string      `json:"document_type"`
	FileName         string      `json:"file_name"`
	FilePath         string      `json:"file_path"`
	FileSize         null.Int64  `json:"file_size"`
	MimeType         null.String `json:"mime_type"`
	IsVerified       bool        `json:"is_verified"`
	VerifiedBy       null.Int    `json:"verified_by"`
	VerificationDate null.Time   `json:"verification_date"`
	UploadedBy       null.Int    `json:"uploaded_by"`
	UploadDate       time.Time   `json:"upload_date"`

	JamaahName     null.String `json:"jamaah_name,omitempty"`
	UploadedByName null.String `json:"uploaded_by_name,omitempty"`
}

type DocumentStatistics struct {
	TotalDocuments      int `json:"total_documents"`
	VerifiedDocuments   int `json:"verified_documents"`
	UnverifiedDocuments int `json:"unverified_documents"`
	PassportDocuments   int `json:"passport_documents"`
	VisaDocuments       int `json:"visa_documents"`
	PhotoDocuments      int `json:"photo_documents"`
}
