package dto

// UploadDocumentDTO carries the multipart form fields next to the file.
type UploadDocumentDTO struct {
	JamaahID     int    `form:"jamaah_id" validate:"required,gt=0"`
	DocumentType string `form:"document_type" validate:"required,document_type"`
}

type VerifyDocumentDTO struct {
	IsVerified bool `json:"is_verified"`
}
