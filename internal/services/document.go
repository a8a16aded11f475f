package services

import (
	"context"
	"io"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"umroh-system/internal/dto"
	"umroh-system/internal/entities"
	"umroh-system/internal/repositories"
	"umroh-system/pkg/filestorage"
	"umroh-system/pkg/types"
)

type DocumentService struct {
	documentRepository repositories.DocumentRepositoryInterface
	storage            filestorage.FileStorage
	logger             *zap.Logger
}

func NewDocumentService(
	documentRepository repositories.DocumentRepositoryInterface,
	storage filestorage.FileStorage,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		documentRepository: documentRepository,
		storage:            storage,
		logger:             logger,
	}
}

// Upload stores the file first, then its metadata. When the insert fails
// the stored file is removed so no orphan files accumulate.
func (s *DocumentService) Upload(ctx context.Context, payload dto.UploadDocumentDTO, file io.Reader, fileName, mimeType string, fileSize int64, uploadedBy int) (*entities.Document, error) {
	filePath, err := s.storage.Save(file, fileName, "documents")
	if err != nil {
		s.logger.Error("gagal menyimpan file dokumen", zap.Error(err))
		return nil, err
	}

	doc := &entities.Document{
		JamaahID:     payload.JamaahID,
		DocumentType: payload.DocumentType,
		FileName:     fileName,
		FilePath:     filePath,
		FileSize:     null.Int64From(fileSize),
		MimeType:     null.StringFrom(mimeType),
		UploadedBy:   null.IntFrom(uploadedBy),
	}

	created, err := s.documentRepository.Create(ctx, doc)
	if err != nil {
		if delErr := s.storage.Delete(filePath); delErr != nil {
			s.logger.Warn("gagal menghapus file setelah insert gagal",
				zap.String("file_path", filePath), zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("dokumen diunggah",
		zap.Int("document_id", created.ID),
		zap.Int("jamaah_id", created.JamaahID),
		zap.String("document_type", created.DocumentType))
	return created, nil
}

func (s *DocumentService) FindAll(ctx context.Context, filter types.Filter) ([]entities.Document, uint64, error) {
	return s.documentRepository.FindAll(ctx, filter)
}

func (s *DocumentService) FindByID(ctx context.Context, id int) (*entities.Document, error) {
	return s.documentRepository.FindByID(ctx, id)
}

func (s *DocumentService) FindByJamaah(ctx context.Context, jamaahID int) ([]entities.Document, error) {
	return s.documentRepository.FindByJamaah(ctx, jamaahID)
}

func (s *DocumentService) Verify(ctx context.Context, id, verifiedBy int) (*entities.Document, error) {
	if err := s.documentRepository.Verify(ctx, id, verifiedBy); err != nil {
		return nil, err
	}
	return s.documentRepository.FindByID(ctx, id)
}

// Delete removes the file best-effort before the row: a failed file
// removal is logged but never blocks deleting the metadata.
func (s *DocumentService) Delete(ctx context.Context, id int) error {
	doc, err := s.documentRepository.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(doc.FilePath); err != nil {
		s.logger.Warn("gagal menghapus file dokumen",
			zap.String("file_path", doc.FilePath), zap.Error(err))
	}

	return s.documentRepository.Delete(ctx, id)
}

// ResolveFile returns the document and the absolute path of its stored
// file for streaming.
func (s *DocumentService) ResolveFile(ctx context.Context, id int) (*entities.Document, string, error) {
	doc, err := s.documentRepository.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !s.storage.Exists(doc.FilePath) {
		return nil, "", errFileMissing
	}
	return doc, s.storage.FullPath(doc.FilePath), nil
}

func (s *DocumentService) Statistics(ctx context.Context) (*entities.DocumentStatistics, error) {
	return s.documentRepository.Statistics(ctx)
}
