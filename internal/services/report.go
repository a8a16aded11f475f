package services

import (
	"context"

	"go.uber.org/zap"

	"umroh-system/internal/entities"
	"umroh-system/internal/repositories"
)

type ReportService struct {
	reportRepository repositories.ReportRepositoryInterface
	logger           *zap.Logger
}

func NewReportService(reportRepository repositories.ReportRepositoryInterface, logger *zap.Logger) *ReportService {
	return &ReportService{reportRepository: reportRepository, logger: logger}
}

func (s *ReportService) JamaahManifest(ctx context.Context, filter entities.ManifestFilter) ([]entities.ManifestRow, uint64, error) {
	return s.reportRepository.JamaahManifest(ctx, filter)
}
