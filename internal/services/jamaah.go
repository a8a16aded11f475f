package services

import (
	"context"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"umroh-system/internal/dto"
	"umroh-system/internal/entities"
	"umroh-system/internal/repositories"
	apperrors "umroh-system/pkg/errors"
	"umroh-system/pkg/types"
)

type JamaahService struct {
	jamaahRepository repositories.JamaahRepositoryInterface
	logger           *zap.Logger
}

func NewJamaahService(jamaahRepository repositories.JamaahRepositoryInterface, logger *zap.Logger) *JamaahService {
	return &JamaahService{jamaahRepository: jamaahRepository, logger: logger}
}

func (s *JamaahService) Create(ctx context.Context, payload dto.CreateJamaahDTO, createdBy int) (*entities.Jamaah, error) {
	birthDate, err := nullDateFromPtr(payload.BirthDate, "birth_date")
	if err != nil {
		return nil, err
	}

	jamaah := &entities.Jamaah{
		NIK:            payload.NIK,
		Name:           payload.Name,
		PassportNumber: null.StringFromPtr(payload.PassportNumber),
		Phone:          null.StringFromPtr(payload.Phone),
		Gender:         null.StringFromPtr(payload.Gender),
		BirthDate:      birthDate,
		Address:        null.StringFromPtr(payload.Address),
		Status:         "registered",
		PackageID:      null.IntFromPtr(payload.PackageID),
		CreatedBy:      null.IntFrom(createdBy),
	}

	created, err := s.jamaahRepository.Create(ctx, jamaah)
	if err != nil {
		return nil, err
	}
	s.logger.Info("jamaah terdaftar", zap.Int("jamaah_id", created.ID), zap.String("nik", created.NIK))
	return created, nil
}

func (s *JamaahService) FindAll(ctx context.Context, filter types.Filter) ([]entities.Jamaah, uint64, error) {
	return s.jamaahRepository.FindAll(ctx, filter)
}

func (s *JamaahService) FindByID(ctx context.Context, id int) (*entities.Jamaah, error) {
	return s.jamaahRepository.FindByID(ctx, id)
}

func (s *JamaahService) Update(ctx context.Context, id int, payload dto.UpdateJamaahDTO) (*entities.Jamaah, error) {
	fields := map[string]interface{}{}
	if payload.Name != nil {
		fields["name"] = *payload.Name
	}
	if payload.PassportNumber != nil {
		fields["passport_number"] = *payload.PassportNumber
	}
	if payload.Phone != nil {
		fields["phone"] = *payload.Phone
	}
	if payload.Gender != nil {
		fields["gender"] = *payload.Gender
	}
	if payload.BirthDate != nil {
		d, err := parseDate(*payload.BirthDate)
		if err != nil {
			return nil, apperrors.Validation("format birth_date tidak valid")
		}
		fields["birth_date"] = d
	}
	if payload.Address != nil {
		fields["address"] = *payload.Address
	}
	if payload.Status != nil {
		fields["status"] = *payload.Status
	}
	if payload.PackageID != nil {
		fields["package_id"] = *payload.PackageID
	}

	if err := s.jamaahRepository.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.jamaahRepository.FindByID(ctx, id)
}

func (s *JamaahService) Delete(ctx context.Context, id int) error {
	return s.jamaahRepository.Delete(ctx, id)
}
