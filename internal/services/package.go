package services

import (
	"context"
	"strings"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"umroh-system/internal/dto"
	"umroh-system/internal/entities"
	"umroh-system/internal/repositories"
	apperrors "umroh-system/pkg/errors"
	"umroh-system/pkg/types"
)

type PackageService struct {
	packageRepository repositories.PackageRepositoryInterface
	logger            *zap.Logger
}

func NewPackageService(packageRepository repositories.PackageRepositoryInterface, logger *zap.Logger) *PackageService {
	return &PackageService{packageRepository: packageRepository, logger: logger}
}

func (s *PackageService) Create(ctx context.Context, payload dto.CreatePackageDTO, createdBy int) (*entities.Package, error) {
	departure, err := parseDate(payload.DepartureDate)
	if err != nil {
		return nil, apperrors.Validation("format departure_date tidak valid")
	}
	ret, err := parseDate(payload.ReturnDate)
	if err != nil {
		return nil, apperrors.Validation("format return_date tidak valid")
	}
	if !ret.After(departure) {
		return nil, apperrors.Validation("tanggal pulang harus setelah tanggal berangkat")
	}

	pkg := &entities.Package{
		Code:          strings.ToUpper(payload.Code),
		Name:          payload.Name,
		Price:         payload.Price,
		DepartureDate: departure,
		ReturnDate:    ret,
		Quota:         payload.Quota,
		PackageType:   payload.PackageType,
		Status:        "active",
		Description:   null.StringFromPtr(payload.Description),
		CreatedBy:     null.IntFrom(createdBy),
	}

	created, err := s.packageRepository.Create(ctx, pkg)
	if err != nil {
		return nil, err
	}
	s.logger.Info("paket dibuat", zap.Int("package_id", created.ID), zap.String("code", created.Code))
	return created, nil
}

func (s *PackageService) FindAll(ctx context.Context, filter types.Filter) ([]entities.Package, uint64, error) {
	return s.packageRepository.FindAll(ctx, filter)
}

func (s *PackageService) FindByID(ctx context.Context, id int) (*entities.Package, error) {
	return s.packageRepository.FindByID(ctx, id)
}

func (s *PackageService) Update(ctx context.Context, id int, payload dto.UpdatePackageDTO) (*entities.Package, error) {
	fields := map[string]interface{}{}
	if payload.Name != nil {
		fields["name"] = *payload.Name
	}
	if payload.Price != nil {
		fields["price"] = *payload.Price
	}
	if payload.DepartureDate != nil {
		d, err := parseDate(*payload.DepartureDate)
		if err != nil {
			return nil, apperrors.Validation("format departure_date tidak valid")
		}
		fields["departure_date"] = d
	}
	if payload.ReturnDate != nil {
		d, err := parseDate(*payload.ReturnDate)
		if err != nil {
			return nil, apperrors.Validation("format return_date tidak valid")
		}
		fields["return_date"] = d
	}
	if payload.Quota != nil {
		fields["quota"] = *payload.Quota
	}
	if payload.PackageType != nil {
		fields["package_type"] = *payload.PackageType
	}
	if payload.Status != nil {
		fields["status"] = *payload.Status
	}
	if payload.Description != nil {
		fields["description"] = *payload.Description
	}

	if err := s.packageRepository.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.packageRepository.FindByID(ctx, id)
}

func (s *PackageService) Delete(ctx context.Context, id int) error {
	return s.packageRepository.Delete(ctx, id)
}
