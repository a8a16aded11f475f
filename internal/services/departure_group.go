package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"umroh-system/internal/dto"
	"umroh-system/internal/entities"
	"umroh-system/internal/repositories"
	apperrors "umroh-system/pkg/errors"
	"umroh-system/pkg/types"
)

type DepartureGroupService struct {
	groupRepository   repositories.DepartureGroupRepositoryInterface
	packageRepository repositories.PackageRepositoryInterface
	logger            *zap.Logger
}

func NewDepartureGroupService(
	groupRepository repositories.DepartureGroupRepositoryInterface,
	packageRepository repositories.PackageRepositoryInterface,
	logger *zap.Logger,
) *DepartureGroupService {
	return &DepartureGroupService{
		groupRepository:   groupRepository,
		packageRepository: packageRepository,
		logger:            logger,
	}
}

// GroupCodeSuffix maps the zero-based group index within a package to its
// code suffix: A, B, ... Z, then AA, AB and so on.
func GroupCodeSuffix(index int) string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	if index < len(letters) {
		return string(letters[index])
	}
	return string(letters[index/len(letters)-1]) + string(letters[index%len(letters)])
}

func (s *DepartureGroupService) Create(ctx context.Context, payload dto.CreateDepartureGroupDTO, createdBy int) (*entities.DepartureGroup, error) {
	pkg, err := s.packageRepository.FindByID(ctx, payload.PackageID)
	if err != nil {
		return nil, err
	}

	existing, err := s.groupRepository.CountByPackage(ctx, payload.PackageID)
	if err != nil {
		return nil, err
	}

	group := &entities.DepartureGroup{
		PackageID:       payload.PackageID,
		Name:            payload.Name,
		Code:            fmt.Sprintf("%s-%s", pkg.Code, GroupCodeSuffix(existing)),
		MaxMembers:      payload.MaxMembers,
		BusNumber:       null.StringFromPtr(payload.BusNumber),
		MeetingTime:     null.StringFromPtr(payload.MeetingTime),
		MeetingPoint:    null.StringFromPtr(payload.MeetingPoint),
		TourLeader:      null.StringFromPtr(payload.TourLeader),
		TourLeaderPhone: null.StringFromPtr(payload.TourLeaderPhone),
		Status:          "planning",
		Notes:           null.StringFromPtr(payload.Notes),
		CreatedBy:       null.IntFrom(createdBy),
	}
	if payload.DepartureDate != nil {
		d, err := time.Parse("2006-01-02", *payload.DepartureDate)
		if err != nil {
			return nil, apperrors.Validation("format departure_date tidak valid")
		}
		group.DepartureDate = null.TimeFrom(d)
	} else {
		group.DepartureDate = null.TimeFrom(pkg.DepartureDate)
	}

	created, err := s.groupRepository.Create(ctx, group)
	if err != nil {
		s.logger.Error("gagal membuat grup keberangkatan", zap.Error(err))
		return nil, err
	}
	s.logger.Info("grup keberangkatan dibuat",
		zap.Int("group_id", created.ID), zap.String("code", created.Code))
	return created, nil
}

func (s *DepartureGroupService) FindAll(ctx context.Context, filter types.Filter) ([]entities.DepartureGroup, uint64, error) {
	return s.groupRepository.FindAll(ctx, filter)
}

func (s *DepartureGroupService) FindByID(ctx context.Context, id int) (*entities.DepartureGroup, error) {
	return s.groupRepository.FindByID(ctx, id)
}

func (s *DepartureGroupService) FindByPackage(ctx context.Context, packageID int) ([]entities.DepartureGroup, error) {
	return s.groupRepository.FindByPackage(ctx, packageID)
}

// Update maps only the mutable fields into the update set. Identity and
// derived columns (id, code, package_id, current_members, created_*) are
// never touched.
func (s *DepartureGroupService) Update(ctx context.Context, id int, payload dto.UpdateDepartureGroupDTO) (*entities.DepartureGroup, error) {
	fields := map[string]interface{}{}
	if payload.Name != nil {
		fields["name"] = *payload.Name
	}
	if payload.MaxMembers != nil {
		fields["max_members"] = *payload.MaxMembers
	}
	if payload.DepartureDate != nil {
		d, err := time.Parse("2006-01-02", *payload.DepartureDate)
		if err != nil {
			return nil, apperrors.Validation("format departure_date tidak valid")
		}
		fields["departure_date"] = d
	}
	if payload.BusNumber != nil {
		fields["bus_number"] = *payload.BusNumber
	}
	if payload.MeetingTime != nil {
		fields["meeting_time"] = *payload.MeetingTime
	}
	if payload.MeetingPoint != nil {
		fields["meeting_point"] = *payload.MeetingPoint
	}
	if payload.TourLeader != nil {
		fields["tour_leader"] = *payload.TourLeader
	}
	if payload.TourLeaderPhone != nil {
		fields["tour_leader_phone"] = *payload.TourLeaderPhone
	}
	if payload.Status != nil {
		fields["status"] = *payload.Status
	}
	if payload.Notes != nil {
		fields["notes"] = *payload.Notes
	}

	if err := s.groupRepository.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.groupRepository.FindByID(ctx, id)
}

func (s *DepartureGroupService) Delete(ctx context.Context, id int) error {
	return s.groupRepository.Delete(ctx, id)
}

func (s *DepartureGroupService) AddMember(ctx context.Context, groupID int, payload dto.AddGroupMemberDTO, createdBy int) (*entities.GroupMember, error) {
	role := payload.Role
	if role == "" {
		role = "member"
	}
	member := &entities.GroupMember{
		SubGroupID: null.IntFromPtr(payload.SubGroupID),
		JamaahID:   payload.JamaahID,
		Role:       role,
		SeatNumber: null.StringFromPtr(payload.SeatNumber),
		RoomNumber: null.StringFromPtr(payload.RoomNumber),
		Notes:      null.StringFromPtr(payload.Notes),
		CreatedBy:  null.IntFrom(createdBy),
	}

	added, err := s.groupRepository.AddMember(ctx, groupID, member)
	if err != nil {
		return nil, err
	}
	s.logger.Info("anggota grup ditambahkan",
		zap.Int("group_id", groupID), zap.Int("jamaah_id", payload.JamaahID))
	return added, nil
}

func (s *DepartureGroupService) RemoveMember(ctx context.Context, groupID, jamaahID int) error {
	return s.groupRepository.RemoveMember(ctx, groupID, jamaahID)
}

func (s *DepartureGroupService) CreateSubGroup(ctx context.Context, groupID int, payload dto.CreateSubGroupDTO) (*entities.DepartureSubGroup, error) {
	sub := &entities.DepartureSubGroup{
		GroupID:      groupID,
		Name:         payload.Name,
		HotelMakkah:  null.StringFromPtr(payload.HotelMakkah),
		HotelMadinah: null.StringFromPtr(payload.HotelMadinah),
		MaxMembers:   payload.MaxMembers,
		Notes:        null.StringFromPtr(payload.Notes),
	}
	return s.groupRepository.CreateSubGroup(ctx, sub)
}

func (s *DepartureGroupService) Statistics(ctx context.Context) (*entities.GroupStatistics, error) {
	return s.groupRepository.Statistics(ctx)
}
