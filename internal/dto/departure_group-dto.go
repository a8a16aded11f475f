package dto

type CreateDepartureGroupDTO struct {
	PackageID       int     `json:"package_id" validate:"required,gt=0"`
	Name            string  `json:"name" validate:"required"`
	MaxMembers      int     `json:"max_members" validate:"required,gt=0"`
	DepartureDate   *string `json:"departure_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	BusNumber       *string `json:"bus_number,omitempty"`
	MeetingTime     *string `json:"meeting_time,omitempty"`
	MeetingPoint    *string `json:"meeting_point,omitempty"`
	TourLeader      *string `json:"tour_leader,omitempty"`
	TourLeaderPhone *string `json:"tour_leader_phone,omitempty" validate:"omitempty,phone_id"`
	Notes           *string `json:"notes,omitempty"`
}

type UpdateDepartureGroupDTO struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1"`
	MaxMembers      *int    `json:"max_members,omitempty" validate:"omitempty,gt=0"`
	DepartureDate   *string `json:"departure_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	BusNumber       *string `json:"bus_number,omitempty"`
	MeetingTime     *string `json:"meeting_time,omitempty"`
	MeetingPoint    *string `json:"meeting_point,omitempty"`
	TourLeader      *string `json:"tour_leader,omitempty"`
	TourLeaderPhone *string `json:"tour_leader_phone,omitempty" validate:"omitempty,phone_id"`
	Status          *string `json:"status,omitempty" validate:"omitempty,oneof=planning active departed completed cancelled"`
	Notes           *string `json:"notes,omitempty"`
}

type AddGroupMemberDTO struct {
	JamaahID   int     `json:"jamaah_id" validate:"required,gt=0"`
	SubGroupID *int    `json:"sub_group_id,omitempty" validate:"omitempty,gt=0"`
	Role       string  `json:"role" validate:"omitempty,oneof=member leader muthawif"`
	SeatNumber *string `json:"seat_number,omitempty"`
	RoomNumber *string `json:"room_number,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

type CreateSubGroupDTO struct {
	Name         string  `json:"name" validate:"required"`
	HotelMakkah  *string `json:"hotel_makkah,omitempty"`
	HotelMadinah *string `json:"hotel_madinah,omitempty"`
	MaxMembers   int     `json:"max_members" validate:"required,gt=0"`
	Notes        *string `json:"notes,omitempty"`
}
