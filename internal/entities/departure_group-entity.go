package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// DepartureGroup is a cohort traveling together under one package.
// CurrentMembers is a materialized count of group_members rows; it is
// recomputed from a live COUNT after every membership mutation and never
// incremented in place.
type DepartureGroup struct {
	ID              int         `json:"id"`
	PackageID       int         `json:"package_id"`
	Name            string      `json:"name"`
	Code            string      `json:"code"`
	MaxMembers      int         `json:"max_members"`
	CurrentMembers  int         `json:"current_members"`
	DepartureDate   null.Time   `json:"departure_date"`
	BusNumber       null.String `json:"bus_number"`
	MeetingTime     null.String `json:"meeting_time"`
	MeetingPoint    null.String `json:"meeting_point"`
	TourLeader      null.String `json:"tour_leader"`
	TourLeaderPhone null.String `json:"tour_leader_phone"`
	Status          string      `json:"status"`
	Notes           null.String `json:"notes"`
	CreatedBy       null.Int    `json:"created_by"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	PackageName null.String `json:"package_name,omitempty"`
	PackageCode null.String `json:"package_code,omitempty"`

	SubGroups []DepartureSubGroup `json:"sub_groups,omitempty"`
	Members   []GroupMember       `json:"members,omitempty"`
}

// GroupMember associates a jamaah with a departure group. One active
// membership per (group, jamaah).
type GroupMember struct {
	ID         int         `json:"id"`
	GroupID    int         `json:"group_id"`
	SubGroupID null.Int    `json:"sub_group_id"`
	JamaahID   int         `json:"jamaah_id"`
	Role       string      `json:"role"`
	SeatNumber null.String `json:"seat_number"`
	RoomNumber null.String `json:"room_number"`
	Notes      null.String `json:"notes"`
	CreatedBy  null.Int    `json:"created_by"`
	CreatedAt  time.Time   `json:"created_at"`

	JamaahName     null.String `json:"jamaah_name,omitempty"`
	JamaahPhone    null.String `json:"jamaah_phone,omitempty"`
	PassportNumber null.String `json:"passport_number,omitempty"`
}

// DepartureSubGroup partitions a group per bus or hotel room block.
type DepartureSubGroup struct {
	ID             int         `json:"id"`
	GroupID        int         `json:"group_id"`
	Name           string      `json:"name"`
	HotelMakkah    null.String `json:"hotel_makkah"`
	HotelMadinah   null.String `json:"hotel_madinah"`
	MaxMembers     int         `json:"max_members"`
	CurrentMembers int         `json:"current_members"`
	Notes          null.String `json:"notes"`
	CreatedAt      time.Time   `json:"created_at"`
}

type GroupStatistics struct {
	TotalGroups     int `json:"total_groups"`
	PlanningGroups  int `json:"planning_groups"`
	ActiveGroups    int `json:"active_groups"`
	DepartedGroups  int `json:"departed_groups"`
	CompletedGroups int `json:"completed_groups"`
	TotalMembers    int `json:"total_members"`
	TotalCapacity   int `json:"total_capacity"`
}
