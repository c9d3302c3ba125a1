package meeting

import (
	"fmt"

	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
)

// ===============================
// Meeting Status
// ===============================

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusFinished  Status = "FINISHED"
	StatusCancelled Status = "CANCELLED"
)

var Statuses = []Status{StatusActive, StatusFinished, StatusCancelled}

func InitialStatus() Status {
	return StatusActive
}

func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", httperr.ErrValidation(
		"invalid_meeting_status",
		fmt.Sprintf("Unknown meeting status %q; use ACTIVE, FINISHED or CANCELLED.", s),
	)
}

// BlocksRoom: só reuniões ACTIVE ocupam a sala.
func (s Status) BlocksRoom() bool {
	return s == StatusActive
}

// ===============================
// Rooms
// ===============================

type Room string

const (
	RoomSpringsteen Room = "SPRINGSTEEN"
	RoomDylan       Room = "DYLAN"
	RoomArmstrong   Room = "ARMSTRONG"
	RoomMartin      Room = "MARTIN"
)

var Rooms = []Room{RoomSpringsteen, RoomDylan, RoomArmstrong, RoomMartin}

func ParseRoom(s string) (Room, error) {
	for _, r := range Rooms {
		if string(r) == s {
			return r, nil
		}
	}
	return "", httperr.ErrValidation(
		"invalid_room",
		fmt.Sprintf("Unknown room %q; use SPRINGSTEEN, DYLAN, ARMSTRONG or MARTIN.", s),
	)
}

// ===============================
// Validations
// ===============================

const DefaultCapacity = 4

func CanJoin(id uint, current Status) error {
	if current != StatusActive {
		return httperr.ErrInvalidState(
			"meeting_not_active",
			fmt.Sprintf("Meeting %d is %s; only ACTIVE meetings can be joined.", id, current),
		)
	}
	return nil
}
