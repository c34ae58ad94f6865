package entity

import "errors"

// ErrRoomUnavailable is returned by the store when a room is already booked.
var ErrRoomUnavailable = errors.New("room is not available")
