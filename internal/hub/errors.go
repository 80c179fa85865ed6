package hub

import "errors"

var (
	// ErrNoIdentity rejects a handshake that reached the hub without a
	// verified user identity.
	ErrNoIdentity = errors.New("handshake rejected: no verified identity")

	// ErrDuplicateConnection means the connection id is already registered.
	ErrDuplicateConnection = errors.New("connection id already registered")

	// ErrRoomNotFound means a meeting join referenced an unknown room.
	ErrRoomNotFound = errors.New("room not found")

	// ErrRoomClosed means a meeting join referenced a closed room.
	ErrRoomClosed = errors.New("room is closed")
)
