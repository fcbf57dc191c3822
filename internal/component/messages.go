package component

import (
	"github.com/kagami-vn/engine/internal/core/ecs"
	"github.com/kagami-vn/engine/internal/core/message"
)

// ButtonPressed is sent to a button's listeners when it is clicked.
type ButtonPressed struct {
	message.Header
	Button ecs.EntityID
}

// Contact is sent to a unit whose bounds overlap another's.
type Contact struct {
	message.Header
	Other ecs.EntityID
}
