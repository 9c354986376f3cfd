// Package door decides which prison door should be open for a character and
// keeps at most one door open at a time.
package door

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/prisonstep/internal/logger"
	"github.com/Faultbox/prisonstep/pkg/math"
)

// UnderRange is the half-width of the band around a door's center inside
// which the door is forced open.
const UnderRange = 40

// Door is the static geometry of one door. Axis points through the door.
type Door struct {
	ID     int
	Center math.Vec3
	Axis   math.Vec3
}

// Query is the door-model side: it owns the actual open state.
type Query interface {
	IsDoorOpen(id int) bool
	SetDoorOpen(id int, open bool)
}

// PrisonDoors returns the five doors of the prison level.
func PrisonDoors() []Door {
	return []Door{
		{ID: 1, Center: math.Vec3{X: 218, Y: 0, Z: 1023}, Axis: math.Vec3{X: 1}},
		{ID: 2, Center: math.Vec3{X: -11, Y: 0, Z: -769}, Axis: math.Vec3{Z: 1}},
		{ID: 3, Center: math.Vec3{X: 587, Y: 0, Z: -999}, Axis: math.Vec3{X: 1}},
		{ID: 4, Center: math.Vec3{X: 787, Y: 0, Z: -763}, Axis: math.Vec3{Z: 1}},
		{ID: 5, Center: math.Vec3{X: 1187, Y: 0, Z: -1218}, Axis: math.Vec3{Z: 1}},
	}
}

// Controller tracks the one door the character has opened.
type Controller struct {
	doors    map[int]Door
	query    Query
	openDoor int
	log      *zap.Logger
}

// NewController creates a controller for doors, issuing commands to q.
// Door ids must be positive and unique.
func NewController(doors []Door, q Query) (*Controller, error) {
	c := &Controller{
		doors: make(map[int]Door, len(doors)),
		query: q,
		log:   logger.Named("door"),
	}
	for _, d := range doors {
		if d.ID <= 0 {
			return nil, fmt.Errorf("door id %d: must be positive", d.ID)
		}
		if _, dup := c.doors[d.ID]; dup {
			return nil, fmt.Errorf("door id %d: duplicate", d.ID)
		}
		c.doors[d.ID] = d
	}
	return c, nil
}

// Door returns the geometry of door id.
func (c *Controller) Door(id int) (Door, bool) {
	d, ok := c.doors[id]
	return d, ok
}

// IDs returns the known door ids in ascending order.
func (c *Controller) IDs() []int {
	ids := make([]int, 0, len(c.doors))
	for id := range c.doors {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// OpenDoor returns the id of the door currently flagged open, or 0.
func (c *Controller) OpenDoor() int {
	return c.openDoor
}

// IsOpen asks the door model whether door id is actually open.
func (c *Controller) IsOpen(id int) bool {
	return c.query.IsDoorOpen(id)
}

// ShouldBeOpen reports whether door id should be open for a character at
// location looking along facing. underDoor is set when location lies in the
// band of UnderRange on either side of the door's center; the door is then
// always open. Panics on an unknown id.
func (c *Controller) ShouldBeOpen(id int, location, facing math.Vec3) (open, underDoor bool) {
	d, ok := c.doors[id]
	if !ok {
		panic(fmt.Sprintf("door: unknown door %d", id))
	}

	// Point the axis the way the character would walk through.
	axis := d.Axis
	if d.Center.Sub(location).Dot(axis) < 0 {
		axis = axis.Neg()
	}

	before := d.Center.Sub(axis.Scale(UnderRange))
	after := d.Center.Add(axis.Scale(UnderRange))

	if location.Sub(after).Dot(axis) <= 0 && location.Sub(before).Dot(axis) >= 0 {
		return true, true
	}
	return facing.Dot(axis) >= 0, false
}

// SetOpenDoor makes id the only open door. Zero closes the current one.
// Repeating the current id issues no commands.
func (c *Controller) SetOpenDoor(id int) {
	if c.openDoor == id {
		return
	}

	if c.openDoor > 0 {
		c.query.SetDoorOpen(c.openDoor, false)
	}

	c.log.Debug("open door changed", zap.Int("from", c.openDoor), zap.Int("to", id))

	c.openDoor = id
	if id > 0 {
		c.query.SetDoorOpen(id, true)
	}
}
