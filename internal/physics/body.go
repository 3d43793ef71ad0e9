package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/boxsim/internal/geom"
)

const (
	DefaultMass      = 1.0
	DefaultDrag      = 0.5
	DefaultRoughness = 5.0
)

// DefaultGravity pulls along -Y in meters per second squared.
var DefaultGravity = mgl64.Vec3{0, -9.81, 0}

// Membership is the list of bodies sharing a scene with a body. It is owned
// by the container; bodies only read it.
type Membership interface {
	Bodies() []*Body
}

// Body is an axis-aligned box with kinematic and collision state.
type Body struct {
	name string
	box  geom.Box

	velocity          mgl64.Vec3
	acceleration      mgl64.Vec3
	gravity           mgl64.Vec3
	terminalVelocity  mgl64.Vec3
	mass              float64
	drag              [6]float64
	roughness         [6]float64
	collidableSides   geom.SideSet
	kinematicAxes     geom.AxisSet
	pushableAxes      geom.AxisSet
	updatable         bool
	deltaTime         float64
	scene             Membership
	collidingObjects  [6]*bodySet
	overlapping       *bodySet
	skipMomentum      geom.AxisSet
	specialCollisions *bodySet
}

// Option configures a body at construction.
type Option func(*Body)

func WithName(name string) Option { return func(b *Body) { b.name = name } }

func WithPosition(p mgl64.Vec3) Option { return func(b *Body) { b.box.Position = p } }

func WithSize(width, height, depth float64) Option {
	return func(b *Body) {
		b.box.Width, b.box.Height, b.box.Depth = width, height, depth
	}
}

func WithVelocity(v mgl64.Vec3) Option { return func(b *Body) { b.velocity = v } }

func WithAcceleration(a mgl64.Vec3) Option { return func(b *Body) { b.acceleration = a } }

func WithGravity(g mgl64.Vec3) Option { return func(b *Body) { b.gravity = g } }

func WithMass(m float64) Option { return func(b *Body) { b.mass = m } }

// WithDrag sets the drag coefficient on the given sides, or all sides if none.
func WithDrag(drag float64, sides ...geom.Side) Option {
	return func(b *Body) { b.SetDrag(drag, sides...) }
}

// WithRoughness sets the roughness on the given sides, or all sides if none.
func WithRoughness(roughness float64, sides ...geom.Side) Option {
	return func(b *Body) { b.SetRoughness(roughness, sides...) }
}

// WithDragAll sets one drag coefficient per side, indexed by side.
func WithDragAll(perSide [6]float64) Option {
	return func(b *Body) { b.SetDragAll(perSide) }
}

// WithRoughnessAll sets one roughness per side, indexed by side.
func WithRoughnessAll(perSide [6]float64) Option {
	return func(b *Body) { b.SetRoughnessAll(perSide) }
}

func WithCollidable(sides ...geom.Side) Option {
	return func(b *Body) { b.collidableSides = geom.NewSideSet(sides...) }
}

func WithKinematic(axes ...geom.Axis) Option {
	return func(b *Body) { b.kinematicAxes = geom.NewAxisSet(axes...) }
}

func WithPushable(axes ...geom.Axis) Option {
	return func(b *Body) { b.pushableAxes = geom.NewAxisSet(axes...) }
}

// WithTerminalVelocity caps |v| per axis; a zero component leaves that axis
// unlimited.
func WithTerminalVelocity(v mgl64.Vec3) Option {
	return func(b *Body) { b.SetTerminalVelocity(v) }
}

// New returns a unit cube at the origin with default physical properties,
// collidable on every side and kinematic and pushable on every axis.
func New(opts ...Option) *Body {
	b := &Body{
		box:               geom.NewBox(1, 1, 1),
		gravity:           DefaultGravity,
		mass:              DefaultMass,
		collidableSides:   geom.AllSides,
		kinematicAxes:     geom.AllAxes,
		pushableAxes:      geom.AllAxes,
		updatable:         true,
		overlapping:       newBodySet(),
		specialCollisions: newBodySet(),
	}
	for i := range b.collidingObjects {
		b.collidingObjects[i] = newBodySet()
		b.drag[i] = DefaultDrag
		b.roughness[i] = DefaultRoughness
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Clone copies the physical state of b. The copy has empty collision sets and
// no scene membership.
func (b *Body) Clone() *Body {
	c := *b
	c.scene = nil
	c.skipMomentum = 0
	c.overlapping = newBodySet()
	c.specialCollisions = newBodySet()
	for i := range c.collidingObjects {
		c.collidingObjects[i] = newBodySet()
	}
	return &c
}

func (b *Body) Name() string        { return b.name }
func (b *Body) SetName(name string) { b.name = name }

// Box returns the current bounds of the body.
func (b *Body) Box() geom.Box { return b.box }

func (b *Body) Position() mgl64.Vec3         { return b.box.Position }
func (b *Body) SetPosition(p mgl64.Vec3)     { b.box.Position = p }
func (b *Body) Velocity() mgl64.Vec3         { return b.velocity }
func (b *Body) SetVelocity(v mgl64.Vec3)     { b.velocity = v }
func (b *Body) Acceleration() mgl64.Vec3     { return b.acceleration }
func (b *Body) SetAcceleration(a mgl64.Vec3) { b.acceleration = a }
func (b *Body) Gravity() mgl64.Vec3          { return b.gravity }
func (b *Body) SetGravity(g mgl64.Vec3)      { b.gravity = g }
func (b *Body) Mass() float64                { return b.mass }
func (b *Body) SetMass(m float64)            { b.mass = m }

func (b *Body) Width() float64  { return b.box.Width }
func (b *Body) Height() float64 { return b.box.Height }
func (b *Body) Depth() float64  { return b.box.Depth }

func (b *Body) SetSize(width, height, depth float64) {
	b.box.Width, b.box.Height, b.box.Depth = width, height, depth
}

func (b *Body) TerminalVelocity() mgl64.Vec3 { return b.terminalVelocity }

func (b *Body) SetTerminalVelocity(v mgl64.Vec3) {
	for _, a := range geom.Axes {
		if v[a] < 0 {
			v[a] = -v[a]
		}
	}
	b.terminalVelocity = v
}

// Drag returns the drag coefficient of side, or 0 for an invalid side.
func (b *Body) Drag(side geom.Side) float64 {
	if !side.Valid() {
		return 0
	}
	return b.drag[side]
}

// SetDrag sets the drag coefficient on the given sides, or all sides if none
// are given. Invalid sides are ignored.
func (b *Body) SetDrag(drag float64, sides ...geom.Side) {
	for _, s := range orAllSides(sides) {
		if s.Valid() {
			b.drag[s] = drag
		}
	}
}

// SetDragAll sets one drag coefficient per side in left, right, bottom, top,
// back, front order.
func (b *Body) SetDragAll(perSide [6]float64) { b.drag = perSide }

// Roughness returns the roughness of side, or 0 for an invalid side.
func (b *Body) Roughness(side geom.Side) float64 {
	if !side.Valid() {
		return 0
	}
	return b.roughness[side]
}

// SetRoughness sets the roughness on the given sides, or all sides if none
// are given. Invalid sides are ignored.
func (b *Body) SetRoughness(roughness float64, sides ...geom.Side) {
	for _, s := range orAllSides(sides) {
		if s.Valid() {
			b.roughness[s] = roughness
		}
	}
}

// SetRoughnessAll sets one roughness per side in Sides order.
func (b *Body) SetRoughnessAll(perSide [6]float64) { b.roughness = perSide }

// IsCollidable with no arguments reports whether any side is collidable.
func (b *Body) IsCollidable(sides ...geom.Side) bool {
	if len(sides) == 0 {
		return !b.collidableSides.Empty()
	}
	return b.collidableSides.HasAll(sides...)
}

// SetCollidable replaces the collidable sides. No arguments makes the body
// non-collidable.
func (b *Body) SetCollidable(sides ...geom.Side) { b.collidableSides = geom.NewSideSet(sides...) }

func (b *Body) CollidableSides() geom.SideSet { return b.collidableSides }

// IsKinematic with no arguments reports whether any axis is kinematic.
func (b *Body) IsKinematic(axes ...geom.Axis) bool {
	if len(axes) == 0 {
		return !b.kinematicAxes.Empty()
	}
	return b.kinematicAxes.HasAll(axes...)
}

// SetKinematic replaces the kinematic axes. No arguments freezes the body.
func (b *Body) SetKinematic(axes ...geom.Axis) { b.kinematicAxes = geom.NewAxisSet(axes...) }

func (b *Body) KinematicAxes() geom.AxisSet { return b.kinematicAxes }

// IsPushable with no arguments reports whether any axis is pushable.
func (b *Body) IsPushable(axes ...geom.Axis) bool {
	if len(axes) == 0 {
		return !b.pushableAxes.Empty()
	}
	return b.pushableAxes.HasAll(axes...)
}

func (b *Body) SetPushable(axes ...geom.Axis) { b.pushableAxes = geom.NewAxisSet(axes...) }

func (b *Body) PushableAxes() geom.AxisSet { return b.pushableAxes }

// SetUpdatable enables or disables ticking. Intended for the owning container.
func (b *Body) SetUpdatable(updatable bool) { b.updatable = updatable }

func (b *Body) Updatable() bool { return b.updatable }

// SetSceneObjects attaches the sibling list collisions are tested against.
// Intended for the owning container; nil detaches.
func (b *Body) SetSceneObjects(m Membership) { b.scene = m }

// IsColliding reports whether anything is in contact with any side.
func (b *Body) IsColliding() bool {
	for _, set := range b.collidingObjects {
		if set.len() > 0 {
			return true
		}
	}
	return false
}

// IsCollidingOn reports whether every given side has at least one contact.
func (b *Body) IsCollidingOn(sides ...geom.Side) bool {
	for _, s := range sides {
		if b.collidingObjects[s].len() == 0 {
			return false
		}
	}
	return true
}

// IsCollidingWith reports whether other is in contact on side.
func (b *Body) IsCollidingWith(other *Body, side geom.Side) bool {
	return b.collidingObjects[side].contains(other)
}

// CollidingObjects returns the contacts on the given sides, or on every side
// if none are given, without duplicates.
func (b *Body) CollidingObjects(sides ...geom.Side) []*Body {
	seen := newBodySet()
	for _, s := range orAllSides(sides) {
		for _, o := range b.collidingObjects[s].items {
			seen.add(o)
		}
	}
	return seen.items
}

// CollidingSides returns the sides with at least one contact.
func (b *Body) CollidingSides() []geom.Side {
	out := make([]geom.Side, 0, 6)
	for _, s := range geom.Sides {
		if b.collidingObjects[s].len() > 0 {
			out = append(out, s)
		}
	}
	return out
}

// IsOverlapping with no arguments reports whether anything overlaps; otherwise
// whether every given body does.
func (b *Body) IsOverlapping(bodies ...*Body) bool {
	if len(bodies) == 0 {
		return b.overlapping.len() > 0
	}
	for _, o := range bodies {
		if !b.overlapping.contains(o) {
			return false
		}
	}
	return true
}

func (b *Body) OverlappingObjects() []*Body { return b.overlapping.slice() }

func orAllSides(sides []geom.Side) []geom.Side {
	if len(sides) > 0 {
		return sides
	}
	return geom.Sides[:]
}
