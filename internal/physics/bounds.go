package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/luketas/soccer-ai/internal/geom"
	"github.com/luketas/soccer-ai/internal/pitch"
)

// collide resolves posts, crossbar, lines and net. Order matters: post
// pushes are re-checked against the line clamps that follow them.
func (b *Ball) collide(rng Rand) Hit {
	var hit Hit
	for _, s := range []pitch.Side{pitch.West, pitch.East} {
		if b.collidePosts(s) {
			hit |= HitPost
		}
		if b.collideCrossbar(s) {
			hit |= HitCrossbar
		}
	}
	if b.collideSidelines(rng) {
		hit |= HitSideline
	}
	hit |= b.collideEnds(rng)
	b.inNet = math.Abs(b.Position[0]) > b.pitch.HalfLength
	return hit
}

func (b *Ball) inMouth() bool {
	return math.Abs(b.Position[2]) < b.pitch.GoalHalfWidth && b.Position[1] < b.pitch.GoalHeight
}

func (b *Ball) collidePosts(s pitch.Side) bool {
	p := b.pitch
	r := b.cfg.Radius
	if b.Position[1] > p.GoalHeight+r {
		return false
	}
	hit := false
	minDist := r + p.PostRadius
	for _, post := range p.Posts(s) {
		if geom.PlanarDist(b.Position, post) >= minDist {
			continue
		}
		n := geom.PlanarDir(post, b.Position, mgl64.Vec3{-float64(s), 0, 0})
		b.Position = geom.WithPlanar(b.Position, post.Add(n.Mul(minDist)))
		b.bounceOff(n)
		hit = true
	}
	return hit
}

func (b *Ball) collideCrossbar(s pitch.Side) bool {
	p := b.pitch
	r := b.cfg.Radius
	if math.Abs(b.Position[2]) >= p.GoalHalfWidth {
		return false
	}
	bar := mgl64.Vec3{p.GoalLineX(s), p.GoalHeight, b.Position[2]}
	d := mgl64.Vec3{b.Position[0] - bar[0], b.Position[1] - bar[1], 0}
	minDist := r + p.PostRadius
	if d.Len() >= minDist {
		return false
	}
	n := geom.SafeNormalize(d, geom.Up)
	b.Position = bar.Add(n.Mul(minDist))
	b.bounceOff(n)
	return true
}

// bounceOff reflects the velocity about n with the post restitution and a
// vertical kick.
func (b *Ball) bounceOff(n mgl64.Vec3) {
	vn := b.Velocity.Dot(n)
	if vn >= 0 {
		return
	}
	b.Velocity = b.Velocity.Sub(n.Mul((1 + b.cfg.PostBounce) * vn))
	b.Velocity[1] += b.cfg.PostLift
}

func (b *Ball) collideSidelines(rng Rand) bool {
	maxZ := b.pitch.HalfWidth - b.cfg.Radius
	if math.Abs(b.Position[2]) <= maxZ {
		return false
	}
	sign := geom.Sign(b.Position[2])
	b.Position[2] = sign * maxZ
	if b.Velocity[2]*sign > 0 {
		b.Velocity[2] = -b.Velocity[2] * b.cfg.BounceFactor
	}
	b.Velocity[0] += Spread(rng, b.cfg.WallDeflection)
	return true
}

func (b *Ball) collideEnds(rng Rand) Hit {
	p := b.pitch
	r := b.cfg.Radius
	x := math.Abs(b.Position[0])
	sign := geom.Sign(b.Position[0])

	if x > p.HalfLength && (b.inNet || b.inMouth()) {
		return b.containNet(sign)
	}
	if x <= p.HalfLength-r {
		return 0
	}
	if x <= p.HalfLength && b.inMouth() {
		return 0
	}
	b.Position[0] = sign * (p.HalfLength - r)
	if b.Velocity[0]*sign > 0 {
		b.Velocity[0] = -b.Velocity[0] * b.cfg.BounceFactor
	}
	b.Velocity[2] += Spread(rng, b.cfg.WallDeflection)
	return HitEndline
}

// containNet keeps a ball behind the goal line inside the net volume.
func (b *Ball) containNet(sign float64) Hit {
	p := b.pitch
	r := b.cfg.Radius
	var hit Hit
	damp := b.cfg.NetDamping

	back := p.HalfLength + p.GoalDepth - r
	if math.Abs(b.Position[0]) > back {
		b.Position[0] = sign * back
		if b.Velocity[0]*sign > 0 {
			b.Velocity[0] = -b.Velocity[0] * damp
		}
		hit = HitNet
	}
	side := p.GoalHalfWidth - r
	if math.Abs(b.Position[2]) > side {
		zs := geom.Sign(b.Position[2])
		b.Position[2] = zs * side
		if b.Velocity[2]*zs > 0 {
			b.Velocity[2] = -b.Velocity[2] * damp
		}
		hit = HitNet
	}
	roof := p.GoalHeight - r
	if b.Position[1] > roof {
		b.Position[1] = roof
		if b.Velocity[1] > 0 {
			b.Velocity[1] = -b.Velocity[1] * damp
		}
		hit = HitNet
	}
	return hit
}
