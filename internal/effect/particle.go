package effect

import (
	"math"
	"math/rand"
)

// Color is an RGB triple as loaded from configuration.
type Color [3]uint8

// particle is one animated point in normalized screen space.
type particle struct {
	x, y     float64
	vx, vy   float64
	ax, ay   float64
	size     float64
	color    Color
	alpha    float64
	rotation float64
	rotSpeed float64
	lifetime float64
	age      float64
	alive    bool

	glow         bool
	twinkle      bool
	twinkleSpeed float64
}

// update advances the particle by dt seconds and fades it toward death.
func (p *particle) update(dt float64) {
	if !p.alive {
		return
	}
	p.vx += p.ax * dt
	p.vy += p.ay * dt
	p.x += p.vx * dt
	p.y += p.vy * dt
	p.rotation += p.rotSpeed * dt
	p.age += dt

	if p.age >= p.lifetime {
		p.alive = false
		return
	}
	p.alpha = 1 - p.age/p.lifetime
	if p.twinkle {
		p.alpha *= 0.7 + 0.3*math.Sin(p.age*p.twinkleSpeed*20)
	}
}

func (p *particle) reset(x, y float64) {
	*p = particle{x: x, y: y, size: 5, alpha: 1, lifetime: 1, alive: true}
}

// particlePool recycles particles so steady-state triggering does not
// allocate.
type particlePool struct {
	free   []*particle
	active int
}

func newParticlePool(size int) *particlePool {
	pool := &particlePool{free: make([]*particle, 0, size)}
	for i := 0; i < size; i++ {
		pool.free = append(pool.free, &particle{})
	}
	return pool
}

func (pp *particlePool) acquire(x, y float64) *particle {
	var p *particle
	if n := len(pp.free); n > 0 {
		p = pp.free[n-1]
		pp.free = pp.free[:n-1]
	} else {
		p = &particle{}
	}
	p.reset(x, y)
	pp.active++
	return p
}

func (pp *particlePool) release(p *particle) {
	p.alive = false
	pp.free = append(pp.free, p)
	pp.active--
}

// heartPoint evaluates the classic parametric heart curve at t, scaled and
// translated into normalized coordinates. The y axis is flipped so the
// heart points down-screen the right way up.
func heartPoint(t, scale, cx, cy float64) (float64, float64) {
	sin := math.Sin(t)
	x := 16 * sin * sin * sin
	y := 13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t)
	return x*scale/16 + cx, -y*scale/16 + cy
}

func randRange(lo, hi float64) float64 {
	return lo + rand.Float64()*(hi-lo)
}

func pickColor(colors []Color, fallback Color) Color {
	if len(colors) == 0 {
		return fallback
	}
	return colors[rand.Intn(len(colors))]
}
