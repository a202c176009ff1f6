package effect

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/gesture"
)

// Builtin effect names.
const (
	StarHeart = "star_heart"
	Ripple    = "ripple"
	Sparkle   = "sparkle"
	Trail     = "trail"
	Burst     = "burst"
)

// DefaultMaxParticles caps the renderer unless configured otherwise.
const DefaultMaxParticles = 500

type activeEffect struct {
	name      string
	config    Config
	start     time.Time
	center    gesture.Position
	particles []*particle
}

// Renderer owns the particle pool and draws active effects over frames.
// All methods are safe to call from the process worker; Trigger may also be
// called from other goroutines (manual triggers).
type Renderer struct {
	mu           sync.Mutex
	maxParticles int
	pool         *particlePool
	active       []*activeEffect
	configs      map[string]Config

	now func() time.Time
}

// NewRenderer creates a renderer with default configs for the builtin
// effects. maxParticles <= 0 selects DefaultMaxParticles.
func NewRenderer(maxParticles int) *Renderer {
	if maxParticles <= 0 {
		maxParticles = DefaultMaxParticles
	}
	configs := make(map[string]Config)
	for _, name := range []string{StarHeart, Ripple, Sparkle, Trail, Burst} {
		configs[name] = DefaultConfig()
	}
	return &Renderer{
		maxParticles: maxParticles,
		pool:         newParticlePool(maxParticles),
		configs:      configs,
		now:          time.Now,
	}
}

// LoadConfig installs or replaces the configuration for one effect.
func (r *Renderer) LoadConfig(name string, cfg Config) {
	cfg.Normalize()
	r.mu.Lock()
	r.configs[name] = cfg
	r.mu.Unlock()
}

// Trigger spawns the named effect centered at a normalized position.
// Unknown names are an error; a disabled effect or a full particle pool is
// a silent no-op.
func (r *Renderer) Trigger(name string, pos gesture.Position) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg, ok := r.configs[name]
	if !ok {
		return fmt.Errorf("unknown effect %q", name)
	}
	if !cfg.Enabled {
		return nil
	}
	if r.pool.active >= r.maxParticles {
		log.Printf("particle limit reached, skipping effect %q", name)
		return nil
	}

	count := cfg.ParticleCount
	if room := r.maxParticles - r.pool.active; count > room {
		count = room
	}

	eff := &activeEffect{
		name:   name,
		config: cfg,
		start:  r.now(),
		center: pos,
	}
	for i := 0; i < count; i++ {
		p := r.pool.acquire(pos.X, pos.Y)
		switch name {
		case StarHeart:
			initStarHeart(p, cfg, pos, i, count)
		case Ripple:
			initRipple(p, cfg, pos, i, count)
		case Sparkle:
			initSparkle(p, cfg, pos)
		default:
			initScatter(p, cfg, pos)
		}
		eff.particles = append(eff.particles, p)
	}
	r.active = append(r.active, eff)
	return nil
}

// Update ages all particles by dt seconds and retires effects whose
// duration has elapsed.
func (r *Renderer) Update(dt float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	kept := r.active[:0]
	for _, eff := range r.active {
		for _, p := range eff.particles {
			p.update(dt)
		}
		duration := time.Duration(eff.config.DurationMS) * time.Millisecond
		if now.Sub(eff.start) > duration {
			for _, p := range eff.particles {
				r.pool.release(p)
			}
			continue
		}
		kept = append(kept, eff)
	}
	r.active = kept
}

// Render draws all live particles onto the frame in place.
func (r *Renderer) Render(frame *gocv.Mat) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if frame == nil || frame.Empty() || len(r.active) == 0 {
		return
	}
	w, h := frame.Cols(), frame.Rows()

	for _, eff := range r.active {
		for _, p := range eff.particles {
			if !p.alive {
				continue
			}
			px, py := int(p.x*float64(w)), int(p.y*float64(h))
			if px < 5 || px >= w-5 || py < 5 || py >= h-5 {
				continue
			}

			alpha := p.alpha
			size := int(p.size * alpha)
			if size < 1 {
				size = 1
			}
			c := color.RGBA{
				R: uint8(float64(p.color[0]) * alpha),
				G: uint8(float64(p.color[1]) * alpha),
				B: uint8(float64(p.color[2]) * alpha),
			}
			if size >= 3 {
				drawStar(frame, image.Pt(px, py), size, c, p.rotation)
			} else {
				gocv.Circle(frame, image.Pt(px, py), size, c, -1)
			}
		}
	}
}

// ActiveParticleCount reports how many particles are currently alive.
func (r *Renderer) ActiveParticleCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pool.active
}

// ClearAll retires every active effect immediately.
func (r *Renderer) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, eff := range r.active {
		for _, p := range eff.particles {
			r.pool.release(p)
		}
	}
	r.active = nil
}

// drawStar fills a 4- or 5-pointed star centered at pt.
func drawStar(frame *gocv.Mat, pt image.Point, size int, c color.RGBA, rotation float64) {
	points := 4
	if size >= 5 {
		points = 5
	}
	verts := make([]image.Point, 0, points*2)
	for i := 0; i < points*2; i++ {
		angle := rotation*math.Pi/180 + float64(i)*math.Pi/float64(points) - math.Pi/2
		radius := float64(size)
		if i%2 == 1 {
			radius *= 0.4
		}
		verts = append(verts, image.Pt(
			pt.X+int(radius*math.Cos(angle)),
			pt.Y+int(radius*math.Sin(angle)),
		))
	}
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{verts})
	defer pv.Close()
	gocv.FillPoly(frame, pv, c)
}

// initStarHeart lays particles out in a four-layer heart: a dense outline,
// interior fill, an expanding outer ring, and background twinkle stars.
func initStarHeart(p *particle, cfg Config, center gesture.Position, index, total int) {
	layer := index % 4
	quarter := float64(total) / 4
	if quarter < 1 {
		quarter = 1
	}

	switch layer {
	case 0:
		t := 2 * math.Pi * float64(index) / quarter
		x, y := heartPoint(t, cfg.Scale/800, center.X, center.Y)
		offset := randRange(-0.008, 0.008)
		p.x, p.y = x+offset, y+offset
		p.size = randRange(3, 6)
		angle := math.Atan2(y-center.Y, x-center.X)
		speed := randRange(0.002, 0.008)
		p.vx, p.vy = math.Cos(angle)*speed, math.Sin(angle)*speed
	case 1:
		t := randRange(0, 2*math.Pi)
		scale := cfg.Scale / 800 * randRange(0.3, 0.9)
		x, y := heartPoint(t, scale, center.X, center.Y)
		p.x = x + randRange(-0.015, 0.015)
		p.y = y + randRange(-0.015, 0.015)
		p.size = randRange(2, 4)
		p.vx = randRange(-0.003, 0.003)
		p.vy = randRange(-0.005, 0.001)
	case 2:
		t := 2 * math.Pi * float64(index) / quarter
		x, y := heartPoint(t, cfg.Scale/600, center.X, center.Y)
		p.x, p.y = x, y
		p.size = randRange(4, 8)
		angle := math.Atan2(y-center.Y, x-center.X)
		speed := randRange(0.01, 0.025)
		p.vx = math.Cos(angle)*speed + randRange(-0.005, 0.005)
		p.vy = math.Sin(angle)*speed + randRange(-0.005, 0.005)
		p.glow = true
	default:
		angle := randRange(0, 2*math.Pi)
		dist := randRange(0.05, 0.18)
		p.x = center.X + math.Cos(angle)*dist
		p.y = center.Y + math.Sin(angle)*dist
		p.size = randRange(1, 3)
		p.vx = randRange(-0.002, 0.002)
		p.vy = randRange(-0.004, 0.001)
		p.twinkle = true
	}

	if layer <= 1 {
		bright := []Color{
			{255, 182, 193},
			{255, 192, 203},
			{255, 255, 255},
			{255, 218, 233},
		}
		p.color = pickColor(bright, bright[0])
		p.lifetime = float64(cfg.DurationMS) / 1000 * randRange(0.8, 1.0)
	} else {
		p.color = pickColor(cfg.Colors, Color{255, 105, 180})
		p.lifetime = float64(cfg.DurationMS) / 1000 * randRange(0.5, 0.9)
	}
	p.rotation = randRange(0, 360)
	p.rotSpeed = randRange(-90, 90)
	if cfg.GlowEnabled && layer == 2 {
		p.glow = true
	}
	if cfg.TwinkleEnabled || p.twinkle {
		p.twinkle = true
		p.twinkleSpeed = cfg.TwinkleSpeed
		if layer == 3 {
			p.twinkleSpeed = randRange(3, 8) / 20
		}
	}
}

// initRipple spreads particles on a small circle expanding outward.
func initRipple(p *particle, cfg Config, center gesture.Position, index, total int) {
	angle := 2 * math.Pi * float64(index) / float64(total)
	radius := randRange(0.01, 0.05)
	p.x = center.X + math.Cos(angle)*radius
	p.y = center.Y + math.Sin(angle)*radius
	p.vx = math.Cos(angle) * 0.05
	p.vy = math.Sin(angle) * 0.05
	p.size = 2
	p.color = pickColor(cfg.Colors, Color{100, 149, 237})
	p.lifetime = float64(cfg.DurationMS) / 1000
}

// initSparkle bursts particles from the center under light gravity.
func initSparkle(p *particle, cfg Config, center gesture.Position) {
	angle := randRange(0, 2*math.Pi)
	speed := randRange(0.05, 0.15)
	p.x, p.y = center.X, center.Y
	p.vx = math.Cos(angle) * speed
	p.vy = math.Sin(angle) * speed
	p.ay = 0.01
	p.size = randRange(2, 5)
	p.color = pickColor(cfg.Colors, Color{255, 255, 0})
	p.lifetime = float64(cfg.DurationMS) / 1000 * randRange(0.5, 1.0)
}

// initScatter is the fallback layout for trail and burst effects.
func initScatter(p *particle, cfg Config, center gesture.Position) {
	p.x = center.X + randRange(-0.1, 0.1)
	p.y = center.Y + randRange(-0.1, 0.1)
	p.vx = randRange(-0.02, 0.02)
	p.vy = randRange(-0.02, 0.02)
	p.size = randRange(3, 6)
	p.color = pickColor(cfg.Colors, Color{255, 255, 255})
	p.lifetime = float64(cfg.DurationMS) / 1000
}
