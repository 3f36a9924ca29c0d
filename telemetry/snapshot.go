package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/backdrop/systems"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds a particle pool and its surface for later replay.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	Width  float32 `json:"width"`
	Height float32 `json:"height"`
	Dark   bool    `json:"dark"`
	Frame  uint64  `json:"frame"`

	Particles []ParticleState `json:"particles"`
}

// ParticleState is the JSON form of a systems.Particle.
type ParticleState struct {
	X       float32 `json:"x"`
	Y       float32 `json:"y"`
	Radius  float32 `json:"radius"`
	VelX    float32 `json:"vel_x"`
	VelY    float32 `json:"vel_y"`
	Opacity float32 `json:"opacity"`
}

// CaptureField copies the field's pool into a snapshot.
func CaptureField(f *systems.Field, seed int64, dark bool, frame uint64) *Snapshot {
	w, h := f.Bounds()
	snap := &Snapshot{
		Version:   SnapshotVersion,
		RNGSeed:   seed,
		Width:     w,
		Height:    h,
		Dark:      dark,
		Frame:     frame,
		Particles: make([]ParticleState, f.Len()),
	}
	for i := range snap.Particles {
		p := f.At(i)
		snap.Particles[i] = ParticleState{
			X:       p.X,
			Y:       p.Y,
			Radius:  p.Radius,
			VelX:    p.VelX,
			VelY:    p.VelY,
			Opacity: p.Opacity,
		}
	}
	return snap
}

// ToParticles converts the snapshot back to simulator particles.
func (s *Snapshot) ToParticles() []systems.Particle {
	out := make([]systems.Particle, len(s.Particles))
	for i, p := range s.Particles {
		out[i] = systems.Particle{
			X:       p.X,
			Y:       p.Y,
			Radius:  p.Radius,
			VelX:    p.VelX,
			VelY:    p.VelY,
			Opacity: p.Opacity,
		}
	}
	return out
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.json", snapshot.Frame))

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snapshot.Version)
	}
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	return &snapshot, nil
}

// Validate checks that the snapshot holds a drawable, non-empty pool.
func (s *Snapshot) Validate() error {
	if len(s.Particles) == 0 {
		return fmt.Errorf("snapshot has no particles")
	}
	for i, p := range s.ToParticles() {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("particle %d: %w", i, err)
		}
	}
	return nil
}
