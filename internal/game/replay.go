package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Replay records the sequence of combat snapshots taken after every
// committed mutation, so a finished combat can be stepped through and
// seeded combats can be verified deterministic.
type Replay struct {
	CombatID string

	mu        sync.RWMutex
	snapshots []CombatView
	index     int
}

// NewReplay creates an empty replay buffer for a combat.
func NewReplay(combatID string) *Replay {
	return &Replay{CombatID: combatID}
}

// Record appends a snapshot.
func (r *Replay) Record(v CombatView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, v)
}

// Size returns the number of recorded snapshots.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.snapshots)
}

// Start rewinds playback to the beginning.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.index = 0
}

// Next returns the next snapshot, or nil past the end.
func (r *Replay) Next() *CombatView {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.index >= len(r.snapshots) {
		return nil
	}
	v := r.snapshots[r.index]
	r.index++
	return &v
}

// Previous steps playback back one snapshot, or nil at the start.
func (r *Replay) Previous() *CombatView {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.index == 0 {
		return nil
	}
	r.index--
	v := r.snapshots[r.index]
	return &v
}

// At returns the snapshot at index, or nil out of range.
func (r *Replay) At(index int) *CombatView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= len(r.snapshots) {
		return nil
	}
	v := r.snapshots[index]
	return &v
}

// Last returns the most recent snapshot, or nil when empty.
func (r *Replay) Last() *CombatView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.snapshots) == 0 {
		return nil
	}
	v := r.snapshots[len(r.snapshots)-1]
	return &v
}

type replayMetadata struct {
	CombatID  string
	Timestamp time.Time
	Version   int
	Count     int
}

// SaveToFile writes the replay to <dir>/<combat-id>.replay as gzipped
// gob.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("create replay directory: %w", err)
	}
	file, err := os.Create(filepath.Join(directory, r.CombatID+".replay"))
	if err != nil {
		return fmt.Errorf("create replay file: %w", err)
	}
	defer file.Close()

	zw := gzip.NewWriter(file)
	defer zw.Close()

	enc := gob.NewEncoder(zw)
	meta := replayMetadata{
		CombatID:  r.CombatID,
		Timestamp: time.Now(),
		Version:   1,
		Count:     len(r.snapshots),
	}
	if err := enc.Encode(&meta); err != nil {
		return fmt.Errorf("encode replay metadata: %w", err)
	}
	for i, snap := range r.snapshots {
		if err := enc.Encode(&snap); err != nil {
			return fmt.Errorf("encode snapshot %d: %w", i, err)
		}
	}
	return nil
}

// LoadReplayFromFile reads a replay previously written by SaveToFile.
func LoadReplayFromFile(directory, combatID string) (*Replay, error) {
	file, err := os.Open(filepath.Join(directory, combatID+".replay"))
	if err != nil {
		return nil, fmt.Errorf("open replay file: %w", err)
	}
	defer file.Close()

	zr, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer zr.Close()

	dec := gob.NewDecoder(zr)
	var meta replayMetadata
	if err := dec.Decode(&meta); err != nil {
		return nil, fmt.Errorf("decode replay metadata: %w", err)
	}
	if meta.Version != 1 {
		return nil, fmt.Errorf("unsupported replay version %d", meta.Version)
	}

	r := NewReplay(meta.CombatID)
	for i := 0; i < meta.Count; i++ {
		var snap CombatView
		if err := dec.Decode(&snap); err != nil {
			return nil, fmt.Errorf("decode snapshot %d: %w", i, err)
		}
		r.snapshots = append(r.snapshots, snap)
	}
	return r, nil
}
