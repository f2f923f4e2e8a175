package turn

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/rbright/monkeyai/internal/fsm"
)

// Fingerprint identifies raw voice input by content, never by arrival time.
type Fingerprint struct {
	Size int
	Sum  [sha256.Size]byte
}

// FingerprintOf derives the fingerprint of audio.
func FingerprintOf(audio []byte) Fingerprint {
	return Fingerprint{Size: len(audio), Sum: sha256.Sum256(audio)}
}

// IsZero reports whether no voice input has been consumed yet.
func (f Fingerprint) IsZero() bool {
	return f == Fingerprint{}
}

func (f Fingerprint) String() string {
	if f.IsZero() {
		return "none"
	}
	return fmt.Sprintf("%d:%s", f.Size, hex.EncodeToString(f.Sum[:6]))
}

// State is the turn state that survives between Submit calls.
//
// The zero value is ready to use and starts Idle. Only the Controller
// mutates it; the presentation side reads it through Phase and Snapshot.
type State struct {
	mu              sync.RWMutex
	phase           fsm.Phase
	lastFingerprint Fingerprint
	pendingAudio    []byte
}

// NewState returns an Idle state with no consumed input.
func NewState() *State {
	return &State{phase: fsm.PhaseIdle}
}

// Snapshot is a read-only copy of State for display.
type Snapshot struct {
	Phase           fsm.Phase
	LastFingerprint Fingerprint
	HasPendingAudio bool
}

// Phase returns the current phase.
func (s *State) Phase() fsm.Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentPhase()
}

// Snapshot returns a consistent copy of the observable state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Phase:           s.currentPhase(),
		LastFingerprint: s.lastFingerprint,
		HasPendingAudio: len(s.pendingAudio) > 0,
	}
}

// TakePendingAudio hands over the pending reply audio exactly once.
func (s *State) TakePendingAudio() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	audio := s.pendingAudio
	s.pendingAudio = nil
	return audio
}

// currentPhase expects s.mu to be held.
func (s *State) currentPhase() fsm.Phase {
	if s.phase == "" {
		return fsm.PhaseIdle
	}
	return s.phase
}

func (s *State) transition(event fsm.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fsm.Transition(s.currentPhase(), event)
	if err != nil {
		return err
	}
	s.phase = next
	return nil
}

// resetStale forces a state left in Processing back to Idle and reports
// whether it had to.
func (s *State) resetStale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentPhase() != fsm.PhaseProcessing {
		return false
	}
	s.phase = fsm.PhaseIdle
	return true
}

func (s *State) consumed(fp Fingerprint) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.lastFingerprint.IsZero() && s.lastFingerprint == fp
}

func (s *State) recordFingerprint(fp Fingerprint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFingerprint = fp
}

func (s *State) setPendingAudio(audio []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingAudio = audio
}
