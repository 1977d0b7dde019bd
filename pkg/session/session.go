package session

import (
	"errors"
	"sync"

	"github.com/chenBenjamin97/posture-monitor/pkg/utils"
)

//ErrInvalidAngle is returned by Record when an angle is NaN or infinite
var ErrInvalidAngle = errors.New("invalid angle")

//Session accumulates the posture angles of successfully analyzed frames.
//times, neckAngles and torsoAngles always have the same length.
//The zero value is ready to use.
type Session struct {
	mu          sync.Mutex
	times       []int64
	neckAngles  []float64
	torsoAngles []float64
}

func New() *Session {
	return &Session{}
}

//Reset drops every recorded frame. It waits for an in-flight Record to finish.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.times = nil
	s.neckAngles = nil
	s.torsoAngles = nil
}

//Record appends one frame. Times are stored as given, duplicates and out of order values included.
func (s *Session) Record(time int64, neckAngle, torsoAngle float64) error {
	if !utils.IsFinite(neckAngle) || !utils.IsFinite(torsoAngle) {
		return ErrInvalidAngle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.times = append(s.times, time)
	s.neckAngles = append(s.neckAngles, neckAngle)
	s.torsoAngles = append(s.torsoAngles, torsoAngle)
	return nil
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.times)
}

//Snapshot is a consistent copy of a session with its summary statistics
type Snapshot struct {
	Times       []int64
	NeckAngles  []float64
	TorsoAngles []float64

	//GoodPostureRate is meaningful only if HasRate is true
	GoodPostureRate float64
	HasRate         bool
	Aura            int
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		Times:       append(make([]int64, 0, len(s.times)), s.times...),
		NeckAngles:  append(make([]float64, 0, len(s.neckAngles)), s.neckAngles...),
		TorsoAngles: append(make([]float64, 0, len(s.torsoAngles)), s.torsoAngles...),
	}
	s.mu.Unlock()

	snap.GoodPostureRate, snap.HasRate = GoodPostureRate(snap.NeckAngles, snap.TorsoAngles)
	snap.Aura = Aura(snap.NeckAngles, snap.TorsoAngles)
	return snap
}
