package video

import (
	"sync"

	"github.com/chenBenjamin97/posture-monitor/pkg/posture"
	"gocv.io/x/gocv"
)

//DetectorPool shares detectors between goroutines, each detector runs one frame at a time.
//A pool of a single detector serializes every detection.
type DetectorPool struct {
	detectors []Detector
	free      chan Detector
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

func NewDetectorPool(detectors ...Detector) *DetectorPool {
	p := &DetectorPool{
		detectors: detectors,
		free:      make(chan Detector, len(detectors)),
		done:      make(chan struct{}),
	}

	for _, d := range detectors {
		p.free <- d
	}

	return p
}

func (p *DetectorPool) Size() int {
	return len(p.detectors)
}

//Detect waits for a free detector and runs it on given frame
func (p *DetectorPool) Detect(frame gocv.Mat) (posture.Landmarks, error) {
	select {
	case <-p.done:
		return nil, ErrDetectorClosed
	case d := <-p.free:
		defer func() { p.free <- d }()
		return d.Detect(frame)
	}
}

//Close waits for in-flight detections and closes every detector. It returns the first error met.
func (p *DetectorPool) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
		for range p.detectors {
			d := <-p.free
			if err := d.Close(); err != nil && p.closeErr == nil {
				p.closeErr = err
			}
		}
	})

	return p.closeErr
}
