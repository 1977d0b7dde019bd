package video

import (
	"errors"

	"github.com/chenBenjamin97/posture-monitor/pkg/posture"
	"gocv.io/x/gocv"
)

//ErrBadImage is returned when given bytes do not decode to an image
var ErrBadImage = errors.New("could not decode image")

//ErrDetectorClosed is returned by a detector used after Close
var ErrDetectorClosed = errors.New("detector closed")

//Detector finds body landmarks on a frame. It returns nil landmarks when no person is found.
//Implementations hold a loaded model: create them once and reuse them. They are not safe for concurrent use,
//share one between goroutines through a DetectorPool.
type Detector interface {
	Detect(frame gocv.Mat) (posture.Landmarks, error)
	Close() error
}
