package posture

//Status tags the outcome of analyzing one frame
type Status int

const (
	StatusSuccess Status = iota
	StatusNoPersonDetected
	StatusCameraMisaligned
	StatusBadVisibility
	StatusDegenerateGeometry
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusNoPersonDetected:
		return "NO_PERSON_DETECTED"
	case StatusCameraMisaligned:
		return "CAMERA_MISALIGNED"
	case StatusBadVisibility:
		return "BAD_VISIBILITY"
	case StatusDegenerateGeometry:
		return "DEGENERATE_GEOMETRY"
	default:
		return "UNKNOWN"
	}
}

//FrameResult is one of Success, NoPersonDetected, CameraMisaligned, BadVisibility or DegenerateGeometry.
//Use a type switch to get the angles out of a Success.
type FrameResult interface {
	Status() Status
	frameResult()
}

//Success carries the posture angles (degrees) of a valid frame
type Success struct {
	NeckAngle  float64
	TorsoAngle float64
}

type NoPersonDetected struct{}

type CameraMisaligned struct{}

type BadVisibility struct{}

//DegenerateGeometry means two joint midpoints coincide so no angle is defined
type DegenerateGeometry struct{}

func (Success) Status() Status            { return StatusSuccess }
func (NoPersonDetected) Status() Status   { return StatusNoPersonDetected }
func (CameraMisaligned) Status() Status   { return StatusCameraMisaligned }
func (BadVisibility) Status() Status      { return StatusBadVisibility }
func (DegenerateGeometry) Status() Status { return StatusDegenerateGeometry }

func (Success) frameResult()            {}
func (NoPersonDetected) frameResult()   {}
func (CameraMisaligned) frameResult()   {}
func (BadVisibility) frameResult()      {}
func (DegenerateGeometry) frameResult() {}
