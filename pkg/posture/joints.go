package posture

//Landmark names as reported by the pose detector
const (
	LeftEar       = "LEFT_EAR"
	RightEar      = "RIGHT_EAR"
	LeftShoulder  = "LEFT_SHOULDER"
	RightShoulder = "RIGHT_SHOULDER"
	LeftHip       = "LEFT_HIP"
	RightHip      = "RIGHT_HIP"
)

//RequiredLandmarks lists the landmarks the posture angles are computed from
var RequiredLandmarks = []string{LeftEar, RightEar, LeftShoulder, RightShoulder, LeftHip, RightHip}

//Landmark is a single body keypoint reported by a detector. X and Y are normalized to [0,1] by image width/height.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

//Landmarks maps landmark name to its detection. A nil or empty map means no person was detected.
type Landmarks map[string]Landmark

type Joint struct {
	Pos        Point
	Visibility float64
}

//JointSet holds the six joints posture is computed from
type JointSet struct {
	LeftEar       Joint
	RightEar      Joint
	LeftShoulder  Joint
	RightShoulder Joint
	LeftHip       Joint
	RightHip      Joint
}

func jointFromLandmark(lm Landmark) Joint {
	return Joint{Pos: Pt(lm.X, lm.Y), Visibility: lm.Visibility}
}

//ExtractJoints selects the six required landmarks and projects them to 2D.
//ok is false when lms is empty or misses one of the required landmarks.
func ExtractJoints(lms Landmarks) (js JointSet, ok bool) {
	if len(lms) == 0 {
		return JointSet{}, false
	}

	for _, name := range RequiredLandmarks {
		if _, found := lms[name]; !found {
			return JointSet{}, false
		}
	}

	return JointSet{
		LeftEar:       jointFromLandmark(lms[LeftEar]),
		RightEar:      jointFromLandmark(lms[RightEar]),
		LeftShoulder:  jointFromLandmark(lms[LeftShoulder]),
		RightShoulder: jointFromLandmark(lms[RightShoulder]),
		LeftHip:       jointFromLandmark(lms[LeftHip]),
		RightHip:      jointFromLandmark(lms[RightHip]),
	}, true
}

//Mirror swaps left and right joints
func (js JointSet) Mirror() JointSet {
	return JointSet{
		LeftEar:       js.RightEar,
		RightEar:      js.LeftEar,
		LeftShoulder:  js.RightShoulder,
		RightShoulder: js.LeftShoulder,
		LeftHip:       js.RightHip,
		RightHip:      js.LeftHip,
	}
}
