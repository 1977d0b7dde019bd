package posture

import (
	"math"

	"github.com/chenBenjamin97/posture-monitor/pkg/utils"
)

//upward is added to the hip midpoint to get a point on the vertical line through it
var upward = Pt(0, 1)

//Thresholds holds the tunable constants of the frame gates and of the neck angle correction
type Thresholds struct {
	EarOffset      float64
	ShoulderOffset float64
	HipOffset      float64

	EarVisibility      float64
	ShoulderVisibility float64
	HipVisibility      float64

	NeckAngleOffset float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		EarOffset:          utils.MaxEarOffset,
		ShoulderOffset:     utils.MaxShoulderOffset,
		HipOffset:          utils.MaxHipOffset,
		EarVisibility:      utils.MinEarVisibility,
		ShoulderVisibility: utils.MinShoulderVisibility,
		HipVisibility:      utils.MinHipVisibility,
		NeckAngleOffset:    utils.NeckAngleOffset,
	}
}

//Analyzer classifies frames and computes posture angles. The zero value is not usable, use NewAnalyzer.
type Analyzer struct {
	th Thresholds
}

func NewAnalyzer(th Thresholds) *Analyzer {
	return &Analyzer{th: th}
}

//IsAligned returns true if the camera films the person from the side: both ears, both shoulders and both hips
//nearly overlap on the image
func (a *Analyzer) IsAligned(js JointSet) bool {
	earOffset := Dist(js.LeftEar.Pos, js.RightEar.Pos)
	shoulderOffset := Dist(js.LeftShoulder.Pos, js.RightShoulder.Pos)
	hipOffset := Dist(js.LeftHip.Pos, js.RightHip.Pos)

	return earOffset < a.th.EarOffset && shoulderOffset < a.th.ShoulderOffset && hipOffset < a.th.HipOffset
}

//IsVisible returns true if the detector is confident enough about every joint pair
func (a *Analyzer) IsVisible(js JointSet) bool {
	return js.LeftEar.Visibility+js.RightEar.Visibility > a.th.EarVisibility &&
		js.LeftShoulder.Visibility+js.RightShoulder.Visibility > a.th.ShoulderVisibility &&
		js.LeftHip.Visibility+js.RightHip.Visibility > a.th.HipVisibility
}

//PostureAngles returns neck and torso angles (degrees) computed from the joint pairs midpoints.
//The neck angle is the absolute deviation of the ear-shoulder-hip angle from the neck offset,
//so a neck bent slightly backwards is not rewarded over a straight one.
func (a *Analyzer) PostureAngles(js JointSet) (neck, torso float64, err error) {
	ear := Midpoint(js.LeftEar.Pos, js.RightEar.Pos)
	shoulder := Midpoint(js.LeftShoulder.Pos, js.RightShoulder.Pos)
	hip := Midpoint(js.LeftHip.Pos, js.RightHip.Pos)

	raw, err := AngleAt(ear, shoulder, hip)
	if err != nil {
		return 0, 0, err
	}
	neck = math.Abs(raw - a.th.NeckAngleOffset)

	torso, err = AngleAt(shoulder, hip, hip.Add(upward))
	if err != nil {
		return 0, 0, err
	}

	return neck, torso, nil
}

//Analyze runs the frame gates in order (person detected, camera aligned, joints visible) and computes the
//posture angles of a frame that passed all of them
func (a *Analyzer) Analyze(lms Landmarks) FrameResult {
	js, ok := ExtractJoints(lms)
	if !ok {
		return NoPersonDetected{}
	}

	if !a.IsAligned(js) {
		return CameraMisaligned{}
	}

	if !a.IsVisible(js) {
		return BadVisibility{}
	}

	neck, torso, err := a.PostureAngles(js)
	if err != nil {
		return DegenerateGeometry{}
	}

	return Success{NeckAngle: neck, TorsoAngle: torso}
}
