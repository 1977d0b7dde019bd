package video

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/chenBenjamin97/posture-monitor/pkg/posture"
	"gocv.io/x/gocv"
)

//openPoseParts maps the COCO body parts of an OpenPose heatmap blob to landmark names
var openPoseParts = map[int]string{
	2:  posture.RightShoulder,
	5:  posture.LeftShoulder,
	8:  posture.RightHip,
	11: posture.LeftHip,
	16: posture.RightEar,
	17: posture.LeftEar,
}

//NetConfig configures a NetDetector
type NetConfig struct {
	Model         string //model weights ('.pb', '.caffemodel', '.onnx'...)
	Config        string //optional network description ('.prototxt', '.pbtxt')
	InputWidth    int
	InputHeight   int
	Scale         float64
	SwapRB        bool    //OpenCV decodes BGR, set it for models trained on RGB input
	MinConfidence float64 //if no required part reaches it, no person is reported
}

func DefaultNetConfig() NetConfig {
	return NetConfig{
		InputWidth:    368,
		InputHeight:   368,
		Scale:         1.0 / 255,
		MinConfidence: 0.1,
	}
}

//NetDetector runs an OpenPose COCO body network through OpenCV's DNN module
type NetDetector struct {
	net gocv.Net
	cfg NetConfig
}

//NewNetDetector loads the network once. Loading is slow, keep the detector for the whole process lifetime.
func NewNetDetector(cfg NetConfig) (*NetDetector, error) {
	net := gocv.ReadNet(cfg.Model, cfg.Config)
	if net.Empty() {
		return nil, fmt.Errorf("NewNetDetector: Could not load model '%s'", cfg.Model)
	}

	return &NetDetector{net: net, cfg: cfg}, nil
}

//Detect takes the most likely location of each wanted part from its heatmap.
//The heatmap peak value is reported as the part visibility.
func (d *NetDetector) Detect(frame gocv.Mat) (posture.Landmarks, error) {
	if frame.Empty() {
		return nil, errors.New("NetDetector: Empty frame")
	}

	blob := gocv.BlobFromImage(frame, d.cfg.Scale, image.Pt(d.cfg.InputWidth, d.cfg.InputHeight), gocv.NewScalar(0, 0, 0, 0), d.cfg.SwapRB, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	prob := d.net.Forward("")
	defer prob.Close()

	s := prob.Size()
	if len(s) != 4 {
		return nil, fmt.Errorf("NetDetector: Unexpected output shape %v", s)
	}
	nparts, h, w := s[1], s[2], s[3]

	landmarks := make(posture.Landmarks, len(openPoseParts))
	found := false
	for part, name := range openPoseParts {
		if part >= nparts {
			return nil, fmt.Errorf("NetDetector: Model outputs %d parts, part %d is missing", nparts, part)
		}

		heatmap, err := prob.FromPtr(h, w, gocv.MatTypeCV32F, 0, part)
		if err != nil {
			return nil, fmt.Errorf("NetDetector: Could not read heatmap %d, got '%v'", part, err)
		}
		_, conf, _, pt := gocv.MinMaxLoc(heatmap)
		heatmap.Close()

		visibility := math.Max(0, math.Min(1, float64(conf)))
		if visibility >= d.cfg.MinConfidence {
			found = true
		}

		landmarks[name] = posture.Landmark{
			X:          (float64(pt.X) + 0.5) / float64(w),
			Y:          (float64(pt.Y) + 0.5) / float64(h),
			Visibility: visibility,
		}
	}

	if !found {
		return nil, nil
	}

	return landmarks, nil
}

func (d *NetDetector) Close() error {
	return d.net.Close()
}
