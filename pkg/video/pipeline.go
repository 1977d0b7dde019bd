package video

import (
	"fmt"

	"github.com/chenBenjamin97/posture-monitor/pkg/posture"
	"gocv.io/x/gocv"
)

//Pipeline turns an encoded camera frame into a posture.FrameResult
type Pipeline struct {
	detector      Detector
	analyzer      *posture.Analyzer
	standardWidth int
}

func NewPipeline(detector Detector, analyzer *posture.Analyzer, standardWidth int) *Pipeline {
	return &Pipeline{
		detector:      detector,
		analyzer:      analyzer,
		standardWidth: standardWidth,
	}
}

//AnalyzeFrame decodes given image, resizes it to the standard width, runs the detector and classifies the frame.
//It blocks for the whole detection. An error means the frame could not be analyzed at all (ErrBadImage, detector fault),
//every expected per-frame outcome is a FrameResult.
func (p *Pipeline) AnalyzeFrame(data []byte) (posture.FrameResult, error) {
	frame, err := DecodeFrame(data)
	defer frame.Close()
	if err != nil {
		return nil, err
	}

	resized := gocv.NewMat()
	defer resized.Close()
	if err := StandardizeWidth(frame, &resized, p.standardWidth); err != nil {
		return nil, err
	}

	landmarks, err := p.detector.Detect(resized)
	if err != nil {
		return nil, fmt.Errorf("AnalyzeFrame: %w", err)
	}

	return p.analyzer.Analyze(landmarks), nil
}
