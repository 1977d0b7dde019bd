package video

import (
	"image"

	"gocv.io/x/gocv"
)

//DecodeFrame decodes an encoded image (JPEG, PNG...) into a BGR frame. The caller must close the returned Mat.
func DecodeFrame(data []byte) (gocv.Mat, error) {
	if len(data) == 0 {
		return gocv.NewMat(), ErrBadImage
	}

	frame, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return gocv.NewMat(), ErrBadImage
	}
	if frame.Empty() {
		frame.Close()
		return gocv.NewMat(), ErrBadImage
	}

	return frame, nil
}

//StandardizeWidth resizes frame into dst so its width is given width, keeping the aspect ratio.
//Detector confidence (and so the visibility thresholds) depends on the input resolution.
//It returns ErrBadImage when the resized frame would be empty (a very wide and short image for example).
func StandardizeWidth(frame gocv.Mat, dst *gocv.Mat, width int) error {
	if width <= 0 || frame.Cols() == 0 {
		return ErrBadImage
	}

	resizeRatio := float64(width) / float64(frame.Cols())
	newHeight := int(float64(frame.Rows()) * resizeRatio)
	if newHeight < 1 {
		return ErrBadImage
	}

	interp := gocv.InterpolationLinear
	if width < frame.Cols() {
		interp = gocv.InterpolationArea
	}

	gocv.Resize(frame, dst, image.Pt(width, newHeight), 0, 0, interp)
	return nil
}
