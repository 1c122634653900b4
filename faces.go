package carve

import (
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
	"github.com/pkg/errors"
	"github.com/seamly/carve/utils"
)

// faceQualityThreshold filters out low confidence detections.
const faceQualityThreshold = 5.0

// detectFaces runs the pigo classifier over the buffer and returns the
// bounding rectangles of the detected faces. The cascade classifier binary
// is loaded from the provided path.
func detectFaces(buf *PixelBuffer, classifier string, angle float64) ([]image.Rectangle, error) {
	if classifier == "" {
		return nil, errors.New("face detection requires a cascade classifier file")
	}
	cascade, err := os.ReadFile(classifier)
	if err != nil {
		return nil, errors.Wrap(err, "could not read the cascade classifier")
	}

	fd := pigo.NewPigo()
	// Unpack the binary file. This will return the number of cascade trees,
	// the tree depth, the threshold and the prediction from tree's leaf nodes.
	fd, err = fd.Unpack(cascade)
	if err != nil {
		return nil, errors.Wrap(err, "error unpacking the cascade file")
	}

	cParams := pigo.CascadeParams{
		MinSize:     100,
		MaxSize:     utils.Max(buf.Width, buf.Height),
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,

		ImageParams: pigo.ImageParams{
			Pixels: rgbToGrayscale(buf),
			Rows:   buf.Height,
			Cols:   buf.Width,
			Dim:    buf.Width,
		},
	}

	// Run the classifier over the obtained leaf nodes and return the detection results.
	// The result contains quadruplets representing the row, column, scale and detection score.
	faces := fd.RunCascade(cParams, angle)

	// Calculate the intersection over union (IoU) of two clusters.
	faces = fd.ClusterDetections(faces, 0.2)

	var rects []image.Rectangle
	for _, face := range faces {
		if face.Q > faceQualityThreshold {
			rects = append(rects, image.Rect(
				face.Col-face.Scale/2,
				face.Row-face.Scale/2,
				face.Col+face.Scale/2,
				face.Row+face.Scale/2,
			))
		}
	}
	return rects, nil
}

// paintFaceZones raises the protection mask to full weight inside each face
// rectangle, which tricks the seam finder into treating the zone as an
// important image part.
func paintFaceZones(mask *EnergyMap, faces []image.Rectangle) {
	bounds := image.Rect(0, 0, mask.Width, mask.Height)
	for _, face := range faces {
		r := face.Intersect(bounds)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				mask.set(x, y, 1)
			}
		}
	}
}
