// Package detection provides face detection using computer vision.
package detection

import "image"

// NumLandmarks is the number of facial landmark points YuNet reports per face:
// right eye, left eye, nose tip, right mouth corner, left mouth corner.
const NumLandmarks = 5

// Point is a landmark location in frame pixel coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Detection represents a single detected face.
type Detection struct {
	// Box is the face bounding box in frame pixel coordinates.
	Box image.Rectangle `json:"box"`

	// Landmarks is the ordered fixed-size landmark sequence, pixel coordinates.
	Landmarks [NumLandmarks]Point `json:"landmarks"`

	// Confidence is the detection score (0-1).
	Confidence float64 `json:"confidence"`
}

// Midpoint returns the midpoint of landmarks i and j.
// Indices outside the landmark range return the zero point.
func (d Detection) Midpoint(i, j int) Point {
	if i < 0 || i >= NumLandmarks || j < 0 || j >= NumLandmarks {
		return Point{}
	}
	return Point{
		X: (d.Landmarks[i].X + d.Landmarks[j].X) / 2,
		Y: (d.Landmarks[i].Y + d.Landmarks[j].Y) / 2,
	}
}

// Detector is the interface for face detection backends
type Detector interface {
	// Detect finds faces in the image and returns their positions
	Detect(jpeg []byte) ([]Detection, error)

	// Close releases resources
	Close() error
}

// Config holds detector configuration
type Config struct {
	ModelPath        string  // Path to ONNX model
	ConfidenceThresh float64 // Minimum confidence (default 0.5)
	InputWidth       int     // Model input width
	InputHeight      int     // Model input height
}

// DefaultConfig returns production defaults for YuNet
func DefaultConfig() Config {
	return Config{
		ModelPath:        "models/face_detection_yunet.onnx",
		ConfidenceThresh: 0.5,
		InputWidth:       320,
		InputHeight:      320,
	}
}

// First returns the first detection, or nil if there are none.
// Single-person scenes only: extra faces are ignored, not ranked.
func First(dets []Detection) *Detection {
	if len(dets) == 0 {
		return nil
	}
	return &dets[0]
}
