package provider

import "context"

// FaceDetector define a interface para detectores de faces. Given one
// video frame, a detector returns every face it found together with the
// raw (unnormalized) embedding vector for each.
type FaceDetector interface {
	// DetectFaces detects faces in the frame. A frame with zero faces
	// returns an empty slice, never an error.
	DetectFaces(ctx context.Context, frame []byte) ([]DetectedFace, error)
}

// DetectedFace represents one detected face in a frame. It is ephemeral:
// consumed by the decision engine and discarded with the frame.
type DetectedFace struct {
	BoundingBox BoundingBox `json:"bounding_box"`
	Embedding   []float64   `json:"-"`
	Confidence  float64     `json:"confidence"`
}

// BoundingBox is the face area in pixel coordinates, (X1,Y1) top-left
// and (X2,Y2) bottom-right.
type BoundingBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Width returns the box width in pixels.
func (b BoundingBox) Width() int { return b.X2 - b.X1 }

// Height returns the box height in pixels.
func (b BoundingBox) Height() int { return b.Y2 - b.Y1 }
