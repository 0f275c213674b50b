package tracking

import (
	"image"
	"strings"

	"github.com/TechWebSid/testcam/pkg/detection"
)

// State is the cross-frame tracking memory: the reference point of the most
// recent frame that contained a detected face. It is passed into and returned
// from Step rather than held in a shared cell, so the per-frame logic stays
// pure and directly testable.
type State struct {
	Ref    detection.Point `json:"ref"`
	HasRef bool            `json:"has_ref"`
}

// Segment is a line from the previous reference point to the current one.
type Segment struct {
	From detection.Point `json:"from"`
	To   detection.Point `json:"to"`
}

// Overlay describes what the renderer should draw for one frame: the face
// bounding box, a marker at every landmark point, and the displacement
// vector when a previous reference point exists.
type Overlay struct {
	Box       image.Rectangle   `json:"box"`
	Landmarks []detection.Point `json:"landmarks"`
	Motion    *Segment          `json:"motion,omitempty"`
}

// Empty reports whether there is nothing to draw.
func (o Overlay) Empty() bool {
	return len(o.Landmarks) == 0 && o.Box.Empty() && o.Motion == nil
}

// Result is the outcome of processing one frame's detections.
type Result struct {
	// State is the tracking memory to carry into the next frame.
	State State

	// Warning is the current user-facing message, empty when no condition
	// is active.
	Warning string

	// Overlay holds the drawing instructions for this frame.
	Overlay Overlay

	// FaceFound reports whether the frame contained at least one face.
	FaceFound bool
}

// Displacement returns the signed pixel delta from prev to cur.
func Displacement(prev, cur detection.Point) (dx, dy float64) {
	return cur.X - prev.X, cur.Y - prev.Y
}

// Step processes one frame's detections against the previous tracking state.
//
// Zero faces clears the reference point and warns that no face is visible,
// so the next detected face establishes a fresh baseline instead of being
// compared against a stale position. The first frame with a face only
// establishes the baseline. After that, each frame's reference point is
// compared against the previous one and a directional warning is raised when
// either axis moves by more than the threshold.
func Step(cfg Config, prev State, dets []detection.Detection) Result {
	face := detection.First(dets)
	if face == nil {
		return Result{
			State:   State{},
			Warning: NoFaceWarning,
		}
	}

	cur := face.Midpoint(cfg.LeftEyeIndex, cfg.RightEyeIndex)

	overlay := Overlay{
		Box:       face.Box,
		Landmarks: face.Landmarks[:],
	}

	var warning string
	if prev.HasRef {
		overlay.Motion = &Segment{From: prev.Ref, To: cur}
		dx, dy := Displacement(prev.Ref, cur)
		warning = movementWarning(cfg, dx, dy)
	}

	return Result{
		State:     State{Ref: cur, HasRef: true},
		Warning:   warning,
		Overlay:   overlay,
		FaceFound: true,
	}
}

// movementWarning builds the directional warning for a displacement, or
// returns "" when both axes are within the threshold.
func movementWarning(cfg Config, dx, dy float64) string {
	var directions []string

	if dx > cfg.MoveThreshold {
		directions = append(directions, "right")
	} else if dx < -cfg.MoveThreshold {
		directions = append(directions, "left")
	}

	// Image y grows downward
	if dy > cfg.MoveThreshold {
		directions = append(directions, "down")
	} else if dy < -cfg.MoveThreshold {
		directions = append(directions, "up")
	}

	if len(directions) == 0 {
		return ""
	}

	return cfg.WarningPrefix + strings.Join(directions, " and ")
}
