package models

import "strconv"

// Point is a position in pixel space
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is an axis-aligned bounding box in pixel space
type Box struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Center returns the midpoint of the box
func (b Box) Center() Point {
	return Point{
		X: (b.X1 + b.X2) / 2.0,
		Y: (b.Y1 + b.Y2) / 2.0,
	}
}

// Detection represents a single object found by a detector in one image or frame
type Detection struct {
	ClassID    int     `json:"class_id"`
	ClassName  string  `json:"class_name,omitempty"`
	Confidence float64 `json:"confidence"`
	Box        Box     `json:"box"`
}

// Center returns the detection center (pixel space)
func (d Detection) Center() Point {
	return d.Box.Center()
}

// DetectionSet is the output of one inference call on one image or frame
type DetectionSet []Detection

// ClassNameMap maps a detector's class ids to class names
type ClassNameMap map[int]string

// Name returns the class name for id. Unknown ids resolve to the id itself,
// so a lookup never fails.
func (m ClassNameMap) Name(id int) string {
	if name, ok := m[id]; ok {
		return name
	}
	return strconv.Itoa(id)
}

// Frame holds both detectors' outputs for one image or video frame
type Frame struct {
	Source string       `json:"source,omitempty"`
	Number int          `json:"frame_number"`
	Fire   DetectionSet `json:"fire"`
	PPE    DetectionSet `json:"ppe"`
}
