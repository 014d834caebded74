package geometry

import "testing"

func TestRoadRectangleHorizontal(t *testing.T) {
	r := Road{Orientation: Horizontal, Start: Point{X: 0, Y: 0}, End: 10}
	rect := r.Rectangle()

	if rect.MinX != -RoadHalfWidth || rect.MaxX != 10+RoadHalfWidth {
		t.Fatalf("unexpected x bounds: %+v", rect)
	}
	if rect.MinY != -RoadHalfWidth || rect.MaxY != RoadHalfWidth {
		t.Fatalf("unexpected y bounds: %+v", rect)
	}
}

func TestRoadRectangleVerticalReversed(t *testing.T) {
	// Start y greater than End: the rectangle must still normalize bounds.
	r := Road{Orientation: Vertical, Start: Point{X: 5, Y: 10}, End: 0}
	rect := r.Rectangle()

	if rect.MinY != -RoadHalfWidth || rect.MaxY != 10+RoadHalfWidth {
		t.Fatalf("unexpected y bounds: %+v", rect)
	}
}

func TestRectangleContains(t *testing.T) {
	rect := Rectangle{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1}
	if !rect.Contains(Position{X: 0.5, Y: 0.5}) {
		t.Fatal("expected interior point to be contained")
	}
	if !rect.Contains(Position{X: 1, Y: 1}) {
		t.Fatal("expected edge point to be contained")
	}
	if rect.Contains(Position{X: 1.01, Y: 0}) {
		t.Fatal("expected point outside x bound to be excluded")
	}
}

func TestRectangleClip(t *testing.T) {
	rect := Rectangle{MinX: 0, MaxX: 5, MinY: 0, MaxY: 5}
	clipped := rect.Clip(Position{X: 10, Y: -3})
	if clipped != (Position{X: 5, Y: 0}) {
		t.Fatalf("unexpected clip result: %+v", clipped)
	}
}

func TestDistance(t *testing.T) {
	d := Distance(Position{X: 0, Y: 0}, Position{X: 3, Y: 4})
	if d != 5 {
		t.Fatalf("expected 5, got %v", d)
	}
}
