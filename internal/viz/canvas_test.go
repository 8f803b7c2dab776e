package viz

import (
	"strings"
	"testing"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	if !c.IsSet(0, 0) || !c.IsSet(3, 3) {
		t.Fatal("dots not raised")
	}
	if got := c.Dots(); got != 2 {
		t.Errorf("Dots() = %d, want 2", got)
	}
	if c.Grid[0][0] != brailleBlank|0x1 {
		t.Errorf("cell 0 = %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != brailleBlank|0x80 {
		t.Errorf("cell 1 = %U", c.Grid[0][1])
	}

	c.Unset(0, 0)
	if c.IsSet(0, 0) || c.Dots() != 1 {
		t.Error("Unset left the dot raised")
	}
}

func TestCanvasIgnoresOutOfRange(t *testing.T) {
	c := NewCanvas(1, 1)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 4}} {
		c.Set(p[0], p[1])
	}
	if c.Dots() != 0 {
		t.Errorf("Dots() = %d after out-of-range sets", c.Dots())
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 0)
	if got := c.Dots(); got != 8 {
		t.Errorf("horizontal line raised %d dots, want 8", got)
	}

	c.Clear()
	c.DrawLine(0, 0, 3, 3)
	for i := 0; i < 4; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("diagonal missing (%d,%d)", i, i)
		}
	}
}

func TestCanvasFillDisc(t *testing.T) {
	c := NewCanvas(4, 2)
	c.FillDisc(3, 3, 0)
	if c.Dots() != 1 {
		t.Errorf("r=0 disc raised %d dots", c.Dots())
	}
	c.Clear()
	c.FillDisc(3, 3, 1)
	if c.Dots() != 5 {
		t.Errorf("r=1 disc raised %d dots, want 5", c.Dots())
	}
}

func TestCanvasResizeAndString(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Set(0, 0)
	c.Resize(3, 2)
	if c.Dots() != 0 {
		t.Error("Resize kept dots")
	}
	lines := strings.Split(c.String(), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if n := len([]rune(lines[0])); n != 3 {
		t.Errorf("line width %d, want 3", n)
	}

	c.Resize(-1, -1)
	if c.String() != "" {
		t.Error("negative resize should leave an empty canvas")
	}
}
