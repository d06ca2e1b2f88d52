package invest

import "testing"

func TestProject(t *testing.T) {
	points := Project(10, 0.08, 5)

	if len(points) != 6 {
		t.Fatalf("got %d points, want 6 (year 0 through 5)", len(points))
	}
	if points[0].Year != 0 || points[0].Balance != 0 {
		t.Errorf("year 0 should start at zero: %+v", points[0])
	}

	for i := 1; i < len(points); i++ {
		if points[i].Balance <= points[i-1].Balance {
			t.Errorf("balance not growing: year %d %v <= year %d %v",
				points[i].Year, points[i].Balance, points[i-1].Year, points[i-1].Balance)
		}
	}

	// $10/week at 8% over 5 years lands around $3,200.
	final := points[5].Balance
	if final < 3100 || final > 3300 {
		t.Errorf("final balance = %v, want roughly 3200", final)
	}
}

func TestProjectEdgeCases(t *testing.T) {
	if got := Project(10, 0.08, 0); len(got) != 1 {
		t.Errorf("zero years should yield only the starting point: %v", got)
	}
	if got := Project(10, 0.08, -3); len(got) != 1 {
		t.Errorf("negative years should clamp to the starting point: %v", got)
	}

	// Zero rate degenerates to plain accumulation.
	flat := Project(5, 0, 2)
	if flat[1].Balance != 260 || flat[2].Balance != 520 {
		t.Errorf("zero-rate projection = %v, want 260 then 520", flat)
	}
}
