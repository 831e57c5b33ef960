package parallel

import "testing"

func TestBands(t *testing.T) {
	tests := []struct {
		name      string
		y0, y1, n int
		want      []Band
	}{
		{"even split", 0, 8, 2, []Band{{0, 4}, {4, 8}}},
		{"uneven split", 0, 10, 3, []Band{{0, 4}, {4, 8}, {8, 10}}},
		{"more workers than rows", 0, 2, 8, []Band{{0, 1}, {1, 2}}},
		{"single worker", 0, 5, 1, []Band{{0, 5}}},
		{"zero workers", 0, 5, 0, []Band{{0, 5}}},
		{"offset range", 3, 7, 2, []Band{{3, 5}, {5, 7}}},
		{"empty range", 4, 4, 2, nil},
		{"inverted range", 7, 3, 2, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bands(tt.y0, tt.y1, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("Bands(%d,%d,%d) = %v, want %v", tt.y0, tt.y1, tt.n, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("band %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBandsCoverEveryRow(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 16} {
		seen := make([]bool, 23)
		for _, b := range Bands(0, 23, n) {
			for y := b.Y0; y < b.Y1; y++ {
				if seen[y] {
					t.Fatalf("n=%d: row %d assigned twice", n, y)
				}
				seen[y] = true
			}
		}
		for y, ok := range seen {
			if !ok {
				t.Fatalf("n=%d: row %d unassigned", n, y)
			}
		}
	}
}
