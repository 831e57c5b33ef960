package parallel

// Band is a half-open range of rows assigned to one worker.
type Band struct {
	Y0, Y1 int
}

// Bands splits rows [y0, y1) into at most n contiguous bands of near-equal
// height. Fewer bands are returned when there are fewer rows than n. It never
// returns an empty band.
func Bands(y0, y1, n int) []Band {
	rows := y1 - y0
	if rows <= 0 {
		return nil
	}
	if n <= 0 {
		n = 1
	}
	if n > rows {
		n = rows
	}

	bands := make([]Band, 0, n)
	per := (rows + n - 1) / n
	for y := y0; y < y1; y += per {
		end := y + per
		if end > y1 {
			end = y1
		}
		bands = append(bands, Band{Y0: y, Y1: end})
	}
	return bands
}
