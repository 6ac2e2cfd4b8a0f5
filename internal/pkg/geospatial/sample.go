package geospatial

// Sample reduces points to at most maxSamples entries evenly spaced by index,
// stride = max(1, len/maxSamples). The final point is always kept. Inputs with
// len <= maxSamples are returned unchanged.
func Sample[T any](points []T, maxSamples int) []T {
	if len(points) == 0 {
		return []T{}
	}
	if maxSamples <= 0 || len(points) <= maxSamples {
		return points
	}

	step := len(points) / maxSamples
	if step < 1 {
		step = 1
	}

	out := make([]T, 0, maxSamples)
	for i := 0; i < len(points) && len(out) < maxSamples; i += step {
		out = append(out, points[i])
	}

	last := len(points) - 1
	if (len(out)-1)*step != last {
		if len(out) == maxSamples {
			out[len(out)-1] = points[last]
		} else {
			out = append(out, points[last])
		}
	}
	return out
}
