package geom

func Clamp(v, min, max Element) Element {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// SmoothStep returns the Hermite interpolation 3t^2-2t^3 of v over
// [edge0, edge1]. edge0 < edge1 is the caller's responsibility.
func SmoothStep(edge0, edge1, v Element) Element {
	t := Clamp((v-edge0)/(edge1-edge0), 0, 1)
	return Clamp(t*t*(3-2*t), 0, 1)
}
