package math3d

// View-to-screen blocks map view space (observer looking down +Z) onto
// normalized device coordinates where x, y and z all land in [-1, 1] and
// z = -1 is the near plane.

// OrthogonalProjection returns the view-to-screen matrix of a box-shaped
// view volume width × height units wide, spanning zNear..zFar.
func OrthogonalProjection(width, height, zNear, zFar float64) Mat4 {
	var m Mat4
	m.Set(0, 0, 2/width)
	m.Set(1, 1, 2/height)
	m.Set(2, 2, 2/(zFar-zNear))
	m.Set(2, 3, -(zFar+zNear)/(zFar-zNear))
	m.Set(3, 3, 1)
	return m
}

// PerspectiveProjection returns the view-to-screen matrix of a frustum whose
// near rectangle is width × height units at distance zNear. The result has
// W = view z, so callers divide by W after multiplying.
func PerspectiveProjection(width, height, zNear, zFar float64) Mat4 {
	var m Mat4
	m.Set(0, 0, 2*zNear/width)
	m.Set(1, 1, 2*zNear/height)
	m.Set(2, 2, (zFar+zNear)/(zFar-zNear))
	m.Set(2, 3, -2*zFar*zNear/(zFar-zNear))
	m.Set(3, 2, 1)
	return m
}

// ScreenToWindow maps normalized device coordinates to pixel coordinates:
// translate by (1, 1, 0), then scale by 0.5*(width-1), 0.5*(height-1).
// x = -1 lands on column 0 and x = 1 on column width-1; y grows upward.
func ScreenToWindow(width, height int) Mat4 {
	return ScaleXYZ(0.5*float64(width-1), 0.5*float64(height-1), 1).Mul(Translate(V3(1, 1, 0)))
}
