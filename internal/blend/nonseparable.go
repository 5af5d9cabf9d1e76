package blend

import "math"

// lum returns the BT.601 luminance of a straight color in [0, 1].
func lum(r, g, b float64) float64 {
	return 0.30*r + 0.59*g + 0.11*b
}

// sat returns max(r, g, b) - min(r, g, b).
func sat(r, g, b float64) float64 {
	return max(r, g, b) - min(r, g, b)
}

// clipColor pulls out-of-range components back into [0, 1] towards the
// luminance so the luminance itself is preserved.
func clipColor(r, g, b float64) (float64, float64, float64) {
	l := lum(r, g, b)
	n := min(r, g, b)
	x := max(r, g, b)

	if n < 0 {
		r = l + (r-l)*l/(l-n)
		g = l + (g-l)*l/(l-n)
		b = l + (b-l)*l/(l-n)
	}
	if x > 1 {
		r = l + (r-l)*(1-l)/(x-l)
		g = l + (g-l)*(1-l)/(x-l)
		b = l + (b-l)*(1-l)/(x-l)
	}
	return r, g, b
}

func setLum(r, g, b, l float64) (float64, float64, float64) {
	d := l - lum(r, g, b)
	return clipColor(r+d, g+d, b+d)
}

// setSat rescales the color so max-min equals s, keeping the component order.
func setSat(r, g, b, s float64) (float64, float64, float64) {
	c := [3]float64{r, g, b}
	lo, mid, hi := 0, 1, 2
	if c[lo] > c[mid] {
		lo, mid = mid, lo
	}
	if c[mid] > c[hi] {
		mid, hi = hi, mid
	}
	if c[lo] > c[mid] {
		lo, mid = mid, lo
	}

	var out [3]float64
	if c[hi] > c[lo] {
		out[mid] = (c[mid] - c[lo]) * s / (c[hi] - c[lo])
		out[hi] = s
	}
	return out[0], out[1], out[2]
}

// nonSeparable composites with a blend function that needs the whole RGB
// triplet. Same compositing formula as separable.
func nonSeparable(
	sr, sg, sb, sa, dr, dg, db, da byte,
	b func(sr, sg, sb, dr, dg, db float64) (float64, float64, float64),
) (byte, byte, byte, byte) {
	if sa == 0 {
		return dr, dg, db, da
	}
	if da == 0 {
		return sr, sg, sb, sa
	}

	fa, fb := float64(sa), float64(da)
	br, bg, bb := b(
		float64(sr)/fa, float64(sg)/fa, float64(sb)/fa,
		float64(dr)/fb, float64(dg)/fb, float64(db)/fb,
	)

	invSa := 255 - sa
	invDa := 255 - da
	saDa := fa * fb / 255

	channel := func(s, d byte, mixed float64) byte {
		out := addClamp(mulDiv255(d, invSa), mulDiv255(s, invDa))
		return addClamp(out, byte(math.Round(math.Max(0, math.Min(1, mixed))*saDa)))
	}

	return channel(sr, dr, br), channel(sg, dg, bg), channel(sb, db, bb),
		addClamp(sa, mulDiv255(da, invSa))
}

// hue: SetLum(SetSat(Cs, Sat(Cb)), Lum(Cb))
func hue(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparable(sr, sg, sb, sa, dr, dg, db, da, func(sr, sg, sb, dr, dg, db float64) (float64, float64, float64) {
		r, g, b := setSat(sr, sg, sb, sat(dr, dg, db))
		return setLum(r, g, b, lum(dr, dg, db))
	})
}

// saturation: SetLum(SetSat(Cb, Sat(Cs)), Lum(Cb))
func saturation(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparable(sr, sg, sb, sa, dr, dg, db, da, func(sr, sg, sb, dr, dg, db float64) (float64, float64, float64) {
		r, g, b := setSat(dr, dg, db, sat(sr, sg, sb))
		return setLum(r, g, b, lum(dr, dg, db))
	})
}

// color: SetLum(Cs, Lum(Cb))
func color(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparable(sr, sg, sb, sa, dr, dg, db, da, func(sr, sg, sb, dr, dg, db float64) (float64, float64, float64) {
		return setLum(sr, sg, sb, lum(dr, dg, db))
	})
}

// luminosity: SetLum(Cb, Lum(Cs))
func luminosity(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparable(sr, sg, sb, sa, dr, dg, db, da, func(sr, sg, sb, dr, dg, db float64) (float64, float64, float64) {
		return setLum(dr, dg, db, lum(sr, sg, sb))
	})
}
