package blend

import "math"

// separable applies a per-channel blend function B over unpremultiplied
// channels and composites the result:
//
//	Result = (1 - Sa) * D + (1 - Da) * S + Sa * Da * B(Cs, Cb)
//	Alpha  = Sa + Da * (1 - Sa)
func separable(sr, sg, sb, sa, dr, dg, db, da byte, b func(s, d byte) byte) (byte, byte, byte, byte) {
	if sa == 0 {
		return dr, dg, db, da
	}
	if da == 0 {
		return sr, sg, sb, sa
	}

	invSa := 255 - sa
	invDa := 255 - da
	saDa := mulDiv255(sa, da)

	channel := func(s, d byte) byte {
		mixed := b(unpremul(s, sa), unpremul(d, da))
		out := addClamp(mulDiv255(d, invSa), mulDiv255(s, invDa))
		return addClamp(out, mulDiv255(saDa, mixed))
	}

	return channel(sr, dr), channel(sg, dg), channel(sb, db),
		addClamp(sa, mulDiv255(da, invSa))
}

// multiply: B = Cb * Cs
func multiply(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, mulDiv255)
}

// screen: B = 1 - (1 - Cb) * (1 - Cs)
func screen(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, screenChannel)
}

func screenChannel(s, d byte) byte {
	return 255 - mulDiv255(255-s, 255-d)
}

// hardLightChannel is Multiply(Cb, 2*Cs) for dark sources and
// Screen(Cb, 2*Cs - 1) for light ones.
func hardLightChannel(s, d byte) byte {
	if s <= 127 {
		return byte(min(255, (2*uint16(s)*uint16(d)+127)/255))
	}
	return screenChannel(byte(2*uint16(s)-255), d)
}

// overlay: HardLight with source and backdrop swapped.
func overlay(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		return hardLightChannel(d, s)
	})
}

func darken(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, minByte)
}

func lighten(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, maxByte)
}

// colorDodge: B = Cb == 0 ? 0 : min(1, Cb / (1 - Cs))
func colorDodge(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		if d == 0 {
			return 0
		}
		if s == 255 {
			return 255
		}
		return byte(min(255, uint16(d)*255/uint16(255-s)))
	})
}

// colorBurn: B = Cb == 1 ? 1 : 1 - min(1, (1 - Cb) / Cs)
func colorBurn(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		if d == 255 {
			return 255
		}
		if s == 0 {
			return 0
		}
		return 255 - byte(min(255, uint16(255-d)*255/uint16(s)))
	})
}

func hardLight(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, hardLightChannel)
}

func softLight(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		cs := float64(s) / 255
		cb := float64(d) / 255

		var result float64
		if cs <= 0.5 {
			result = cb - (1-2*cs)*cb*(1-cb)
		} else {
			var dx float64
			if cb <= 0.25 {
				dx = ((16*cb-12)*cb + 4) * cb
			} else {
				dx = math.Sqrt(cb)
			}
			result = cb + (2*cs-1)*(dx-cb)
		}
		return byte(math.Round(math.Max(0, math.Min(1, result)) * 255))
	})
}

// difference: B = |Cb - Cs|
func difference(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		if s > d {
			return s - d
		}
		return d - s
	})
}

// exclusion: B = Cb + Cs - 2 * Cb * Cs
func exclusion(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		return byte(min(255, uint16(s)+uint16(d)-2*uint16(mulDiv255(s, d))))
	})
}
