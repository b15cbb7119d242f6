// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pixbin

package imagefmt

import "math/bits"

const (
	maxInt32  = int(^uint32(0) >> 1)
	maxUint32 = uint64(^uint32(0))
	maxInt    = uint64(^uint(0) >> 1)
)

// i32FromInt converts an int to an int32 block size.
func i32FromInt(n int) (int32, error) {
	if n < 0 || n > maxInt32 {
		return 0, ErrSizeOverflow
	}

	return int32(n), nil
}

// u32FromInt converts an int to a uint32 header field.
func u32FromInt(n int) (uint32, error) {
	if n < 0 || uint64(n) > maxUint32 {
		return 0, ErrSizeOverflow
	}

	// #nosec G115 -- bounds checked above.
	return uint32(n), nil
}

// gridBytes returns cols*rows*unit, or ErrSizeOverflow when the product
// does not fit in an int.
func gridBytes(cols, rows, unit int) (int, error) {
	if cols < 0 || rows < 0 || unit < 0 {
		return 0, ErrSizeOverflow
	}

	hi, cells := bits.Mul64(uint64(cols), uint64(rows))
	if hi != 0 {
		return 0, ErrSizeOverflow
	}
	hi, n := bits.Mul64(cells, uint64(unit))
	if hi != 0 || n > maxInt {
		return 0, ErrSizeOverflow
	}

	return int(n), nil
}
