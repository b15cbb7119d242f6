// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pixbin

package pixbin

const maxUint32 = uint64(^uint32(0))

// u32FromInt converts an int to a uint32.
func u32FromInt(n int) (uint32, error) {
	if n < 0 || uint64(n) > maxUint32 {
		return 0, ErrSizeOverflow
	}

	// #nosec G115 -- bounds checked above.
	return uint32(n), nil
}

// intFromU64 converts a uint64 to an int, reporting overflow.
func intFromU64(n uint64) (int, error) {
	if n > uint64(^uint(0)>>1) {
		return 0, ErrSizeOverflow
	}

	return int(n), nil
}
