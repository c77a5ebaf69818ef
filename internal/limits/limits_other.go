// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build !linux && !darwin

package limits

// SetLimits is a no-op on platforms where the descriptor limit is not
// raised.  It reports want as the limit.
func SetLimits(want uint64) (uint64, error) {
	return clamp(want), nil
}
