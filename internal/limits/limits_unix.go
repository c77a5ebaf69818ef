// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build linux || darwin

package limits

import (
	"fmt"
	"syscall"
)

// SetLimits raises the soft limit on open file descriptors to want, capped by
// the hard limit, and returns the soft limit in effect afterwards.  A hard
// limit below MinFiles is an error since the engines can not run with that
// few descriptors.
func SetLimits(want uint64) (uint64, error) {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		return 0, err
	}

	want = clamp(want)
	if uint64(rLimit.Cur) >= want {
		return uint64(rLimit.Cur), nil
	}
	if uint64(rLimit.Max) < MinFiles {
		return uint64(rLimit.Cur), fmt.Errorf("need at least %d file "+
			"descriptors, hard limit is %d", MinFiles, rLimit.Max)
	}
	if uint64(rLimit.Max) < want {
		want = uint64(rLimit.Max)
	}

	prev := rLimit.Cur
	rLimit.Cur = want
	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		// Fall back to the minimum.
		rLimit.Cur = MinFiles
		if prev >= MinFiles {
			rLimit.Cur = prev
		}
		if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
			return uint64(prev), err
		}
	}

	return uint64(rLimit.Cur), nil
}
