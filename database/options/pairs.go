// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package options

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParsePairs builds an option bag from name=value strings such as those given
// on a command line.  Values are inferred as booleans ("true" or "false"),
// signed or unsigned integers, and otherwise kept as strings, leaving shape
// validation to Translate.
//
// A name given more than once keeps its last value.  The names that were
// overridden this way are returned, sorted and without repeats, so callers can
// report them.
func ParsePairs(pairs []string) (Options, []string, error) {
	opts := make(Options, len(pairs))
	var overridden []string
	seen := make(map[string]bool)
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("malformed option %q -- expected "+
				"name=value", pair)
		}

		if _, exists := opts[name]; exists && !seen[name] {
			seen[name] = true
			overridden = append(overridden, name)
		}
		opts[name] = inferValue(strings.TrimSpace(value))
	}
	sort.Strings(overridden)

	return opts, overridden, nil
}

// inferValue converts the textual form of a value into the most specific Go
// type it parses as.
func inferValue(value string) interface{} {
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	if n, err := strconv.ParseUint(value, 10, 64); err == nil {
		return n
	}
	return value
}
