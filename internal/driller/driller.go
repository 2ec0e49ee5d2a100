// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	segmentRe = regexp.MustCompile(`^([^\[\]]*)((?:\[\d+\])*)$`)
	indexRe   = regexp.MustCompile(`\[(\d+)\]`)
)

// Driller returns the value at path in json. Segments are separated by '.'
// and may carry [n] indexes. A key applied to a single element array is
// applied to its only element; a key applied to a longer array collects the
// key from every element. The value at the end of the path is returned as
// is, so an array stays an array whatever its length. Missing paths return
// an empty Result.
func Driller(json string, path string) gjson.Result {
	current := gjson.Parse(json)
	if path == "" {
		return current
	}

	for _, seg := range strings.Split(path, ".") {
		m := segmentRe.FindStringSubmatch(seg)
		if m == nil {
			return gjson.Result{}
		}
		key, indexes := m[1], m[2]

		if key != "" {
			current = step(current, key)
		}

		for _, im := range indexRe.FindAllStringSubmatch(indexes, -1) {
			current = current.Get(im[1])
		}

		if !current.Exists() {
			return gjson.Result{}
		}
	}

	return current
}

func step(current gjson.Result, key string) gjson.Result {
	if !current.IsArray() {
		return current.Get(gjson.Escape(key))
	}

	arr := current.Array()
	switch len(arr) {
	case 0:
		return gjson.Result{}
	case 1:
		return arr[0].Get(gjson.Escape(key))
	default:
		return current.Get("#." + gjson.Escape(key))
	}
}
