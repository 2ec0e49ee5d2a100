// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package attrs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/staranto/dexctl/internal/names"
)

// Attr represents each of the keys to be included in the output. These are
// typically identified by the JSON:API attributes key, thus the name.
type Attr struct {
	// The JSON key to extract from each document.
	Key string `yaml:"key"`
	// Should this Attr be included in output or is it just
	// intended for filtering and sorting?
	Include bool `yaml:"include"`
	// The key to use in the output. This is also the column title when
	// output=text.
	OutputKey string `yaml:"outputKey"`
	// Transformation spec to apply to the output value.
	TransformSpec string `yaml:"transformSpec"`
}

var lengthRegex = regexp.MustCompile(`-?\d+`)

// Transform applies the attr's TransformSpec to value. Letters select the
// transformation:
//
//	l, L  lower case
//	u, U  upper case
//	f, F  catalog display name ("vulpix-alola" -> "Alola Vulpix")
//	j, J  join a list into a comma separated string
//	c, C  thousands separators for numbers
//
// A trailing integer truncates to that many runes. A negative integer keeps
// both ends and elides the middle.
func (a *Attr) Transform(value interface{}) interface{} {
	spec := a.TransformSpec
	if spec == "" {
		return value
	}

	switch v := value.(type) {
	case []interface{}:
		if !strings.ContainsAny(spec, "jJ") {
			return v
		}
		parts := make([]string, 0, len(v))
		for _, item := range v {
			s := fmt.Sprint(item)
			if strings.ContainsAny(spec, "fF") {
				s = names.Format(s)
			}
			parts = append(parts, s)
		}
		value = strings.Join(parts, ", ")
	case float64:
		if strings.ContainsAny(spec, "cC") {
			return humanize.Commaf(v)
		}
		return v
	case int:
		if strings.ContainsAny(spec, "cC") {
			return humanize.Comma(int64(v))
		}
		return v
	}

	result, ok := value.(string)
	if !ok {
		return value
	}

	if strings.ContainsAny(spec, "fF") {
		result = names.Format(result)
	}

	// The last case letter wins so that an attr's own spec overrides a global
	// one prepended by SetGlobalTransformSpec. IOW '*::U,name::l' is lower.
	lastL := strings.LastIndexAny(spec, "lL")
	lastU := strings.LastIndexAny(spec, "uU")

	if lastL > lastU {
		result = strings.ToLower(result)
	} else if lastU > lastL {
		result = strings.ToUpper(result)
	}

	if match := lengthRegex.FindAllString(spec, -1); len(match) != 0 {
		l, _ := strconv.Atoi(match[len(match)-1])
		result = truncate(result, l)
	}

	return result
}

// truncate shortens s to abs(n) runes. A negative n keeps the head and tail of
// s around a ".." marker.
func truncate(s string, n int) string {
	runes := []rune(s)
	abs := n
	if abs < 0 {
		abs = -abs
	}
	if abs == 0 || len(runes) <= abs {
		return s
	}
	if n > 0 {
		return string(runes[:n])
	}

	side := abs/2 - 1
	if side < 1 {
		return string(runes[:abs])
	}
	return string(runes[:side]) + ".." + string(runes[len(runes)-side:])
}

type AttrList []Attr

// String returns a representation matching the format of the --attrs flag.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Set parses each spec from the --attrs flag and adds it to the AttrList.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	const (
		jsonIdx = iota
		outputIdx
		transformIdx
	)

	// Each spec is key[:output[:transform]]. The output key defaults to the last
	// segment of the JSON key.
	specs := strings.Split(value, ",")
specloop:
	for _, spec := range specs {
		attr := Attr{
			Include: true,
		}

		fields := strings.Split(spec, ":")

		// A leading ! keeps the attr for filtering and sorting only.
		attr.Key = strings.TrimSpace(fields[jsonIdx])
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}

		if attr.Key == "" {
			return fmt.Errorf("empty attribute key in %q", spec)
		}

		if attr.Key == "*" {
			attr.Include = false
		}

		if len(fields) == 1 {
			segments := strings.Split(attr.Key, ".")
			attr.OutputKey = segments[len(segments)-1]
		} else {
			if fields[outputIdx] != "" {
				attr.OutputKey = strings.TrimSpace(fields[outputIdx])
			} else {
				attr.OutputKey = attr.Key
			}
		}

		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}

		// A default or repeated attr is updated in place.
		for i := range *a {
			if (*a)[i].Key == attr.Key || (*a)[i].OutputKey == attr.Key ||
				(*a)[i].Key == "attributes."+attr.Key {
				(*a)[i].Include = attr.Include
				(*a)[i].OutputKey = attr.OutputKey
				(*a)[i].TransformSpec = attr.TransformSpec
				continue specloop
			}
		}

		// A leading . addresses the document root, anything else lives under
		// .attributes.
		if strings.HasPrefix(attr.Key, ".") {
			attr.Key = attr.Key[1:]
		} else if attr.Key != "*" {
			attr.Key = "attributes." + attr.Key
		}

		*a = append(*a, attr)
	}

	return nil
}

// SetGlobalTransformSpec prepends the transform spec of a "*" attr to every
// attr in the list.
func (a *AttrList) SetGlobalTransformSpec() error {
	spec := ""

	for i := range *a {
		if (*a)[i].Key == "*" {
			spec = (*a)[i].TransformSpec
			break
		}
	}

	if spec == "" {
		return nil
	}

	for i := range *a {
		(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
	}

	return nil
}

// Included returns the attrs destined for output, in order.
func (a AttrList) Included() AttrList {
	out := make(AttrList, 0, len(a))
	for _, attr := range a {
		if attr.Include && attr.Key != "*" {
			out = append(out, attr)
		}
	}
	return out
}

func (a *AttrList) Type() string {
	return "list"
}
