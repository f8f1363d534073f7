package contract

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
)

// node is a raw JSON value together with its kind. The zero node is absent.
type node struct {
	raw  []byte
	kind jsonparser.ValueType
}

func parseNode(data []byte) node {
	raw, kind, _, err := jsonparser.Get(data)
	if err != nil {
		return node{}
	}
	return node{raw: raw, kind: kind}
}

func (n node) isObject() bool {
	return n.kind == jsonparser.Object
}

// child returns the member stored under key, or the absent node when n is
// not an object or has no such member. A repeated key resolves to its last
// occurrence, as encoding/json does.
func (n node) child(key string) node {
	found := node{}
	n.members(func(k string, v node) {
		if k == key {
			found = v
		}
	})
	return found
}

// lookup descends a dotted path one key at a time. Any missing, null or
// non-object intermediate short-circuits to the absent node.
func (n node) lookup(path string) node {
	cur := n
	for _, key := range strings.Split(path, ".") {
		cur = cur.child(key)
		if cur.kind == jsonparser.NotExist {
			return node{}
		}
	}
	return cur
}

// String renders the value as a form field shows it. Absent and null
// values render empty; objects and arrays render as compact JSON.
func (n node) String() string {
	switch n.kind {
	case jsonparser.String:
		s, err := jsonparser.ParseString(n.raw)
		if err != nil {
			return string(n.raw)
		}
		return s
	case jsonparser.Number:
		return formatNumber(n.raw)
	case jsonparser.Boolean:
		return string(n.raw)
	case jsonparser.Object, jsonparser.Array:
		var buf bytes.Buffer
		if err := json.Compact(&buf, n.raw); err != nil {
			return string(n.raw)
		}
		return buf.String()
	default:
		return ""
	}
}

func (n node) boolean() (value, ok bool) {
	if n.kind != jsonparser.Boolean {
		return false, false
	}
	v, err := jsonparser.ParseBoolean(n.raw)
	if err != nil {
		return false, false
	}
	return v, true
}

func (n node) number() (float64, bool) {
	if n.kind != jsonparser.Number {
		return 0, false
	}
	f, err := jsonparser.ParseFloat(n.raw)
	if err != nil {
		return 0, false
	}
	return f, true
}

// members visits every member of an object in document order, repeated
// keys included.
func (n node) members(fn func(key string, value node)) {
	if !n.isObject() {
		return
	}
	_ = jsonparser.ObjectEach(n.raw, func(k, v []byte, kind jsonparser.ValueType, _ int) error {
		key, err := jsonparser.ParseString(k)
		if err != nil {
			key = string(k)
		}
		fn(key, node{raw: v, kind: kind})
		return nil
	})
}

// each visits the distinct members of an object. A repeated key keeps the
// position of its first occurrence and the value of its last.
func (n node) each(fn func(key string, value node)) {
	var keys []string
	values := make(map[string]node)
	n.members(func(k string, v node) {
		if _, seen := values[k]; !seen {
			keys = append(keys, k)
		}
		values[k] = v
	})
	for _, k := range keys {
		fn(k, values[k])
	}
}

// formatNumber prints the shortest decimal form, switching to exponent
// notation only for very small or very large magnitudes. The exponent has
// no leading zeros and negative zero prints as "0".
func formatNumber(raw []byte) string {
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || math.IsInf(f, 0) {
		return string(raw)
	}
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs < 1e-6 || abs >= 1e21 {
		return trimExponent(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// trimExponent turns "1e-07" into "1e-7".
func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 >= len(s) {
		return s
	}
	digits := strings.TrimLeft(s[i+2:], "0")
	if digits == "" {
		digits = "0"
	}
	return s[:i+2] + digits
}
