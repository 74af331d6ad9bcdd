package identity

import (
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// lightTypeRule matches a project name fragment. A non-empty exclude
// fragment vetoes the match; the SL90 and GL1 base models need it so that
// "Pro" variants spelled unusually still never collapse onto the base type.
type lightTypeRule struct {
	exclude   string
	lightType int
}

// lightTypeRules is evaluated strictly top to bottom and the first match
// wins. Several product names are substrings of others ("CB60 RGB" vs
// "CB60", "RGB176-A1" vs "RGB176", "SL90 Pro" vs "SL90"), so insertion
// order is load-bearing: most specific patterns come first and the table
// must never be reordered into an unordered lookup.
var lightTypeRules = func() *orderedmap.OrderedMap[string, lightTypeRule] {
	rules := orderedmap.New[string, lightTypeRule]()
	for _, r := range []struct {
		pattern string
		rule    lightTypeRule
	}{
		{"cb60 rgb", lightTypeRule{lightType: 22}},
		{"sl90 pro", lightTypeRule{lightType: 34}},
		{"sl90", lightTypeRule{exclude: "pro", lightType: 14}},
		{"rgb660 pro", lightTypeRule{lightType: 3}},
		{"gl1 pro", lightTypeRule{lightType: 33}},
		{"gl1c", lightTypeRule{lightType: 39}},
		{"ms60c", lightTypeRule{lightType: 25}},
		{"rgb62", lightTypeRule{lightType: 40}},
		{"bh-30s", lightTypeRule{lightType: 42}},
		{"tl60", lightTypeRule{lightType: 32}},
		{"gr18c", lightTypeRule{lightType: 62}},
		{"rgb176-a1", lightTypeRule{lightType: 5}},
		{"rgb176", lightTypeRule{lightType: 20}},
		{"cb60b", lightTypeRule{lightType: 22}},
		{"cb60", lightTypeRule{lightType: 15}},
		{"rgb168", lightTypeRule{lightType: 6}},
		{"rgb1", lightTypeRule{lightType: 8}},
		{"660 pro", lightTypeRule{lightType: 3}},
		{"480 pro", lightTypeRule{lightType: 2}},
		{"530 pro", lightTypeRule{lightType: 1}},
		{"gl1", lightTypeRule{exclude: "pro", lightType: 26}},
		{"tl-60", lightTypeRule{lightType: 32}},
		{"ms150", lightTypeRule{lightType: 41}},
		{"fs150", lightTypeRule{lightType: 30}},
		{"sl80", lightTypeRule{lightType: 35}},
		{"sl60", lightTypeRule{lightType: 36}},
		{"sl140", lightTypeRule{lightType: 37}},
		{"sl200", lightTypeRule{lightType: 38}},
	} {
		rules.Set(r.pattern, r.rule)
	}
	return rules
}()

// rgbSeriesFallbacks catch generic "RGB <model>" names that slipped past
// the primary table, checked only after it.
var rgbSeriesFallbacks = []struct {
	model     string
	lightType int
}{
	{"660", 3},
	{"530", 1},
	{"480", 2},
}

// lookupLightType maps a project name to its numeric light type.
func lookupLightType(project string) (int, bool) {
	lower := strings.ToLower(project)

	for pair := lightTypeRules.Oldest(); pair != nil; pair = pair.Next() {
		if !strings.Contains(lower, pair.Key) {
			continue
		}
		if pair.Value.exclude != "" && strings.Contains(lower, pair.Value.exclude) {
			continue
		}
		return pair.Value.lightType, true
	}

	// Some fixtures advertise the bare numeric type.
	if n, err := strconv.Atoi(project); err == nil {
		return n, true
	}

	if strings.Contains(lower, "rgb") {
		for _, fb := range rgbSeriesFallbacks {
			if strings.Contains(lower, fb.model) {
				return fb.lightType, true
			}
		}
	}
	return 0, false
}
