// Package identity resolves a Neewer light's advertised BLE name into its
// project name, display nickname, and numeric light type. Resolution is a
// pure function of the name string; the light type is the join key into the
// capability database.
package identity

import (
	"fmt"
	"strings"
)

// Identity is the derived identity of one discovered device. It is computed
// once per advertisement and never stored by this package.
type Identity struct {
	RawName     string
	ProjectName string
	NickName    string
	LightType   int
}

// NotANeewerDeviceError reports a device name that fails the Neewer gate;
// the device should simply be ignored.
type NotANeewerDeviceError struct {
	Name string
}

func (e *NotANeewerDeviceError) Error() string {
	return fmt.Sprintf("%q does not look like a Neewer light", e.Name)
}

// UnknownDateCodeError reports an NW-YYYYMMDD&... name whose date code is
// not in the static table. Guessing a model from an unknown date code would
// silently pick wrong capabilities, so resolution refuses instead.
type UnknownDateCodeError struct {
	DateCode string
}

func (e *UnknownDateCodeError) Error() string {
	return fmt.Sprintf("unknown device date code %q", e.DateCode)
}

// UnknownLightTypeError reports a project name with no light-type rule.
// Callers proceed with conservative capability assumptions; this is never
// fatal to discovery.
type UnknownLightTypeError struct {
	ProjectName string
}

func (e *UnknownLightTypeError) Error() string {
	return fmt.Sprintf("no light type known for project name %q", e.ProjectName)
}

// dateCodeProjects maps the date code of NW-YYYYMMDD&XXXXXXXX style names
// to the project name the same hardware advertises elsewhere.
var dateCodeProjects = map[string]string{
	"20220014": "CB60B",
	"20220015": "SL90",
	"20220016": "RGB660 PRO",
	"20220017": "GL1 PRO",
	"20220018": "MS60C",
	"20220019": "TL60",
	"20220020": "GR18C",
	"20220021": "RGB176-A1",
	"20220022": "GL1C",
	"20220023": "RGB62",
	"20220024": "BH-30S",
}

// IsNeewerName reports whether an advertised name plausibly belongs to a
// Neewer light. This gate runs before any project-name extraction.
func IsNeewerName(name string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range []string{"nwr", "neewer", "sl", "nee"} {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return strings.HasPrefix(lower, "nw-") || strings.HasPrefix(lower, "neewer-")
}

// Resolve derives the identity for an advertised name. identifier is the
// platform's handle for the device (usually the BLE address) and only feeds
// the nickname.
//
// The returned Identity is valid whenever the name passes the Neewer gate,
// even when err is non-nil: an UnknownDateCodeError or UnknownLightTypeError
// leaves LightType zero and the caller falls back to the most conservative
// capability set.
func Resolve(name, identifier string) (Identity, error) {
	if !IsNeewerName(name) {
		return Identity{}, &NotANeewerDeviceError{Name: name}
	}

	project, err := parseProjectName(name)
	id := Identity{
		RawName:     name,
		ProjectName: project,
		NickName:    nickName(project, identifier),
	}
	if err != nil {
		return id, err
	}

	lightType, ok := lookupLightType(project)
	if !ok {
		return id, &UnknownLightTypeError{ProjectName: project}
	}
	id.LightType = lightType
	return id, nil
}

// parseProjectName applies the name-parsing rules in strict priority order;
// the first matching rule wins.
func parseProjectName(name string) (string, error) {
	lower := strings.ToLower(name)

	// NW-YYYYMMDD&XXXXXXXX: the name carries a manufacturing date code
	// instead of a model string, resolved through the static table.
	if code, ok := extractDateCode(name); ok {
		project, known := dateCodeProjects[code]
		if !known {
			return name, &UnknownDateCodeError{DateCode: code}
		}
		return project, nil
	}

	switch {
	case strings.HasPrefix(lower, "neewer-"):
		return name[7:], nil
	case strings.HasPrefix(lower, "nw-"):
		return name[3:], nil
	case strings.HasPrefix(lower, "nwr") && len(name) > 4:
		return name[4:], nil
	}
	return name, nil
}

// extractDateCode matches the NW-YYYYMMDD&XXXXXXXX pattern and returns the
// eight-digit date code.
func extractDateCode(name string) (string, bool) {
	const minLen = len("NW-YYYYMMDD&XXXXXXXX")
	lower := strings.ToLower(name)
	if !strings.HasPrefix(lower, "nw-") || len(name) < minLen || !strings.Contains(name, "&") {
		return "", false
	}
	code := name[3:11]
	for _, r := range code {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return code, true
}

// nickName is project name plus the tail of the platform identifier, so two
// lights of the same model stay distinguishable.
func nickName(project, identifier string) string {
	const tail = 6
	if len(identifier) < tail {
		return project
	}
	suffix := strings.ToUpper(strings.ReplaceAll(identifier[len(identifier)-tail:], ":", ""))
	return project + "-" + suffix
}
