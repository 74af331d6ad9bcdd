package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNeewerName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: "NEEWER-SL90", want: true},
		{name: "neewer-rgb660", want: true},
		{name: "NWR-RGB660 PRO", want: true},
		{name: "NW-20220014&00000000", want: true},
		{name: "SL90 Pro", want: true},
		{name: "nee-something", want: true},
		{name: "JBL Flip 5", want: false},
		{name: "MX Master 3", want: false},
		{name: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNeewerName(tt.name))
		})
	}
}

func TestResolveProjectNames(t *testing.T) {
	tests := []struct {
		name    string
		project string
	}{
		{name: "NEEWER-SL90", project: "SL90"},
		{name: "neewer-SL90", project: "SL90"},
		{name: "NWR-RGB660 PRO", project: "RGB660 PRO"},
		{name: "NW-20220014&00000000", project: "CB60B"},
		{name: "NW-CB60 RGB", project: "CB60 RGB"},
		{name: "SL140", project: "SL140"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Resolve(tt.name, "")
			require.NoError(t, err)
			assert.Equal(t, tt.project, id.ProjectName)
			assert.Equal(t, tt.name, id.RawName)
		})
	}
}

func TestResolveRejectsNonNeewer(t *testing.T) {
	_, err := Resolve("JBL Flip 5", "AA:BB:CC:DD:EE:FF")
	var nerr *NotANeewerDeviceError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "JBL Flip 5", nerr.Name)
}

func TestResolveUnknownDateCode(t *testing.T) {
	id, err := Resolve("NW-19990101&00000000", "")
	var derr *UnknownDateCodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "19990101", derr.DateCode)
	// Raw name is still reported so the caller can log something useful.
	assert.Equal(t, "NW-19990101&00000000", id.RawName)
}

func TestResolveUnknownLightType(t *testing.T) {
	id, err := Resolve("NEEWER-XX999", "DF:24:33:8A:01:51")
	var uerr *UnknownLightTypeError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "XX999", uerr.ProjectName)
	assert.Equal(t, 0, id.LightType)
	assert.Equal(t, "XX999", id.ProjectName)
}

func TestNickName(t *testing.T) {
	id, err := Resolve("NEEWER-SL90", "DF:24:33:8A:01:51")
	require.NoError(t, err)
	// Last six characters of the identifier, colons stripped, uppercased.
	assert.Equal(t, "SL90-0151", id.NickName)

	id, err = Resolve("NEEWER-SL90", "abc")
	require.NoError(t, err)
	assert.Equal(t, "SL90", id.NickName)
}

func TestLightTypeMapping(t *testing.T) {
	tests := []struct {
		project   string
		lightType int
	}{
		{project: "SL90 Pro", lightType: 34},
		{project: "SL90", lightType: 14},
		{project: "CB60 RGB", lightType: 22},
		{project: "CB60B", lightType: 22},
		{project: "CB60", lightType: 15},
		{project: "RGB660 PRO", lightType: 3},
		{project: "RGB176-A1", lightType: 5},
		{project: "RGB176", lightType: 20},
		{project: "RGB168", lightType: 6},
		{project: "RGB1", lightType: 8},
		{project: "GL1 Pro", lightType: 33},
		{project: "GL1C", lightType: 39},
		{project: "GL1", lightType: 26},
		{project: "BH-30S", lightType: 42},
		{project: "TL-60", lightType: 32},
		{project: "MS150", lightType: 41},
		{project: "SL200", lightType: 38},
		{project: "42", lightType: 42},
		{project: "RGB 530", lightType: 1},
		{project: "RGB 480", lightType: 2},
	}
	for _, tt := range tests {
		t.Run(tt.project, func(t *testing.T) {
			got, ok := lookupLightType(tt.project)
			require.True(t, ok)
			assert.Equal(t, tt.lightType, got)
		})
	}
}

// TestLightTypeOrderSensitivity documents that rule order carries meaning:
// names that contain another rule's pattern as a substring must hit the
// more specific rule first.
func TestLightTypeOrderSensitivity(t *testing.T) {
	pro, ok := lookupLightType("SL90 Pro")
	require.True(t, ok)
	base, ok := lookupLightType("SL90")
	require.True(t, ok)
	assert.NotEqual(t, pro, base, "SL90 Pro and SL90 are different fixtures")

	a1, ok := lookupLightType("RGB176-A1")
	require.True(t, ok)
	plain, ok := lookupLightType("RGB176")
	require.True(t, ok)
	assert.NotEqual(t, a1, plain)
}

func TestLookupLightTypeMiss(t *testing.T) {
	_, ok := lookupLightType("Completely Unknown")
	assert.False(t, ok)
}
