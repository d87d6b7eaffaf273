package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/enumshare/ir"
)

const fixtures = "github.com/broady/enumshare/source/testdata/enums"

func lookupOne(t *testing.T, name string) Result {
	t.Helper()
	p := &SourceProvider{}
	results, err := p.Lookup(context.Background(), []string{fixtures + "." + name})
	require.NoError(t, err)
	require.Len(t, results, 1)
	return results[0]
}

func TestSourceProvider_BackedEnum(t *testing.T) {
	res := lookupOne(t, "TripStatus")
	require.NoError(t, res.Err)
	require.NotNil(t, res.Type)

	et := res.Type
	assert.Equal(t, "TripStatus", et.Name)
	assert.Equal(t, fixtures+".TripStatus", et.QualifiedName)
	assert.True(t, et.IsEnum)
	assert.True(t, et.Exported)
	assert.Equal(t, ir.BackingString, et.Backing)

	require.Len(t, et.Cases, 3)
	assert.Equal(t, "Saved", et.Cases[0].Key)
	assert.Equal(t, "saved", et.Cases[0].Value)
	require.NotNil(t, et.Cases[0].PlainLabel)
	assert.Equal(t, "Trip Saved", et.Cases[0].PlainLabel.Text)
	assert.Equal(t, ir.Object{{Key: "color", Value: "gray"}}, et.Cases[0].Meta)

	assert.Equal(t, "Confirmed", et.Cases[1].Key)
	assert.Equal(t, "Cancelled", et.Cases[2].Key)
	assert.Nil(t, et.Cases[2].PlainLabel)
	assert.Nil(t, et.Cases[2].Meta)
}

func TestSourceProvider_PureEnum(t *testing.T) {
	res := lookupOne(t, "UserRole")
	require.NoError(t, res.Err)
	require.NotNil(t, res.Type)

	et := res.Type
	assert.Equal(t, ir.BackingNone, et.Backing)
	require.Len(t, et.Cases, 2)
	// Constant names do not start with the type name, so they are kept.
	assert.Equal(t, "RoleAdmin", et.Cases[0].Key)
	assert.Nil(t, et.Cases[0].Value)
	require.NotNil(t, et.Cases[0].TranslatedLabel)
	assert.Equal(t, "roles.admin", et.Cases[0].TranslatedLabel.Key)
}

func TestSourceProvider_MarkerMethod(t *testing.T) {
	res := lookupOne(t, "Priority")
	require.NoError(t, res.Err)
	require.NotNil(t, res.Type)

	et := res.Type
	assert.True(t, et.Exported)
	assert.Equal(t, ir.BackingInt, et.Backing)

	var keys []string
	var values []any
	for _, c := range et.Cases {
		keys = append(keys, c.Key)
		values = append(values, c.Value)
	}
	// Ignored and unexported constants are not cases.
	assert.Equal(t, []string{"Low", "High"}, keys)
	assert.Equal(t, []any{int64(1), int64(2)}, values)
}

func TestSourceProvider_Classification(t *testing.T) {
	tests := []struct {
		name       string
		wantExists bool
		wantEnum   bool
		wantMarked bool
		wantCases  int
		wantErr    string
	}{
		{name: "Shape", wantExists: true},
		{name: "Hidden", wantExists: true, wantEnum: true, wantCases: 1},
		{name: "Empty", wantExists: true, wantEnum: true, wantMarked: true},
		{name: "Ratio", wantExists: true},
		{name: "Missing"},
		{name: "Broken", wantErr: "invalid //enumshare:meta"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := lookupOne(t, tt.name)
			if tt.wantErr != "" {
				require.Error(t, res.Err)
				assert.Contains(t, res.Err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, res.Err)
			if !tt.wantExists {
				assert.Nil(t, res.Type)
				return
			}
			require.NotNil(t, res.Type)
			assert.Equal(t, tt.wantEnum, res.Type.IsEnum)
			assert.Equal(t, tt.wantMarked, res.Type.Exported)
			assert.Len(t, res.Type.Cases, tt.wantCases)
		})
	}
}

func TestSourceProvider_UnknownPackage(t *testing.T) {
	p := &SourceProvider{}
	results, err := p.Lookup(context.Background(), []string{
		"github.com/broady/enumshare/source/testdata/nope.Status",
		"NoPackage",
		fixtures + ".TripStatus",
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Nil(t, results[0].Type)
	assert.NoError(t, results[0].Err)
	assert.Nil(t, results[1].Type)
	assert.NotNil(t, results[2].Type)
}

func TestCaseKey(t *testing.T) {
	tests := []struct {
		typeName, constName, want string
	}{
		{"TripStatus", "TripStatusSaved", "Saved"},
		{"TripStatus", "TripStatus", "TripStatus"},
		{"Role", "Roles", "Roles"},
		{"Role", "RoleAdmin", "Admin"},
		{"Role", "Admin", "Admin"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, caseKey(tt.typeName, tt.constName), "%s/%s", tt.typeName, tt.constName)
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in, pkg, typ string
		wantOK       bool
	}{
		{"example.com/app/enums.TripStatus", "example.com/app/enums", "TripStatus", true},
		{"enums.Status", "enums", "Status", true},
		{"Status", "", "Status", false},
		{"example.com/app", "", "example.com/app", false},
		{"trailing.", "", "trailing.", false},
	}
	for _, tt := range tests {
		pkg, typ, ok := SplitName(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.pkg, pkg, tt.in)
		assert.Equal(t, tt.typ, typ, tt.in)
	}
}
