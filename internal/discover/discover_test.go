package discover

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

const goMod = "module example.com/app\n\ngo 1.25\n"

func TestDiscover(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  []string
	}{
		{
			name: "directive marker",
			files: map[string]string{
				"go.mod": goMod,
				"enums/trip.go": `package enums

//enumshare:export
type TripStatus string

const (
	TripStatusSaved     TripStatus = "saved"
	TripStatusCancelled TripStatus = "cancelled"
)
`,
			},
			want: []string{"example.com/app/enums.TripStatus"},
		},
		{
			name: "method marker in another file",
			files: map[string]string{
				"go.mod": goMod,
				"a.go": `package app

type Priority int

const (
	Low Priority = iota + 1
	High
)
`,
				"b.go": `package app

func (Priority) FrontendEnum() {}
`,
			},
			want: []string{"example.com/app.Priority"},
		},
		{
			name: "conversion constants",
			files: map[string]string{
				"go.mod": goMod,
				"kind.go": `package app

//enumshare:export pure
type Kind uint8

const KindA = Kind(1)
`,
			},
			want: []string{"example.com/app.Kind"},
		},
		{
			name: "unmarked, constless and non-basic types are ignored",
			files: map[string]string{
				"go.mod": goMod,
				"types.go": `package app

type Hidden string

const HiddenA Hidden = "a"

//enumshare:export
type Empty string

//enumshare:export
type Shape struct{}

//enumshare:export
type Ratio float64

const Half Ratio = 0.5

//enumshare:export
type Alias = string

const AliasA Alias = "a"
`,
			},
			want: nil,
		},
		{
			name: "malformed directive still nominates",
			files: map[string]string{
				"go.mod": goMod,
				"bad.go": `package app

//enumshare:label nope
type Bad string

const BadA Bad = "a"
`,
			},
			want: []string{"example.com/app.Bad"},
		},
		{
			name: "skipped files and directories",
			files: map[string]string{
				"go.mod": goMod,
				"x_test.go": `package app

//enumshare:export
type InTest string

const InTestA InTest = "a"
`,
				"broken.go":       "package app\n\nfunc {",
				"vendor/v/v.go":   marked("v", "Vendored"),
				"testdata/t/t.go": marked("t", "Fixture"),
				".hidden/h/h.go":  marked("h", "Hidden"),
				"_scratch/s/s.go": marked("s", "Scratch"),
				"enums/status.go": marked("enums", "Status"),
			},
			want: []string{"example.com/app/enums.Status"},
		},
		{
			name: "nested module",
			files: map[string]string{
				"go.mod":               goMod,
				"a/a.go":               marked("a", "A"),
				"tools/go.mod":         "module example.com/tools\n",
				"tools/inner/inner.go": marked("inner", "B"),
			},
			want: []string{"example.com/app/a.A", "example.com/tools/inner.B"},
		},
		{
			name: "outside a module",
			files: map[string]string{
				"a/a.go": marked("a", "A"),
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeTree(t, tt.files)
			got, err := Discover(context.Background(), dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func marked(pkg, name string) string {
	return "package " + pkg + "\n\n//enumshare:export\ntype " + name + " string\n\nconst " + name + "A " + name + " = \"a\"\n"
}

func TestScanner_Filters(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"go.mod":              goMod,
		"enums/a.go":          marked("enums", "TripStatus") + "\n//enumshare:export\ntype TripKind string\n\nconst TripKindX TripKind = \"x\"\n",
		"billing/b.go":        marked("billing", "Plan"),
		"internal/gen/gen.go": marked("gen", "Generated"),
	})

	tests := []struct {
		name    string
		scanner Scanner
		want    []string
	}{
		{
			name:    "no filters, lexical order",
			scanner: Scanner{},
			want: []string{
				"example.com/app/billing.Plan",
				"example.com/app/enums.TripStatus",
				"example.com/app/enums.TripKind",
				"example.com/app/internal/gen.Generated",
			},
		},
		{
			name:    "namespace by package",
			scanner: Scanner{Namespaces: []string{"example.com/app/enums"}},
			want:    []string{"example.com/app/enums.TripStatus", "example.com/app/enums.TripKind"},
		},
		{
			name:    "namespace by type glob",
			scanner: Scanner{Namespaces: []string{"example.com/app/**/*.Trip*"}},
			want:    []string{"example.com/app/enums.TripStatus", "example.com/app/enums.TripKind"},
		},
		{
			name:    "exclude",
			scanner: Scanner{Exclude: []string{"internal/**", "billing"}},
			want:    []string{"example.com/app/enums.TripStatus", "example.com/app/enums.TripKind"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.scanner
			s.Roots = []string{dir}
			got, err := s.Discover(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanner_Dedup(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"go.mod":     goMod,
		"enums/a.go": marked("enums", "Status"),
	})
	s := &Scanner{Roots: []string{dir, filepath.Join(dir, "enums")}}
	got, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Status", got[0].Name)
	assert.Equal(t, "example.com/app/enums", got[0].PkgPath)
	assert.Equal(t, 4, got[0].Pos.Line)
}

func TestScanner_Errors(t *testing.T) {
	_, err := (&Scanner{Namespaces: []string{"["}}).Discover(context.Background())
	assert.ErrorContains(t, err, "invalid pattern")

	_, err = Discover(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir := writeTree(t, map[string]string{"go.mod": goMod, "a/a.go": marked("a", "A")})
	_, err = Discover(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}
