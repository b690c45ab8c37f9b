package pkgver

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Version
		err  bool
	}{
		{"1.2.3", Version{1, 2, 3}, false},
		{"0", Version{0}, false},
		{"20250101", Version{20250101}, false},
		{" 1.2 ", Version{1, 2}, false},
		{"", nil, true},
		{"1..2", nil, true},
		{"1.-2", nil, true},
		{"1.2a", nil, true},
	}
	for _, tc := range tests {
		got, err := Parse(tc.in)
		if tc.err {
			if err == nil {
				t.Errorf("Parse(%q): expected error", tc.in)
			} else if !errors.Is(err, ErrMalformed) {
				t.Errorf("Parse(%q): error should wrap ErrMalformed, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): %v", tc.in, err)
			continue
		}
		if Compare(got, tc.want) != 0 || len(got) != len(tc.want) {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFromReported(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"v1.2.3", "1.2.3"},
		{"1.2.3", "1.2.3"},
		{"v1.2", "1.2.0"},
		{"1.2.3-rc.1", "1.2.3"},
		{"v2.0.0+build.5", "2.0.0"},
		{"20250101.1200", "20250101.1200"},
	}
	for _, tc := range tests {
		got, err := FromReported(tc.in)
		if err != nil {
			t.Errorf("FromReported(%q): %v", tc.in, err)
			continue
		}
		if got.String() != tc.want {
			t.Errorf("FromReported(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if _, err := FromReported("not a version"); err == nil {
		t.Error("FromReported should reject garbage")
	}
}

func TestCompareTrailingZeros(t *testing.T) {
	a := Version{1, 2}
	b := Version{1, 2, 0}
	if Compare(a, b) != 0 {
		t.Errorf("1.2 should equal 1.2.0")
	}
	c := Version{1, 2, 1}
	if Compare(a, c) != -1 {
		t.Errorf("1.2 should order before 1.2.1")
	}
}

func genVersion() gopter.Gen {
	return gen.SliceOfN(3, gen.IntRange(0, 50)).Map(func(parts []int) Version {
		return Version(parts)
	})
}

func TestCompareProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("comparison is antisymmetric", prop.ForAll(
		func(a, b Version) bool {
			return Compare(a, b) == -Compare(b, a)
		},
		genVersion(),
		genVersion(),
	))

	properties.Property("every version equals itself", prop.ForAll(
		func(a Version) bool {
			return Compare(a, a) == 0 && !a.Before(a)
		},
		genVersion(),
	))

	properties.Property("appending a zero component changes nothing", prop.ForAll(
		func(a Version) bool {
			padded := append(append(Version{}, a...), 0)
			return Compare(a, padded) == 0
		},
		genVersion(),
	))

	properties.Property("bumping the leading component orders after", prop.ForAll(
		func(a Version) bool {
			bumped := append(Version{}, a...)
			bumped[0]++
			return a.Before(bumped)
		},
		genVersion(),
	))

	properties.TestingRun(t)
}
