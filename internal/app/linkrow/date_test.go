package linkrow

import (
	"errors"
	"sort"
	"testing"
	"time"
)

func TestFormatDisplayDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-05T10:20:30Z", "2024-03-05"},
		{"2024-03-05T10:20:30.123456789Z", "2024-03-05"},
		{"2024-03-05T23:30:00-02:00", "2024-03-06"},
		{"2024-03-05T10:20:30", "2024-03-05"},
		{"2024-03-05 10:20:30", "2024-03-05"},
		{"2024-03-05", "2024-03-05"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := FormatDisplayDate(tt.in)
			if err != nil {
				t.Fatalf("FormatDisplayDate(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("FormatDisplayDate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatDisplayDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "Invalid Date", "2024-13-45", "05/03/2024"} {
		got, err := FormatDisplayDate(in)
		var dateErr *InvalidDateError
		if !errors.As(err, &dateErr) {
			t.Fatalf("FormatDisplayDate(%q) error = %v, want InvalidDateError", in, err)
		}
		if got != "" {
			t.Fatalf("FormatDisplayDate(%q) = %q on error, want empty", in, got)
		}
	}
}

func TestFormatDisplayDate_Deterministic(t *testing.T) {
	const ts = "2023-11-30T08:00:00+05:00"
	first, err := FormatDisplayDate(ts)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, _ := FormatDisplayDate(ts)
		if again != first {
			t.Fatalf("output changed between calls: %q vs %q", first, again)
		}
	}
}

func TestDateFormatter_ChronologicalOrder(t *testing.T) {
	stamps := []string{
		"2025-01-01T00:00:00Z",
		"2023-12-31T23:59:59Z",
		"2024-02-29T12:00:00Z",
		"2024-10-01",
		"2019-07-04 09:00:00",
	}

	formatters := []DateFormatter{
		{},
		{Layout: "02/01/2006"},
		{Layout: "Jan 2, 2006", Location: time.FixedZone("UTC+9", 9*3600)},
	}

	for _, f := range formatters {
		t.Run(f.layout(), func(t *testing.T) {
			type pair struct {
				at  time.Time
				out string
			}
			var pairs []pair
			for _, s := range stamps {
				at, err := ParseTimestamp(s)
				if err != nil {
					t.Fatal(err)
				}
				out, err := f.Format(s)
				if err != nil {
					t.Fatal(err)
				}
				pairs = append(pairs, pair{at, out})
			}

			sort.Slice(pairs, func(i, j int) bool { return pairs[i].at.Before(pairs[j].at) })
			for i := 1; i < len(pairs); i++ {
				if f.Compare(pairs[i-1].out, pairs[i].out) > 0 {
					t.Fatalf("%q sorts after %q", pairs[i-1].out, pairs[i].out)
				}
			}
		})
	}
}

func TestDefaultLayout_SortsLexically(t *testing.T) {
	a, _ := FormatDisplayDate("2024-09-30T10:00:00Z")
	b, _ := FormatDisplayDate("2024-10-01T10:00:00Z")
	if !(a < b) {
		t.Fatalf("expected %q < %q", a, b)
	}
}
