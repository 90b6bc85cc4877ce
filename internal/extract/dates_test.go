package extract

import "testing"

func TestNormalizeDate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{name: "epoch seconds", in: "1700000000", want: "14.11.2023", ok: true},
		{name: "epoch milliseconds", in: "1700000000000", want: "14.11.2023", ok: true},
		{name: "rfc3339", in: "2023-11-14T22:13:20Z", want: "14.11.2023", ok: true},
		{name: "rfc3339 with offset", in: "2023-11-14T23:13:20+01:00", want: "14.11.2023", ok: true},
		{name: "zoneless iso", in: "2024-05-01T08:30:00", want: "01.05.2024", ok: true},
		{name: "date only", in: "2024-05-01", want: "01.05.2024", ok: true},
		{name: "datetime", in: "2024-05-01 08:30:00", want: "01.05.2024", ok: true},
		{name: "dotted", in: "01.05.2024", want: "01.05.2024", ok: true},
		{name: "slashed", in: "01/05/2024", want: "01.05.2024", ok: true},
		{name: "whitespace trimmed", in: "  2024-05-01  ", want: "01.05.2024", ok: true},
		{name: "garbage discarded", in: "wczoraj o 15:00", ok: false},
		{name: "broken iso discarded", in: "2024-13-99T00:00:00Z", ok: false},
		{name: "short digits discarded", in: "20240501", ok: false},
		{name: "empty", in: "", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NormalizeDate(tc.in)
			if ok != tc.ok {
				t.Fatalf("NormalizeDate(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("NormalizeDate(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestEpochSecondsAndMillisAgree(t *testing.T) {
	t.Parallel()

	secs, ok := NormalizeDate("1700000000")
	if !ok {
		t.Fatal("seconds value should normalize")
	}
	millis, ok := NormalizeDate("1700000000000")
	if !ok {
		t.Fatal("milliseconds value should normalize")
	}
	if secs != millis {
		t.Fatalf("same instant rendered differently: %q vs %q", secs, millis)
	}
}
