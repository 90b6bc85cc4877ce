package search

import "testing"

const testOrigin = "https://www.radiozet.pl"

func TestResolveRedirect(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "widget redirect",
			in:   "https://cse.google.com/url?q=https://www.radiozet.pl/wiadomosci/polska/artykul&sa=U",
			want: "https://www.radiozet.pl/wiadomosci/polska/artykul",
		},
		{
			name: "q param without scheme is kept as-is",
			in:   "https://www.radiozet.pl/Wyszukaj?q=wybory",
			want: "https://www.radiozet.pl/Wyszukaj?q=wybory",
		},
		{
			name: "plain URL passes through",
			in:   "https://www.radiozet.pl/wiadomosci/polska/artykul",
			want: "https://www.radiozet.pl/wiadomosci/polska/artykul",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveRedirect(tc.in); got != tc.want {
				t.Fatalf("resolveRedirect(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeCandidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{
			name: "query and fragment stripped",
			in:   "https://www.radiozet.pl/wiadomosci/polska/wybory-2026?utm_source=gsc#syf",
			want: "https://www.radiozet.pl/wiadomosci/polska/wybory-2026",
			ok:   true,
		},
		{
			name: "relative href resolves against origin",
			in:   "/wiadomosci/polska/wybory-2026",
			want: "https://www.radiozet.pl/wiadomosci/polska/wybory-2026",
			ok:   true,
		},
		{
			name: "subdomain accepted",
			in:   "https://wiadomosci.radiozet.pl/polska/wybory-2026",
			want: "https://wiadomosci.radiozet.pl/polska/wybory-2026",
			ok:   true,
		},
		{
			name: "off-site host rejected",
			in:   "https://www.onet.pl/wiadomosci/polska/artykul",
			ok:   false,
		},
		{
			name: "single segment too shallow",
			in:   "https://www.radiozet.pl/wiadomosci",
			ok:   false,
		},
		{
			name: "category page at shallow depth rejected",
			in:   "https://www.radiozet.pl/wiadomosci/polityka",
			ok:   false,
		},
		{
			name: "category word deep in path is fine",
			in:   "https://www.radiozet.pl/wiadomosci/kraj/polityka-rzadu-analiza",
			want: "https://www.radiozet.pl/wiadomosci/kraj/polityka-rzadu-analiza",
			ok:   true,
		},
		{
			name: "redirect unwrapped before filtering",
			in:   "https://cse.google.com/url?q=https://www.radiozet.pl/wiadomosci/polska/artykul&sa=U",
			want: "https://www.radiozet.pl/wiadomosci/polska/artykul",
			ok:   true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := normalizeCandidate(tc.in, testOrigin)
			if ok != tc.ok {
				t.Fatalf("normalizeCandidate(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("normalizeCandidate(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSameSite(t *testing.T) {
	t.Parallel()

	if !sameSite("radiozet.pl", "www.radiozet.pl") {
		t.Fatal("bare root should match www base")
	}
	if !sameSite("www.radiozet.pl", "radiozet.pl") {
		t.Fatal("www host should match bare base")
	}
	if sameSite("notradiozet.pl", "radiozet.pl") {
		t.Fatal("suffix-similar host must not match")
	}
}
