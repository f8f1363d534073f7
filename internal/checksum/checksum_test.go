package checksum

import "testing"

func TestSumStable(t *testing.T) {
	a := Sum([]byte(`{"a":1}`))
	b := Sum([]byte(`{"a":1}`))
	if a != b {
		t.Fatalf("sum not stable: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("len = %d, want 64", len(a))
	}
}

func TestMatchesETag(t *testing.T) {
	data := []byte("hello")
	tag := ETag(data)

	cases := []struct {
		header string
		want   bool
	}{
		{"", false},
		{tag, true},
		{"W/" + tag, true},
		{`"other", ` + tag, true},
		{`"other"`, false},
		{"*", true},
	}
	for _, tc := range cases {
		if got := MatchesETag(tc.header, data); got != tc.want {
			t.Errorf("MatchesETag(%q) = %v, want %v", tc.header, got, tc.want)
		}
	}
}
