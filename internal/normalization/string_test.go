package normalization

import "testing"

func TestParseInputString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Hello@Example.COM ", "hello@example.com"},
		{"Operating Systems", "operating systems"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := ParseInputString(tc.in); got != tc.want {
			t.Fatalf("ParseInputString(%q): want=%q got=%q", tc.in, tc.want, got)
		}
	}
}

func TestSubjectFolder(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Operating Systems", "operating_systems"},
		{"  Data   Structures ", "data_structures"},
		{"math", "math"},
		{"Computer\tNetworks", "computer_networks"},
	}
	for _, tc := range cases {
		if got := SubjectFolder(tc.in); got != tc.want {
			t.Fatalf("SubjectFolder(%q): want=%q got=%q", tc.in, tc.want, got)
		}
	}
}
