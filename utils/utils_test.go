package utils

import "testing"

func TestRedactSecret(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Bearer sk-0123456789abcdefghijklmnop", "Bearer sk-...mnop"},
		{"sk-ant-REDACTED", "sk-...ijkl"},
		{"short", "*****"},
		{"Bearer abc", "****** ***"},
		{"", ""},
	}
	for _, c := range cases {
		if got := RedactSecret(c.in); got != c.want {
			t.Errorf("RedactSecret(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}
