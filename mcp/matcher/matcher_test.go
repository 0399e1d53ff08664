package matcher

import "testing"

func TestMatch(t *testing.T) {
	var testCases = []struct {
		pattern   string
		candidate string
		matched   bool
	}{
		{"*", "anything", true},
		{"", "anything", false},
		{"none", "anything", false},

		// Exact matches
		{"create_tool", "create_tool", true},
		{"system/exec", "system/exec", true},

		// Prefix matches
		{"system/", "system/exec", true},
		{"sys/", "system/exec", false},
		{"edit_", "edit_tool", true},
		{"get_", "create_tool", false},
	}

	for i, tc := range testCases {
		if got := Match(tc.pattern, tc.candidate); got != tc.matched {
			t.Fatalf("[%d] Match(%q, %q) = %v; expected %v", i, tc.pattern, tc.candidate, got, tc.matched)
		}
	}
}

func TestMatchAny(t *testing.T) {
	var testCases = []struct {
		patterns  []string
		candidate string
		matched   bool
	}{
		{nil, "create_tool", false},
		{[]string{"*"}, "create_tool", true},
		{[]string{"*", "!get_weather"}, "get_weather", false},
		{[]string{"!get_weather", "*"}, "get_weather", false},
		{[]string{"*", "!get_weather"}, "list_tools", true},
		{[]string{"list_", "use_"}, "use_tool", true},
		{[]string{"none"}, "use_tool", false},
		{[]string{"!edit_tool"}, "create_tool", false},
	}

	for i, tc := range testCases {
		if got := MatchAny(tc.patterns, tc.candidate); got != tc.matched {
			t.Fatalf("[%d] MatchAny(%v, %q) = %v; expected %v", i, tc.patterns, tc.candidate, got, tc.matched)
		}
	}
}
