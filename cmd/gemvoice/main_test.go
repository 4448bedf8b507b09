package main

import "testing"

func TestWantsHelp(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"render", "-f", "x.yaml"}, false},
		{[]string{"--help"}, true},
		{[]string{"render", "-h"}, true},
		{[]string{"help", "from"}, true},
	}

	for _, tt := range tests {
		if got := wantsHelp(tt.args); got != tt.want {
			t.Fatalf("wantsHelp(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}
