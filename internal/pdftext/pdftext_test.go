// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"reflect"
	"testing"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "plain lines",
			text: "first line\nsecond line",
			want: []string{"first line", "second line"},
		},
		{
			name: "carriage returns and trailing spaces",
			text: "first line  \r\nsecond line\t\r\n",
			want: []string{"first line", "second line", ""},
		},
		{
			name: "blank lines preserved",
			text: "first\n\nsecond",
			want: []string{"first", "", "second"},
		},
		{
			name: "whitespace only",
			text: "  \n\t\n",
			want: nil,
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitLines(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitLines(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
