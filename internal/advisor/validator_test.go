package advisor

import "testing"

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "clean answer passes trimmed",
			in:   "  You spent 450.00 INR on 2025-03-15 on Groceries.  ",
			want: "You spent 450.00 INR on 2025-03-15 on Groceries.",
		},
		{
			name: "approximately is refused",
			in:   "You spent approximately 450 INR.",
			want: RefusalMessage,
		},
		{
			name: "case insensitive",
			in:   "APPROXIMATELY 450 INR",
			want: RefusalMessage,
		},
		{
			name: "around is refused",
			in:   "It was around 450.",
			want: RefusalMessage,
		},
		{
			name: "about is refused",
			in:   "That's about half your income.",
			want: RefusalMessage,
		},
		{
			name: "roughly is refused",
			in:   "Roughly speaking, 450.",
			want: RefusalMessage,
		},
		{
			name: "seems is refused",
			in:   "It seems you spent 450.",
			want: RefusalMessage,
		},
		{
			name: "probably is refused",
			in:   "You probably spent 450.",
			want: RefusalMessage,
		},
		{
			name: "hedging term at start of long answer",
			in:   "Approximately: income 0.00, expenses 450.00, exact lines quoted below...",
			want: RefusalMessage,
		},
		{
			name: "whole words only",
			in:   "The turnaround on the roundabout purchase was 450.00 INR.",
			want: "The turnaround on the roundabout purchase was 450.00 INR.",
		},
		{
			name: "empty answer",
			in:   "",
			want: NoDataMessage,
		},
		{
			name: "whitespace only answer",
			in:   "   \n\t  ",
			want: NoDataMessage,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidateResponse(tc.in); got != tc.want {
				t.Errorf("ValidateResponse(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
