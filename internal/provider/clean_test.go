package provider

import "testing"

func TestCleanOutput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text untouched",
			in:   "Hallo, Welt",
			want: "Hallo, Welt",
		},
		{
			name: "thinking block stripped",
			in:   "<think>target is German, keep greeting casual</think>Hallo, Welt",
			want: "Hallo, Welt",
		},
		{
			name: "instruction echo stripped",
			in:   "Here is the translation: Hallo, Welt",
			want: "Hallo, Welt",
		},
		{
			name: "polite echo stripped",
			in:   "Sure, here's the translation: Hallo, Welt",
			want: "Hallo, Welt",
		},
		{
			name: "outer quotes unwrapped",
			in:   `"Hallo, Welt"`,
			want: "Hallo, Welt",
		},
		{
			name: "curly quotes unwrapped",
			in:   "“Hallo, Welt”",
			want: "Hallo, Welt",
		},
		{
			name: "guillemets unwrapped",
			in:   "«Bonjour le monde»",
			want: "Bonjour le monde",
		},
		{
			name: "interior quotes preserved",
			in:   `Er sagte "Hallo" zu mir`,
			want: `Er sagte "Hallo" zu mir`,
		},
		{
			name: "mismatched quotes preserved",
			in:   `"Hallo, Welt`,
			want: `"Hallo, Welt`,
		},
		{
			name: "combined artifacts",
			in:   "<thinking>short greeting</thinking>\nThe translation: \"Hallo, Welt\"",
			want: "Hallo, Welt",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanOutput(tt.in); got != tt.want {
				t.Errorf("cleanOutput(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
