package runtime

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		template string
		bindings map[string]string
		want     string
	}{
		{
			name:     "single placeholder",
			template: "Echo: {{user_input}}",
			bindings: map[string]string{"user_input": "toast"},
			want:     "Echo: toast",
		},
		{
			name:     "repeated placeholder",
			template: "{{user_input}} and {{user_input}}",
			bindings: map[string]string{"user_input": "x"},
			want:     "x and x",
		},
		{
			name:     "inner whitespace tolerated",
			template: "say {{ user_input }}",
			bindings: map[string]string{"user_input": "hi"},
			want:     "say hi",
		},
		{
			name:     "unknown placeholder left verbatim",
			template: "keep {{mystery}} intact",
			bindings: map[string]string{"user_input": "hi"},
			want:     "keep {{mystery}} intact",
		},
		{
			name:     "no placeholders",
			template: "plain text",
			bindings: map[string]string{"user_input": "hi"},
			want:     "plain text",
		},
		{
			name:     "nil bindings",
			template: "hello {{user_input}}",
			bindings: nil,
			want:     "hello {{user_input}}",
		},
		{
			name:     "single braces ignored",
			template: "{user_input}",
			bindings: map[string]string{"user_input": "hi"},
			want:     "{user_input}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.template, tt.bindings)
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.template, got, tt.want)
			}
		})
	}
}

func TestResolve_Deterministic(t *testing.T) {
	template := "a {{user_input}} b {{other}} c"
	bindings := map[string]string{"user_input": "1", "other": "2"}

	first := Resolve(template, bindings)
	for i := 0; i < 10; i++ {
		if got := Resolve(template, bindings); got != first {
			t.Fatalf("Resolve is not deterministic: %q != %q", got, first)
		}
	}
}
