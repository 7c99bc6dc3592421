package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		body string
		vars map[string]string
		want string
	}{
		{
			name: "single placeholder",
			body: "Genre: {{genre}}.",
			vars: map[string]string{"genre": "noir"},
			want: "Genre: noir.",
		},
		{
			name: "whitespace inside braces",
			body: "Genre: {{ genre }}.",
			vars: map[string]string{"genre": "noir"},
			want: "Genre: noir.",
		},
		{
			name: "unknown placeholder renders empty",
			body: "Hello {{x}}!",
			vars: map[string]string{},
			want: "Hello !",
		},
		{
			name: "nil vars",
			body: "{{a}}{{b}}",
			want: "",
		},
		{
			name: "repeated placeholder",
			body: "{{c}} and {{c}}",
			vars: map[string]string{"c": "go north"},
			want: "go north and go north",
		},
		{
			name: "no recursive expansion",
			body: "Prior: {{parentText}}",
			vars: map[string]string{"parentText": "{{choice}}", "choice": "boom"},
			want: "Prior: {{choice}}",
		},
		{
			name: "single braces untouched",
			body: "{genre} stays",
			vars: map[string]string{"genre": "noir"},
			want: "{genre} stays",
		},
		{
			name: "placeholder does not span lines",
			body: "{{gen\nre}}",
			vars: map[string]string{"gen\nre": "x"},
			want: "{{gen\nre}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.body, tt.vars))
		})
	}
}

func TestPlaceholders(t *testing.T) {
	body := `Continue the story. Prior text: "{{parentText}}". The reader chose: "{{ choice }}". {{parentText}}`
	assert.Equal(t, []string{"parentText", "choice"}, Placeholders(body))
	assert.Empty(t, Placeholders("no placeholders"))
}
