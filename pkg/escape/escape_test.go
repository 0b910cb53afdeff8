package escape_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/rtjson/pkg/compiler"
	"github.com/yaklabco/rtjson/pkg/escape"
)

var (
	_ compiler.Escaper = escape.HTML{}
	_ compiler.Escaper = escape.Passthrough{}
)

func TestHTML_EscapeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"a & b", "a &amp; b"},
		{"<script>", "&lt;script&gt;"},
		{`say "hi"`, "say &quot;hi&quot;"},
		{"naïve", "naïve"},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, escape.Default.EscapeText(tc.in))
		})
	}
}

func TestHTML_EscapeURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://example.com/a%20b", escape.Default.EscapeURL("https://example.com/a b"))
	assert.Equal(t, "https://example.com/?q=1&x=%25", escape.Default.EscapeURL("https://example.com/?q=1&x=%25"))
	assert.Empty(t, escape.Default.EscapeURL(""))
}

func TestPassthrough(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<a & b>", escape.None.EscapeText("<a & b>"))
	assert.Equal(t, "a b", escape.None.EscapeURL("a b"))
}
