package fetcher_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digestbot/internal/infra/fetcher"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "boilerplate removed",
			html: `<html><head><title>Post</title><style>p{color:red}</style><script>var x = 1;</script></head>
<body>
  <header>Site header</header>
  <nav><a href="/">Home</a></nav>
  <article>
    <h1>Heading</h1>
    <p>First   paragraph.</p>
    <p>Second <b>bold</b> paragraph.</p>
  </article>
  <aside>Related links</aside>
  <footer>© 2024</footer>
</body></html>`,
			want: "Post\nHeading\nFirst   paragraph.\nSecond\nbold\nparagraph.",
		},
		{
			name: "blank lines and indentation dropped",
			html: "<div>\n\n   line one   \r\n\t\n line two\n</div>",
			want: "line one\nline two",
		},
		{
			name: "entities decoded",
			html: "<p>Fish &amp; chips &lt;3</p>",
			want: "Fish & chips <3",
		},
		{
			name: "comments ignored",
			html: "<p>kept<!-- hidden --></p>",
			want: "kept",
		},
		{
			name: "only boilerplate",
			html: "<nav>menu</nav><footer>foot</footer>",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fetcher.ExtractText(strings.NewReader(tt.html))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
