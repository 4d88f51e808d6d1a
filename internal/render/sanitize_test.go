package render

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"harmless markup unchanged", "<strong>HTML</strong> allowed here", "<strong>HTML</strong> allowed here"},
		{"plain text", "just words", "just words"},
		{"empty", "", ""},
		{"whitespace kept", "  ", "  "},
		{"script removed", "<script>alert(1)</script>hi", "hi"},
		{"event handler removed", `<img src="x.png" onerror="alert(1)">`, `<img src="x.png"/>`},
		{"javascript href removed", `<a href="javascript:alert(1)">link</a>`, `<a>link</a>`},
		{"obfuscated javascript href removed", `<a href=" JaVaScRiPt:alert(1)">link</a>`, `<a>link</a>`},
		{"safe href kept", `<a href="https://example.com">link</a>`, `<a href="https://example.com">link</a>`},
		{"style attribute removed", `<p style="color:red">x</p>`, `<p>x</p>`},
		{"iframe removed", `<iframe src="https://evil"></iframe>ok`, "ok"},
		{"comment removed", "a<!-- hidden -->b", "ab"},
		{"data image allowed", `<img src="data:image/png;base64,AAAA">`, `<img src="data:image/png;base64,AAAA"/>`},
		{"data html blocked", `<a href="data:text/html,hi">x</a>`, `<a>x</a>`},
		{"control character before scheme", `<a href="&#1;javascript:alert(1)">x</a>`, `<a>x</a>`},
		{"tab inside scheme", "<a href=\"java\tscript:alert(1)\">x</a>", `<a>x</a>`},
		{"svg animate removed", `<svg><a><animate attributeName="href" values="javascript:alert(1)"/><text>t</text></a></svg>`, `<svg><a><text>t</text></a></svg>`},
		{"svg set removed", `<svg><set attributeName="href" to="javascript:alert(1)"/></svg>`, `<svg></svg>`},
		{"ampersand escaped", "a & b", "a &amp; b"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Sanitize(tc.in))
		})
	}
}
