package pdf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimplify(t *testing.T) {
	doc := `<html><head><title>Slip</title><style>p { color: red; }</style></head>
<body>
  <h1>Salary Slip</h1>
  <p>Employee: <strong>Asha Rao</strong></p>
  <table><tr><td>Gross</td><td>₹9000</td></tr></table>
</body></html>`

	got := Simplify(doc)

	assert.Equal(t, "<b>Salary Slip</b><br>Employee: <b>Asha Rao</b><br>Gross    Rs.9000", got)
}

func TestSimplify_CollapsesBreaks(t *testing.T) {
	got := Simplify("<p>one</p><p></p><div></div><p>two</p>")
	assert.Equal(t, "one<br><br>two", got)
}

func TestRenderer_ProducesPDF(t *testing.T) {
	r := NewRenderer(DefaultOptions())

	out, err := r.Render("Offer Letter", "<p>Dear <b>Asha</b>,</p><p>Welcome aboard.</p>")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}
