package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	body := `<p>Dear {{name}},</p><p>Your CTC is {{ ctc }} ({{  ctc_words }}).</p><p>{{ office.name }}</p>`
	out := Render(body, map[string]string{
		"name":        "Asha & Co <Rao>",
		"ctc":         "Rs. 3,60,000.00",
		"office.name": "Pune",
	})

	assert.Equal(t, `<p>Dear Asha &amp; Co &lt;Rao&gt;,</p><p>Your CTC is Rs. 3,60,000.00 ().</p><p>Pune</p>`, out)
}

func TestRender_LeavesOtherBracesAlone(t *testing.T) {
	body := `{ name } {{ 1bad }} {{name}}`
	assert.Equal(t, `{ name } {{ 1bad }} x`, Render(body, map[string]string{"name": "x"}))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"ctc", "name"}, Placeholders(`{{name}} {{ ctc }} {{ name }}`))
	assert.Empty(t, Placeholders(`<p>static</p>`))
}

func TestKind(t *testing.T) {
	assert.True(t, KindSalarySlip.Valid())
	assert.False(t, Kind("memo").Valid())
	assert.Equal(t, "Relieving Letter", KindRelievingLetter.Title())
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
}
