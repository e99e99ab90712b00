package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanel_SummaryText(t *testing.T) {
	p := New()
	assert.Empty(t, p.SummaryText())

	p.SetSummary(13410, 125)
	assert.Contains(t, p.SummaryText(), "13410m.")
	assert.Contains(t, p.SummaryText(), "2 minutes 5 seconds.")
}

func TestPanel_HeadingJoinsLabels(t *testing.T) {
	p := New()
	p.SetHeading([]string{"Hosur Road", "80 Feet Road"})
	assert.Equal(t, "Hosur Road80 Feet Road", p.Heading())
}

func TestPanel_HTML(t *testing.T) {
	p := New()
	p.SetHeading([]string{"A & B"})
	p.AddInstruction("depart", `Head <span class="heading">north</span>.`)
	p.AddInstruction("arrive", "Arrive.")
	p.SetSummary(1200, 125)

	html, err := p.HTML()
	require.NoError(t, err)
	out := string(html)

	assert.Contains(t, out, "<h3>A &amp; B</h3>")
	assert.Contains(t, out, `<span class="arrow depart"></span><span>Head <span class="heading">north</span>.</span>`)
	assert.Contains(t, out, `<span class="arrow arrive"></span>`)
	assert.Contains(t, out, "<b>Total distance</b>: 1200m.")
	assert.Contains(t, out, "<b>Travel Time</b>: 2 minutes 5 seconds. (in current traffic)")
}

func TestPanel_ClearAndEmptyHTML(t *testing.T) {
	p := New()
	p.AddInstruction("depart", "x")
	p.SetSummary(1, 1)
	p.Clear()

	assert.Empty(t, p.Instructions())
	assert.Nil(t, p.Summary())
	html, err := p.HTML()
	require.NoError(t, err)
	assert.Empty(t, string(html))
}
