package panel

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/route"
)

// Instruction is one row of the turn-by-turn list.
type Instruction struct {
	Action string `json:"action"`
	Text   string `json:"text"`
}

// ArrowClass is the CSS class of the row's direction arrow.
func (i Instruction) ArrowClass() string { return "arrow " + i.Action }

// Summary holds the route totals shown below the instruction list.
type Summary struct {
	Distance   float64 `json:"distance"`
	TravelTime int64   `json:"travel_time"`
}

// DistanceText renders the distance line.
func (s Summary) DistanceText() string {
	return "Total distance: " + route.FormatDistance(s.Distance)
}

// TravelTimeText renders the travel time line.
func (s Summary) TravelTimeText() string {
	return "Travel Time: " + route.FormatTravelTime(s.TravelTime) + " (in current traffic)"
}

// Panel is the side panel next to the map: a heading, the instruction list and a summary.
type Panel struct {
	heading      string
	instructions []Instruction
	summary      *Summary
}

// New returns an empty panel.
func New() *Panel { return &Panel{} }

// Clear empties the panel.
func (p *Panel) Clear() {
	p.heading = ""
	p.instructions = nil
	p.summary = nil
}

// SetHeading sets the heading to the waypoint labels joined without a separator.
func (p *Panel) SetHeading(labels []string) {
	p.heading = strings.Join(labels, "")
}

// AddInstruction appends a row to the instruction list.
func (p *Panel) AddInstruction(action, text string) {
	p.instructions = append(p.instructions, Instruction{Action: action, Text: text})
}

// SetSummary sets the totals block.
func (p *Panel) SetSummary(distance float64, travelTime int64) {
	p.summary = &Summary{Distance: distance, TravelTime: travelTime}
}

// Heading returns the heading text.
func (p *Panel) Heading() string { return p.heading }

// Instructions returns a copy of the instruction rows.
func (p *Panel) Instructions() []Instruction {
	return append([]Instruction(nil), p.instructions...)
}

// Summary returns the totals block, or nil before a route was rendered.
func (p *Panel) Summary() *Summary { return p.summary }

// SummaryText returns the summary as plain text, or "" when unset.
func (p *Panel) SummaryText() string {
	if p.summary == nil {
		return ""
	}
	return p.summary.DistanceText() + "\n" + p.summary.TravelTimeText()
}

// Instruction text comes from the routing platform and carries its own
// <span> markup, so it is emitted unescaped.
var panelTemplate = template.Must(template.New("panel").Funcs(template.FuncMap{
	"markup": func(s string) template.HTML { return template.HTML(s) },
}).Parse(`{{if .Heading}}<h3>{{.Heading}}</h3>
{{end}}{{if .Instructions}}<ol class="directions" style="font-size: small; margin-left: 5%; margin-right: 5%">
{{range .Instructions}}<li><span class="{{.ArrowClass}}"></span><span>{{markup .Text}}</span></li>
{{end}}</ol>
{{end}}{{with .Summary}}<div style="font-size: small; margin-left: 5%; margin-right: 5%"><b>Total distance</b>: {{.DistanceValue}}m. <br/><b>Travel Time</b>: {{.TravelTimeValue}} (in current traffic)</div>
{{end}}`))

type summaryView struct {
	DistanceValue   string
	TravelTimeValue string
}

// HTML renders the panel as an HTML fragment.
func (p *Panel) HTML() (template.HTML, error) {
	data := struct {
		Heading      string
		Instructions []Instruction
		Summary      *summaryView
	}{Heading: p.heading, Instructions: p.instructions}

	if p.summary != nil {
		data.Summary = &summaryView{
			DistanceValue:   strings.TrimSuffix(route.FormatDistance(p.summary.Distance), "m."),
			TravelTimeValue: route.FormatTravelTime(p.summary.TravelTime),
		}
	}

	var buf bytes.Buffer
	if err := panelTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render panel: %w", err)
	}
	return template.HTML(buf.String()), nil
}
