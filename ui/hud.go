package ui

import (
	"fmt"
	"time"

	"github.com/pthm-cable/backdrop/telemetry"
)

// HUDData holds all the data needed to render the stats panel.
type HUDData struct {
	FPS       int32
	Frame     uint64
	Particles int
	Links     int
	Dark      bool
	Width     float32
	Height    float32
}

// Row is one label/value line of a panel.
type Row struct {
	Label string
	Value string
}

// Rows returns the lines the stats panel shows.
func (d HUDData) Rows() []Row {
	themeName := "light"
	if d.Dark {
		themeName = "dark"
	}
	return []Row{
		{"FPS", fmt.Sprintf("%d", d.FPS)},
		{"Frame", fmt.Sprintf("%d", d.Frame)},
		{"Particles", fmt.Sprintf("%d", d.Particles)},
		{"Links", fmt.Sprintf("%d", d.Links)},
		{"Surface", fmt.Sprintf("%.0fx%.0f", d.Width, d.Height)},
		{"Theme", themeName},
	}
}

// HUD renders the diagnostic panels.
type HUD struct {
	renderer *Renderer
	width    int32
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
		width:    200,
	}
}

// SetTheme restyles the panels.
func (h *HUD) SetTheme(t Theme) {
	h.renderer.Theme = t
}

// Draw renders the stats panel in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	rows := data.Rows()
	padding := r.Theme.Padding
	height := int32(len(rows)+1)*r.Theme.LineHeight + padding*2

	r.DrawPanel(padding, padding, h.width, height)
	x, y := padding*2, padding*2
	y = r.DrawSectionHeader(x, y, "Backdrop")
	for _, row := range rows {
		y = r.DrawLabelValue(x, y, row.Label, row.Value)
	}
}

// phaseOrder fixes the display order of frame phases.
var phaseOrder = []string{telemetry.PhaseSimulate, telemetry.PhaseUI, telemetry.PhasePresent}

// PhaseShare is one phase's share of frame time.
type PhaseShare struct {
	Phase string
	Avg   time.Duration
	Share float32 // [0, 1]
}

// PhaseShares returns the known phases in display order.
func PhaseShares(stats telemetry.PerfStats) []PhaseShare {
	out := make([]PhaseShare, 0, len(phaseOrder))
	for _, name := range phaseOrder {
		out = append(out, PhaseShare{
			Phase: name,
			Avg:   stats.PhaseAvg[name],
			Share: float32(stats.PhasePct[name] / 100),
		})
	}
	return out
}

// DrawPerf renders the frame timing panel in the top-right corner.
func (h *HUD) DrawPerf(stats telemetry.PerfStats, screenW int32) {
	r := h.renderer
	shares := PhaseShares(stats)
	padding := r.Theme.Padding
	width := int32(260)
	height := int32(len(shares)+3)*r.Theme.LineHeight + padding*2
	x := screenW - width - padding

	r.DrawPanel(x, padding, width, height)
	x += padding
	y := padding * 2
	y = r.DrawSectionHeader(x, y, "Frame Timing")
	y = r.DrawLabelValue(x, y, "Work", stats.AvgFrameDuration.Round(time.Microsecond).String())
	y = r.DrawLabelValue(x, y, "Interval", fmt.Sprintf("%s (%.0f fps)", stats.FrameInterval.Round(time.Microsecond), stats.FPS))
	for _, s := range shares {
		y = r.DrawBar(x, y, s.Phase, s.Share, width-padding*2)
	}
}

// DrawHelp renders the key legend in the bottom-left corner.
func (h *HUD) DrawHelp(overlays *OverlayRegistry, screenH int32) {
	r := h.renderer
	lines := HelpLines(overlays)
	padding := r.Theme.Padding
	height := int32(len(lines)+1)*r.Theme.LineHeight + padding*2
	y := screenH - height - padding

	r.DrawPanel(padding, y, h.width+60, height)
	x := padding * 2
	y = r.DrawSectionHeader(x, y+padding, "Keys")
	for _, l := range lines {
		y = r.DrawLabelValue(x, y, l.Label, l.Value)
	}
}

// HelpLines lists the fixed key bindings followed by the overlay toggles.
func HelpLines(overlays *OverlayRegistry) []Row {
	lines := []Row{
		{"T", "Toggle theme"},
		{"S", "Save snapshot"},
	}
	for _, desc := range overlays.All() {
		if desc.KeyLabel == "" {
			continue
		}
		lines = append(lines, Row{desc.KeyLabel, desc.Name})
	}
	return lines
}

