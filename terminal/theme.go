package terminal

import "github.com/gdamore/tcell/v2"

// Theme holds every style the viewer draws with
type Theme struct {
	Background tcell.Style
	HUD        tcell.Style
	Help       tcell.Style
	Road       tcell.Style
	RoadOff    tcell.Style
	Node       tcell.Style
	Toll       tcell.Style
	Blocking   tcell.Style
	Open       tcell.Style
	StopLabel  tcell.Style
	Stopped    tcell.Style
	Notice     tcell.Style
	Paused     tcell.Style

	// Vehicles cycles by vehicle type name
	Vehicles []tcell.Style
}

// DefaultTheme is a dark palette readable on 256-colour terminals
func DefaultTheme() Theme {
	base := tcell.StyleDefault.Background(tcell.ColorBlack)
	return Theme{
		Background: base,
		HUD:        base.Foreground(tcell.ColorWhite).Bold(true),
		Help:       base.Foreground(tcell.ColorGray),
		Road:       base.Foreground(tcell.ColorDarkGray),
		RoadOff:    base.Foreground(tcell.ColorDarkRed).Dim(true),
		Node:       base.Foreground(tcell.ColorSilver),
		Toll:       base.Foreground(tcell.ColorGold),
		Blocking:   base.Foreground(tcell.ColorRed).Bold(true),
		Open:       base.Foreground(tcell.ColorGreen).Bold(true),
		StopLabel:  base.Foreground(tcell.ColorYellow),
		Stopped:    base.Foreground(tcell.ColorRed).Reverse(true),
		Notice:     base.Foreground(tcell.ColorLightCyan),
		Paused:     base.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow).Bold(true),
		Vehicles: []tcell.Style{
			base.Foreground(tcell.ColorAqua),
			base.Foreground(tcell.ColorFuchsia),
			base.Foreground(tcell.ColorOrange),
			base.Foreground(tcell.ColorLime),
			base.Foreground(tcell.ColorSkyblue),
			base.Foreground(tcell.ColorPink),
		},
	}
}

// VehicleStyle picks a stable colour for a type name
func (t Theme) VehicleStyle(typeName string) tcell.Style {
	var h uint32
	for i := 0; i < len(typeName); i++ {
		h = h*31 + uint32(typeName[i])
	}
	return t.Vehicles[h%uint32(len(t.Vehicles))]
}
