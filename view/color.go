package view

import (
	"github.com/fatih/color"
	"github.com/kcmvp/clanadmin/entity"
)

// Color is the tint of a chip.
type Color string

const (
	None    Color = ""
	Red     Color = "red"
	Green   Color = "green"
	Blue    Color = "blue"
	Purple  Color = "purple"
	Yellow  Color = "yellow"
	Neutral Color = "neutral"
)

// Class is the CSS class pair of the chip.
func (c Color) Class() string {
	if c == None {
		return ""
	}
	return "bg-" + string(c) + "-200 text-" + string(c) + "-800"
}

var terminal = map[Color]color.Attribute{
	Red:     color.FgRed,
	Green:   color.FgGreen,
	Blue:    color.FgBlue,
	Purple:  color.FgMagenta,
	Yellow:  color.FgYellow,
	Neutral: color.FgHiBlack,
}

// Sprint paints s for a terminal. fatih/color turns itself off when the
// output is not a TTY.
func (c Color) Sprint(s string) string {
	attr, ok := terminal[c]
	if !ok {
		return s
	}
	return color.New(attr).Sprint(s)
}

func RoleColor(role string) Color {
	switch role {
	case entity.RoleAdmin:
		return Red
	case entity.RoleOwner:
		return Green
	case entity.RoleManager:
		return Blue
	}
	return None
}

func StatusColor(status string) Color {
	switch status {
	case entity.StatusNew:
		return Green
	case entity.StatusOverdue:
		return Red
	case entity.StatusRefund:
		return Purple
	case entity.StatusDelivering:
		return Yellow
	case entity.StatusCompleted:
		return Neutral
	}
	return None
}
