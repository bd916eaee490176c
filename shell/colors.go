package shell

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/domino14/guobiao/analyzer"
)

var (
	limitColor  = color.New(color.FgRed, color.Bold)
	bigColor    = color.New(color.FgYellow, color.Bold)
	middleColor = color.New(color.FgGreen)
	smallColor  = color.New(color.FgCyan)
	totalColor  = color.New(color.Bold)
)

// fanColor picks a colour by the value of one instance of a fan.
func fanColor(value int) *color.Color {
	switch {
	case value >= 64:
		return limitColor
	case value >= 16:
		return bigColor
	case value >= 6:
		return middleColor
	}
	return smallColor
}

func fanText(hand string, resp *analyzer.FanResponse, chinese bool) string {
	var sb strings.Builder
	sb.WriteString(totalColor.Sprintf("%s: %d fan", hand, resp.Total))
	fmt.Fprintf(&sb, " (%s)", resp.Form)
	if resp.Division != "" {
		fmt.Fprintf(&sb, " %s", resp.Division)
	}
	sb.WriteString("\n")
	for _, f := range resp.Fans {
		name := f.Name
		if chinese {
			name = f.Chinese
		}
		value := f.Points / max(f.Count, 1)
		line := fmt.Sprintf("  %-36s%4d", name, value)
		if f.Count > 1 {
			line += fmt.Sprintf(" x%d", f.Count)
		}
		sb.WriteString(fanColor(value).Sprint(line))
		sb.WriteString("\n")
	}
	return sb.String()
}

func shantenText(n int) string {
	switch n {
	case -1:
		return color.GreenString("win")
	case 0:
		return "ready"
	}
	return fmt.Sprintf("%d", n)
}
