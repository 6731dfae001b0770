package tui

import (
	"fmt"
	"io"
)

// PrintBanner writes the waypoint banner to w.
func PrintBanner(w io.Writer) {
	p := profileFor(w)
	lines := []struct {
		text  string
		color string
	}{
		{`                           _       _   `, "#818cf8"},
		{` __ __ ____ _ _  _ _ __  ___(_)_ _ | |_ `, "#a78bfa"},
		{` \ V  V / _' | || | '_ \/ _ \ | ' \|  _|`, "#c084fc"},
		{`  \_/\_/\__,_|\_, | .__/\___/_|_||_|\__|`, "#e879f9"},
		{`              |__/|_|                  `, "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
