package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the startup banner for the REPL.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Subtle gradient, teal into violet.
	s1 := termenv.String(`     _                  _           `).Foreground(p.Color("#2dd4bf"))
	s2 := termenv.String(`  __| | ___  _   _  __ _| | __ _ ___ `).Foreground(p.Color("#38bdf8"))
	s3 := termenv.String(` / _' |/ _ \| | | |/ _' | |/ _' / __|`).Foreground(p.Color("#60a5fa"))
	s4 := termenv.String(`| (_| | (_) | |_| | (_| | | (_| \__ \`).Foreground(p.Color("#818cf8"))
	s5 := termenv.String(` \__,_|\___/ \__,_|\__, |_|\__,_|___/`).Foreground(p.Color("#a78bfa"))
	s6 := termenv.String(`                   |___/             `).Foreground(p.Color("#c084fc"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)

	tag := termenv.String("  don't panic").Foreground(p.Color("#94a3b8")).Italic()
	if version != "" {
		tag = termenv.String("  don't panic · " + version).Foreground(p.Color("#94a3b8")).Italic()
	}
	fmt.Println(tag)
	fmt.Println()
}
