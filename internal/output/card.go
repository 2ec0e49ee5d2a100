// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/staranto/dexctl/internal/catalog"
	"github.com/staranto/dexctl/internal/names"
)

// CardWidth is the wrap width of detail card text.
const CardWidth = 64

// statOrder is the in-game display order of base stats.
var statOrder = []string{"hp", "attack", "defense", "special-attack", "special-defense", "speed"}

// TypeColors maps elemental types to their conventional badge colors.
var TypeColors = map[string]string{
	"normal":   "#A8A878",
	"fire":     "#F08030",
	"water":    "#6890F0",
	"electric": "#F8D030",
	"grass":    "#78C850",
	"ice":      "#98D8D8",
	"fighting": "#C03028",
	"poison":   "#A040A0",
	"ground":   "#E0C068",
	"flying":   "#A890F0",
	"psychic":  "#F85888",
	"bug":      "#A8B820",
	"rock":     "#B8A038",
	"ghost":    "#705898",
	"dragon":   "#7038F8",
	"dark":     "#705848",
	"steel":    "#B8B8D0",
	"fairy":    "#EE99AC",
}

// Metres converts a height in decimetres to a display string.
func Metres(dm int) string {
	return humanize.FtoaWithDigits(float64(dm)/10, 1) + " m"
}

// Kilograms converts a weight in hectograms to a display string.
func Kilograms(hg int) string {
	return humanize.CommafWithDigits(float64(hg)/10, 1) + " kg"
}

// Number formats a catalog id as #025.
func Number(id int) string {
	return fmt.Sprintf("#%03d", id)
}

// StatNames returns the keys of stats in display order.
func StatNames(stats map[string]int) []string {
	out := make([]string, 0, len(stats))
	seen := make(map[string]bool, len(stats))
	for _, s := range statOrder {
		if _, ok := stats[s]; ok {
			out = append(out, s)
			seen[s] = true
		}
	}

	var rest []string
	for s := range stats {
		if !seen[s] {
			rest = append(rest, s)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// StageStrip renders the evolution line, bracketing the stage named current.
func StageStrip(stages []*catalog.StageCard, current string) string {
	if len(stages) == 0 {
		return "-"
	}

	parts := make([]string, 0, len(stages))
	for _, s := range stages {
		label := s.Display
		if label == "" {
			label = names.Format(s.Name)
		}
		if s.Name == current {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " → ")
}

// RenderDetail writes a detail card for d.
func RenderDetail(w io.Writer, d *catalog.Detail, color bool) error {
	_, err := fmt.Fprintln(w, DetailCard(d, color))
	return err
}

// DetailCard returns the rendered detail card for d.
func DetailCard(d *catalog.Detail, color bool) string {
	var (
		titleStyle = lipgloss.NewStyle().Bold(true)
		labelStyle = lipgloss.NewStyle().Width(10)
		dimStyle   = lipgloss.NewStyle()
		textStyle  = lipgloss.NewStyle().Width(CardWidth)
		boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	)

	if color {
		titleStyle = titleStyle.Foreground(lipgloss.Color("#f6be00"))
		dimStyle = dimStyle.Foreground(lipgloss.Color("#808080"))
	}

	lines := []string{
		titleStyle.Render(fmt.Sprintf("%s %s", Number(d.ID), d.Display)),
	}
	if d.Genus != "" {
		lines = append(lines, dimStyle.Render(d.Genus))
	}
	lines = append(lines, "")

	badges := make([]string, 0, len(d.Types))
	for _, t := range d.Types {
		badge := lipgloss.NewStyle().Padding(0, 1)
		if c, ok := TypeColors[t]; ok && color {
			badge = badge.Background(lipgloss.Color(c)).Foreground(lipgloss.Color("#ffffff"))
		}
		badges = append(badges, badge.Render(strings.ToUpper(t)))
	}

	lines = append(lines,
		labelStyle.Render("Type")+strings.Join(badges, " "),
		labelStyle.Render("Height")+Metres(d.Height),
		labelStyle.Render("Weight")+Kilograms(d.Weight),
	)

	if len(d.Abilities) > 0 {
		abilities := make([]string, 0, len(d.Abilities))
		for _, a := range d.Abilities {
			abilities = append(abilities, names.Format(a))
		}
		lines = append(lines, labelStyle.Render("Abilities")+strings.Join(abilities, ", "))
	}

	lines = append(lines, "", textStyle.Render(d.Description))

	if len(d.Stats) > 0 {
		lines = append(lines, "")
		total := 0
		for _, s := range StatNames(d.Stats) {
			v := d.Stats[s]
			total += v
			lines = append(lines, fmt.Sprintf("%-16s %3d %s", names.Format(s), v, statBar(v)))
		}
		lines = append(lines, fmt.Sprintf("%-16s %3s", "Total", humanize.Comma(int64(total))))
	}

	lines = append(lines, "", labelStyle.Render("Evolution")+StageStrip(d.Stages, d.Name))

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// statBar is a bar scaled so that 255, the stat ceiling, fills 30 cells.
func statBar(v int) string {
	n := v * 30 / 255
	if n < 1 && v > 0 {
		n = 1
	}
	if n > 30 {
		n = 30
	}
	return strings.Repeat("▇", n)
}
