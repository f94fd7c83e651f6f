package main

import (
	"fmt"
	"strings"

	"partify/internal/geometry"
	"partify/internal/palette"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

var schemesCmd = &cobra.Command{
	Use:   "schemes",
	Short: "List wave styles, blend modes and colour schemes",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(headerStyle.Render("Wave styles"))
		for _, s := range geometry.Styles {
			fmt.Printf("  %-10s %s\n", s, s.Label())
		}

		fmt.Println(headerStyle.Render("Blend modes"))
		for _, b := range palette.BlendModes {
			fmt.Printf("  %-10s %s\n", b, b.Label())
		}

		fmt.Println(headerStyle.Render("Colour schemes"))
		for _, s := range palette.Schemes {
			var swatch strings.Builder
			for _, c := range palette.For(s) {
				hex := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
				swatch.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  "))
			}
			fmt.Printf("  %-10s %-20s %s\n", s, s.Label(), swatch.String())
		}
	},
}
