// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f6be00"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00c8f0"))
	stageStyle    = lipgloss.NewStyle().Reverse(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
)
