// Package tui is the interactive terminal client for a ringchat session,
// built on bubbletea with lipgloss styling.
package tui
