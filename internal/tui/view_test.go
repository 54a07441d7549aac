package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestCell_FitsDisplayWidth(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
	}{
		{name: "short ascii", input: "Nighthawks", width: 16},
		{name: "long ascii", input: "A Sunday on La Grande Jatte, 1884", width: 16},
		{name: "wide runes", input: "富嶽三十六景 神奈川沖浪裏 葛飾北斎", width: 16},
		{name: "wide runes odd width", input: "神奈川沖浪裏", width: 7},
		{name: "newline", input: "line one\nline two", width: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cell(tt.input, tt.width)
			assert.Equal(t, tt.width, ansi.StringWidth(got), "cell %q", got)
			assert.NotContains(t, got, "\n")
		})
	}
}

func TestCell_KeepsFittingText(t *testing.T) {
	got := cell("Nighthawks", 16)
	assert.Equal(t, "Nighthawks", strings.TrimRight(got, " "))
}
