package cli

import (
	"strings"
	"testing"

	"github.com/alexanderramin/habitual/internal/cli/formatter"
	"github.com/stretchr/testify/assert"
)

func TestValidateLabel(t *testing.T) {
	assert.NoError(t, validateLabel(""))
	assert.NoError(t, validateLabel("  7:00 AM  "))
	assert.NoError(t, validateLabel(strings.Repeat("é", maxLabelLen)))
	assert.Error(t, validateLabel(strings.Repeat("x", maxLabelLen+1)))
}

func TestFormTheme(t *testing.T) {
	plain, destructive := formTheme(false), formTheme(true)
	assert.Equal(t, formatter.ColorHeader, plain.Focused.Title.GetForeground())
	assert.Equal(t, formatter.ColorRed, destructive.Focused.Title.GetForeground())
	assert.Equal(t, formatter.ColorRed, destructive.Focused.FocusedButton.GetBackground())
}
