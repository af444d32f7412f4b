package printer

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func setColor(enabled bool) {
	globalColorState.enabled = enabled
	color.NoColor = !enabled
}

func TestInitColorState_ExplicitTrue(t *testing.T) {
	setColor(false)

	enabled := true
	InitColorState(&enabled, os.Stdout)

	assert.True(t, IsColorEnabled())
	assert.False(t, color.NoColor)
}

func TestInitColorState_ExplicitFalse(t *testing.T) {
	setColor(true)

	enabled := false
	InitColorState(&enabled, os.Stdout)

	assert.False(t, IsColorEnabled())
	assert.True(t, color.NoColor)
}

func TestInitColorState_NOCOLOREnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	setColor(true)

	InitColorState(nil, os.Stdout)

	assert.False(t, IsColorEnabled())
	assert.True(t, color.NoColor)
}

func TestInitColorState_UnknownWriter(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	setColor(true)

	InitColorState(nil, &bytes.Buffer{})

	assert.False(t, IsColorEnabled())
	assert.True(t, color.NoColor)
}

func TestColorLevel(t *testing.T) {
	tests := []struct {
		name         string
		level        string
		colorEnabled bool
	}{
		{"ERROR with color", "ERROR", true},
		{"ERROR without color", "ERROR", false},
		{"WARN with color", "WARN", true},
		{"INFO with color", "INFO", true},
		{"DEBUG with color", "DEBUG", true},
		{"lowercase error", "error", true},
		{"unknown level", "CUSTOM", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setColor(tt.colorEnabled)

			result := ColorLevel(tt.level)
			assert.Contains(t, result, tt.level)
			if !tt.colorEnabled {
				assert.Equal(t, tt.level, result)
			}
		})
	}

	setColor(true)
	assert.NotEqual(t, "ERROR", ColorLevel("ERROR"))
	assert.Equal(t, "CUSTOM", ColorLevel("CUSTOM"))
}

func TestColorString(t *testing.T) {
	text := "test message"

	for name := range namedColors {
		t.Run("color_"+name, func(t *testing.T) {
			setColor(true)
			assert.Contains(t, ColorString(name, text), text)

			setColor(false)
			assert.Equal(t, text, ColorString(name, text))
		})
	}

	setColor(true)
	assert.Equal(t, text, ColorString("invalid", text))
}

func TestHelpersWithoutColor(t *testing.T) {
	setColor(false)
	assert.Equal(t, "12:34:56", ColorTimestamp("12:34:56"))
	assert.Equal(t, "loki", ColorDatasource("loki"))
	assert.Equal(t, "important", Bold("important"))

	var buf bytes.Buffer
	Error(&buf, errors.New("boom"))
	assert.Equal(t, "Error: boom\n", buf.String())
}

func TestColorFunctionsConcurrent(_ *testing.T) {
	done := make(chan bool, 2)
	go func() {
		for i := 0; i < 100; i++ {
			ColorLevel("ERROR")
		}
		done <- true
	}()
	go func() {
		for i := 0; i < 100; i++ {
			ColorString("red", "message")
		}
		done <- true
	}()
	<-done
	<-done
}
