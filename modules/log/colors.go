// Copyright 2019 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package log

import (
	"fmt"
	"strconv"
	"strings"
)

// ColorAttribute defines a single SGR Code
type ColorAttribute int

// Base ColorAttributes
const (
	Reset ColorAttribute = iota
	Bold
	Faint
	Italic
	Underline
)

// Foreground text colors
const (
	FgBlack ColorAttribute = iota + 30
	FgRed
	FgGreen
	FgYellow
	FgBlue
	FgMagenta
	FgCyan
	FgWhite
)

// Background text colors
const (
	BgBlack ColorAttribute = iota + 40
	BgRed
	BgGreen
	BgYellow
	BgBlue
	BgMagenta
	BgCyan
	BgWhite
)

var colorAttributeToString = map[ColorAttribute]string{
	Reset:     "Reset",
	Bold:      "Bold",
	Faint:     "Faint",
	Italic:    "Italic",
	Underline: "Underline",
	FgBlack:   "FgBlack",
	FgRed:     "FgRed",
	FgGreen:   "FgGreen",
	FgYellow:  "FgYellow",
	FgBlue:    "FgBlue",
	FgMagenta: "FgMagenta",
	FgCyan:    "FgCyan",
	FgWhite:   "FgWhite",
	BgBlack:   "BgBlack",
	BgRed:     "BgRed",
	BgGreen:   "BgGreen",
	BgYellow:  "BgYellow",
	BgBlue:    "BgBlue",
	BgMagenta: "BgMagenta",
	BgCyan:    "BgCyan",
	BgWhite:   "BgWhite",
}

func (c ColorAttribute) String() string {
	return colorAttributeToString[c]
}

// ColorBytes converts a list of ColorAttributes to a byte array
func ColorBytes(attrs ...ColorAttribute) []byte {
	bytes := make([]byte, 0, 20)
	bytes = append(bytes, '\033', '[')
	for i, a := range attrs {
		if i > 0 {
			bytes = append(bytes, ';')
		}
		bytes = append(bytes, strconv.Itoa(int(a))...)
	}
	return append(bytes, 'm')
}

var resetBytes = ColorBytes(Reset)

// ColorString converts a list of ColorAttributes to a color string
func ColorString(attrs ...ColorAttribute) string {
	return string(ColorBytes(attrs...))
}

// ColorSprintf returns a colored string, the color is stripped when colorization is disabled
func ColorSprintf(colorize bool, attrs []ColorAttribute, format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	if !colorize {
		return msg
	}
	var sb strings.Builder
	sb.Write(ColorBytes(attrs...))
	sb.WriteString(msg)
	sb.Write(resetBytes)
	return sb.String()
}
