// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styling degrades to plain text on non-TTY output and under NO_COLOR.
var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFE66D"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))
)

const columnWidth = 15

// Render formats the measurement as a fixed-width table: one header row of
// event labels with the elapsed-time label first, one data row of values.
// Purely presentational.
func (m Measurement[N]) Render() string {
	labels := make([]string, 0, len(m.samples)+1)
	values := make([]string, 0, len(m.samples)+1)
	labels = append(labels, "Elapsed [ns]")
	values = append(values, formatValue(m.elapsedNS))
	for _, s := range m.samples {
		labels = append(labels, s.Event.Label())
		values = append(values, formatValue(s.Value))
	}

	var header, row strings.Builder
	for i := range labels {
		w := columnWidth
		if n := len(labels[i]) + 2; n > w {
			w = n
		}
		if n := len(values[i]) + 2; n > w {
			w = n
		}
		header.WriteString(headerStyle.Render(fmt.Sprintf("%*s", w, labels[i])))
		row.WriteString(valueStyle.Render(fmt.Sprintf("%*s", w, values[i])))
	}
	return header.String() + "\n" + row.String() + "\n"
}

func formatValue[N Value](v N) string {
	switch x := any(v).(type) {
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', 3, 64)
	}
	return fmt.Sprint(v)
}
