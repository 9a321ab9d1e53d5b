// Copyright 2026 cloudmorph LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package report renders transform summaries for the console. The core
// never logs; the CLI turns each pass's Summary into a short colored
// report here.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/cloudmorph/cloudmorph/pkg/template"
	"github.com/cloudmorph/cloudmorph/pkg/transform"
)

// 🎨 Display configuration
const (
	lineIndent   = 4  // spaces to indent detail lines
	subjectWidth = 20 // base width for the subject column
)

// 🎯 Printer writes transform reports to a console writer.
type Printer struct {
	console io.Writer
}

// 🏭 NewPrinter creates a new printer.
func NewPrinter(console io.Writer) *Printer {
	return &Printer{console: console}
}

// 📝 Print renders one transformed template's summary. The name is the
// input's display name.
func (p *Printer) Print(name string, sum transform.Summary) {
	header := color.New(color.Bold).Sprint(name)
	if !sum.Changed() {
		fmt.Fprintf(p.console, "%s %s\n",
			color.New(color.FgYellow).Sprint("-"),
			header)
		return
	}
	fmt.Fprintf(p.console, "%s %s\n",
		color.New(color.FgGreen).Sprint("✓"),
		header)

	for _, section := range template.Sections {
		n := sum.SectionEntries[section]
		if n == 0 {
			continue
		}
		p.detail(color.FgCyan, '⟳', section, "%d entries merged", n)
	}
	if sum.ResourcesProcessed > 0 {
		p.detail(color.FgBlue, '•', "Resources", "%d processed, %d replaced", sum.ResourcesProcessed, sum.ResourcesReplaced)
	}
	if sum.ResourcesRemoved > 0 {
		p.detail(color.FgRed, '✗', "Resources", "%d removed", sum.ResourcesRemoved)
	}
	if sum.Subtransforms > 0 {
		p.detail(color.FgMagenta, '◆', "Subtransforms", "%d applied", sum.Subtransforms)
	}
}

func (p *Printer) detail(attr color.Attribute, symbol rune, subject, format string, args ...any) {
	fmt.Fprintf(p.console, "%*s%s %-*s %s\n",
		lineIndent, "",
		color.New(attr).Sprint(string(symbol)),
		subjectWidth, subject,
		fmt.Sprintf(format, args...))
}
