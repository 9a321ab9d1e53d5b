package report

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/cloudmorph/cloudmorph/pkg/transform"
)

func TestPrint(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Print("stack.yaml", transform.Summary{
		SectionEntries:     map[string]int{"Outputs": 2, "Metadata": 1},
		ResourcesProcessed: 3,
		ResourcesReplaced:  1,
		ResourcesRemoved:   1,
		Subtransforms:      1,
	})

	out := buf.String()
	assert.Contains(t, out, "✓ stack.yaml")
	assert.Contains(t, out, "Metadata")
	assert.Contains(t, out, "1 entries merged")
	assert.Contains(t, out, "Outputs")
	assert.Contains(t, out, "2 entries merged")
	assert.Contains(t, out, "3 processed, 1 replaced")
	assert.Contains(t, out, "1 removed")
	assert.Contains(t, out, "1 applied")

	// Section lines come out in section order.
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Metadata")), bytes.Index(buf.Bytes(), []byte("Outputs")))
}

func TestPrint_NoChanges(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	NewPrinter(&buf).Print("stack.yaml", transform.Summary{})

	assert.Equal(t, "- stack.yaml\n", buf.String())
}
