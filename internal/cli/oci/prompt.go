package oci

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cloudbooter/cloudbooter/internal/oci/freetier"
	"github.com/cloudbooter/cloudbooter/internal/oci/plan"
)

// Prompter gathers planning choices from the operator. Every prompt has
// a default, so pressing enter through the whole flow produces a valid
// plan.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompter creates a Prompter over the given streams.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

func (p *Prompter) readLine() string {
	if !p.in.Scan() {
		return ""
	}
	return strings.TrimSpace(p.in.Text())
}

// promptInt asks until the answer parses and falls inside [lo, hi].
// Empty input takes the default.
func (p *Prompter) promptInt(label string, lo, hi, def int) int {
	for {
		fmt.Fprintf(p.out, "%s [%d]: ", label, def)
		line := p.readLine()
		if line == "" {
			return def
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < lo || n > hi {
			fmt.Fprintf(p.out, "Enter a number between %d and %d.\n", lo, hi)
			continue
		}
		return n
	}
}

func (p *Prompter) promptString(label, def string) string {
	fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	if line := p.readLine(); line != "" {
		return line
	}
	return def
}

// ChooseStrategy shows the numbered strategy menu.
func (p *Prompter) ChooseStrategy() plan.Strategy {
	fmt.Fprintln(p.out, "Configuration options:")
	fmt.Fprintln(p.out, "  1) Use existing instances")
	fmt.Fprintln(p.out, "  2) Configure new instances")
	fmt.Fprintln(p.out, "  3) Maximum free-tier configuration")
	choice := p.promptInt("Choose configuration", 1, 3, 1)
	return plan.Strategy(choice)
}

// CustomRequest walks the operator through sizing each instance. OCPU
// and memory defaults shrink as earlier instances claim their share of
// the free allocation.
func (p *Prompter) CustomRequest(remaining freetier.Remaining, hasARMImage bool) *plan.CustomRequest {
	limits := freetier.Default()
	req := &plan.CustomRequest{}

	maxAMD := max(0, remaining.AMDInstances)
	req.AMDInstanceCount = p.promptInt("AMD instance count", 0, maxAMD, 0)
	req.AMDBootVolumeSizeGB = 50
	if req.AMDInstanceCount > 0 {
		req.AMDBootVolumeSizeGB = p.promptInt("AMD boot volume size (GB)", 50, 100, 50)
	}
	for i := 1; i <= req.AMDInstanceCount; i++ {
		req.AMDHostnames = append(req.AMDHostnames,
			p.promptString(fmt.Sprintf("AMD hostname %d", i), fmt.Sprintf("amd-instance-%d", i)))
	}

	if !hasARMImage || remaining.ARMOCPUs <= 0 {
		return req
	}

	armCount := p.promptInt("ARM instance count", 0, limits.MaxARMInstances, 1)
	remOCPUs := remaining.ARMOCPUs
	remMemory := remaining.ARMMemoryGB
	for i := 1; i <= armCount; i++ {
		hostname := p.promptString(fmt.Sprintf("ARM hostname %d", i), fmt.Sprintf("arm-instance-%d", i))
		ocpus := p.promptInt(fmt.Sprintf("ARM %d OCPUs", i), 1, max(1, remOCPUs), max(1, remOCPUs))
		maxMem := min(remMemory, ocpus*limits.MemoryPerOCPUGB)
		memory := p.promptInt(fmt.Sprintf("ARM %d memory GB", i), 1, max(1, maxMem), max(1, maxMem))
		boot := p.promptInt(fmt.Sprintf("ARM %d boot volume GB", i), 50, 200, 50)

		req.ARMInstances = append(req.ARMInstances, plan.ARMInstanceRequest{
			Hostname:     hostname,
			OCPUs:        ocpus,
			MemoryGB:     memory,
			BootVolumeGB: boot,
		})
		remOCPUs -= ocpus
		remMemory -= memory
	}
	return req
}
