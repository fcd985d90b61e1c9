package inventory

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/cloudbooter/cloudbooter/internal/oci/freetier"
)

// WriteDashboard prints the tenancy snapshot as tables plus a free-tier
// usage summary.
func (inv *Inventory) WriteDashboard(w io.Writer, region string) {
	fmt.Fprintf(w, "\nOCI Resource Inventory (%s)\n\n", region)

	writeTable(w, "AMD instances", []string{"NAME", "STATE", "PUBLIC IP", "PRIVATE IP"}, inv.AMDInstances.Len(), func(emit func([]string)) {
		for _, i := range inv.AMDInstances.Values() {
			emit([]string{i.DisplayName, i.State, i.PublicIP, i.PrivateIP})
		}
	})
	writeTable(w, "ARM instances", []string{"NAME", "STATE", "OCPUS", "MEMORY", "PUBLIC IP"}, inv.ARMInstances.Len(), func(emit func([]string)) {
		for _, i := range inv.ARMInstances.Values() {
			emit([]string{i.DisplayName, i.State, fmt.Sprintf("%d", i.OCPUs), fmt.Sprintf("%d GB", i.MemoryGB), i.PublicIP})
		}
	})
	writeTable(w, "VCNs", []string{"NAME", "CIDR"}, inv.VCNs.Len(), func(emit func([]string)) {
		for _, v := range inv.VCNs.Values() {
			emit([]string{v.DisplayName, v.CIDR})
		}
	})
	writeTable(w, "Subnets", []string{"NAME", "CIDR"}, inv.Subnets.Len(), func(emit func([]string)) {
		for _, s := range inv.Subnets.Values() {
			emit([]string{s.DisplayName, s.CIDR})
		}
	})
	writeTable(w, "Boot volumes", []string{"NAME", "SIZE"}, inv.BootVolumes.Len(), func(emit func([]string)) {
		for _, v := range inv.BootVolumes.Values() {
			emit([]string{v.DisplayName, humanize.IBytes(uint64(v.SizeGB) * humanize.GiByte)})
		}
	})
	writeTable(w, "Block volumes", []string{"NAME", "SIZE"}, inv.BlockVolumes.Len(), func(emit func([]string)) {
		for _, v := range inv.BlockVolumes.Values() {
			emit([]string{v.DisplayName, humanize.IBytes(uint64(v.SizeGB) * humanize.GiByte)})
		}
	})

	limits := freetier.Default()
	usage := inv.Usage()
	fmt.Fprintf(w, "Free-tier usage: %d/%d AMD instances, %d/%d ARM OCPUs, %d/%d GB ARM memory, %d/%d GB storage, %d/%d VCNs\n",
		usage.AMDInstances, limits.MaxAMDInstances,
		usage.ARMOCPUs, limits.MaxARMOCPUs,
		usage.ARMMemoryGB, limits.MaxARMMemoryGB,
		usage.StorageGB, limits.MaxStorageGB,
		usage.VCNs, limits.MaxVCNs)
}

func writeTable(w io.Writer, title string, headers []string, count int, fill func(emit func([]string))) {
	fmt.Fprintf(w, "%s:\n", title)
	if count == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	fill(func(row []string) {
		table.Append(row)
	})
	table.Render()
}
