package inventory

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

// WriteDashboard prints the inventory as a set of tables followed by
// cost-trap warnings for reserved but unattached static IPs.
func (inv *Inventory) WriteDashboard(w io.Writer, project, region string) {
	fmt.Fprintf(w, "\nGCP Resource Inventory (%s / %s)\n\n", project, region)

	writeTable(w, "VPCs", []string{"NAME", "AUTO SUBNETS"}, inv.VPCs.Len(), func(emit func([]string)) {
		for _, v := range inv.VPCs.Values() {
			emit([]string{v.Name, fmt.Sprintf("%t", v.AutoCreateSubnetworks)})
		}
	})
	writeTable(w, "Subnets", []string{"NAME", "CIDR", "REGION"}, inv.Subnets.Len(), func(emit func([]string)) {
		for _, s := range inv.Subnets.Values() {
			emit([]string{s.Name, s.IPCIDRRange, s.Region})
		}
	})
	writeTable(w, "Instances", []string{"NAME", "MACHINE TYPE", "STATUS", "ZONE"}, inv.Instances.Len(), func(emit func([]string)) {
		for _, i := range inv.Instances.Values() {
			emit([]string{i.Name, i.MachineType, i.Status, i.Zone})
		}
	})
	writeTable(w, "Disks", []string{"NAME", "TYPE", "SIZE", "ZONE"}, inv.Disks.Len(), func(emit func([]string)) {
		for _, d := range inv.Disks.Values() {
			emit([]string{d.Name, d.Type, diskSize(d.SizeGB), d.Zone})
		}
	})
	writeTable(w, "Static IPs", []string{"NAME", "ADDRESS", "STATUS"}, inv.StaticIPs.Len(), func(emit func([]string)) {
		for _, ip := range inv.StaticIPs.Values() {
			emit([]string{ip.Name, ip.Address, ip.Status})
		}
	})
	writeTable(w, "Buckets", []string{"NAME", "LOCATION"}, inv.Buckets.Len(), func(emit func([]string)) {
		for _, b := range inv.Buckets.Values() {
			emit([]string{b.Name, b.Location})
		}
	})
	writeTable(w, "Firestore DBs", []string{"NAME"}, inv.FirestoreDBs.Len(), func(emit func([]string)) {
		for _, db := range inv.FirestoreDBs.Values() {
			emit([]string{db.Name})
		}
	})

	for _, name := range inv.ReservedUnattachedIPs() {
		fmt.Fprintf(w, "COST TRAP: static IP %q is RESERVED but not attached and is incurring charges\n", name)
	}
}

// diskSize renders gcloud's sizeGb string readably. Unparseable values
// pass through untouched.
func diskSize(sizeGB string) string {
	n, err := strconv.ParseUint(sizeGB, 10, 64)
	if err != nil {
		return sizeGB
	}
	return humanize.IBytes(n * humanize.GiByte)
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
