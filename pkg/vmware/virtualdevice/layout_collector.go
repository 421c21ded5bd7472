package virtualdevice

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "disklayout"

var (
	slotsUsedDesc = prometheus.NewDesc(
		prometheus.BuildFQName(metricsNamespace, "controller", "slots_used"),
		"Number of occupied disk slots on a SCSI controller.",
		[]string{"vm", "controller"}, nil,
	)
	slotsFreeDesc = prometheus.NewDesc(
		prometheus.BuildFQName(metricsNamespace, "controller", "slots_free"),
		"Number of free disk slots on a SCSI controller.",
		[]string{"vm", "controller"}, nil,
	)
	orphanDisksDesc = prometheus.NewDesc(
		prometheus.BuildFQName(metricsNamespace, "", "orphan_disks"),
		"Number of disks not attached to a known SCSI controller.",
		[]string{"vm"}, nil,
	)
)

type layoutCollector struct {
	vm     string
	layout *DiskLayout
}

// NewLayoutCollector returns a collector exporting slot usage of a layout.
// Values are read from the layout on every scrape, the caller has to make
// sure the layout is not modified concurrently.
func NewLayoutCollector(vm string, layout *DiskLayout) prometheus.Collector {
	return &layoutCollector{vm: vm, layout: layout}
}

// Describe implements prometheus.Collector.
func (c *layoutCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- slotsUsedDesc
	ch <- slotsFreeDesc
	ch <- orphanDisksDesc
}

// Collect implements prometheus.Collector.
func (c *layoutCollector) Collect(ch chan<- prometheus.Metric) {
	used := make(map[int]int)
	c.layout.Range(func(ctrlNr, slotNr int, disk *Disk) bool {
		used[ctrlNr]++
		return true
	})
	for _, ctrlNr := range c.layout.Controllers() {
		ctrl := strconv.Itoa(ctrlNr)
		ch <- prometheus.MustNewConstMetric(slotsUsedDesc, prometheus.GaugeValue, float64(used[ctrlNr]), c.vm, ctrl)
		ch <- prometheus.MustNewConstMetric(slotsFreeDesc, prometheus.GaugeValue, float64(SlotsPerController-used[ctrlNr]), c.vm, ctrl)
	}
	ch <- prometheus.MustNewConstMetric(orphanDisksDesc, prometheus.GaugeValue, float64(len(c.layout.Orphans())), c.vm)
}
