/*
Copyright (c) 2017 SAP SE or an SAP affiliate company. All rights reserved.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package app

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gardener/vmware-disk-layout/pkg/vmware/virtualdevice"
)

const (
	outputTable = "table"
	outputYAML  = "yaml"
)

type diskView struct {
	Controller  int    `yaml:"controller"`
	Slot        int    `yaml:"slot"`
	Key         int32  `yaml:"key"`
	Label       string `yaml:"label,omitempty"`
	CapacityGiB int    `yaml:"capacity_gib"`
	FileName    string `yaml:"file_name,omitempty"`
}

type controllerView struct {
	Index     int    `yaml:"index"`
	Key       int32  `yaml:"key"`
	Type      string `yaml:"type"`
	BusNumber int32  `yaml:"bus_number"`
	FreeSlots int    `yaml:"free_slots"`
}

type orphanView struct {
	Key           int32 `yaml:"key"`
	ControllerKey int32 `yaml:"controller_key"`
	UnitNumber    int32 `yaml:"unit_number"`
}

type layoutView struct {
	VM          string           `yaml:"vm"`
	Controllers []controllerView `yaml:"controllers"`
	Disks       []diskView       `yaml:"disks"`
	Orphans     []orphanView     `yaml:"orphans,omitempty"`
}

func newLayoutView(vm string, layout *virtualdevice.DiskLayout) *layoutView {
	v := &layoutView{VM: vm}
	used := make(map[int]int)
	layout.Range(func(ctrlNr, slotNr int, disk *virtualdevice.Disk) bool {
		used[ctrlNr]++
		v.Disks = append(v.Disks, diskView{
			Controller:  ctrlNr,
			Slot:        slotNr,
			Key:         disk.Key,
			Label:       disk.Label(),
			CapacityGiB: disk.CapacityInGiB(),
			FileName:    disk.FileName(),
		})
		return true
	})
	for _, ctrlNr := range layout.Controllers() {
		ctrl := layout.GetController(ctrlNr)
		v.Controllers = append(v.Controllers, controllerView{
			Index:     ctrlNr,
			Key:       ctrl.Key,
			Type:      ctrl.Type(),
			BusNumber: ctrl.BusNumber,
			FreeSlots: virtualdevice.SlotsPerController - used[ctrlNr],
		})
	}
	for _, d := range layout.Orphans() {
		v.Orphans = append(v.Orphans, orphanView{Key: d.Key, ControllerKey: d.ControllerKey, UnitNumber: d.UnitNumber})
	}
	return v
}

func (v *layoutView) writeTable(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "VM\t%s\n\n", v.VM)
	fmt.Fprintln(w, "CONTROLLER\tKEY\tTYPE\tBUS\tFREE")
	for _, c := range v.Controllers {
		fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%d\n", c.Index, c.Key, c.Type, c.BusNumber, c.FreeSlots)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "ADDRESS\tKEY\tLABEL\tCAPACITY\tFILE")
	for _, d := range v.Disks {
		fmt.Fprintf(w, "%d-%d\t%d\t%s\t%dGiB\t%s\n", d.Controller, d.Slot, d.Key, d.Label, d.CapacityGiB, d.FileName)
	}
	if len(v.Orphans) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "ORPHAN\tCONTROLLER KEY\tUNIT")
		for _, o := range v.Orphans {
			fmt.Fprintf(w, "%d\t%d\t%d\n", o.Key, o.ControllerKey, o.UnitNumber)
		}
	}
	return w.Flush()
}

func newShowCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show controllers and disks in slot order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != outputTable && output != outputYAML {
				return fmt.Errorf("unsupported output format %q, use %s or %s", output, outputTable, outputYAML)
			}
			f := layoutFlag(cmd)
			layout, err := f.Layout()
			if err != nil {
				return err
			}
			vm, err := f.VMName()
			if err != nil {
				return err
			}
			v := newLayoutView(vm, layout)
			if output == outputYAML {
				data, err := yaml.Marshal(v)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return v.writeTable(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format, one of table or yaml.")
	return cmd
}
