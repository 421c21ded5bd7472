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
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/gardener/vmware-disk-layout/pkg/vmware/helper/structure"
	"github.com/gardener/vmware-disk-layout/pkg/vmware/vmworkflow"
)

type planOptions struct {
	size      int
	count     int
	thin      bool
	diskMode  string
	label     string
	datastore string
}

// requestProperties turns the flags into attach request property maps. Only
// flags given on the command line are set, the request schema supplies the
// defaults for the others.
func (o *planOptions) requestProperties(cmd *cobra.Command) []map[string]interface{} {
	var props []map[string]interface{}
	for i := 0; i < o.count; i++ {
		p := map[string]interface{}{"size": o.size}
		if cmd.Flags().Changed("thin") {
			p["thin_provisioned"] = o.thin
		}
		if cmd.Flags().Changed("disk-mode") {
			p["disk_mode"] = o.diskMode
		}
		if o.label != "" {
			p["label"] = o.label
			if o.count > 1 {
				p["label"] = fmt.Sprintf("%s-%d", o.label, i)
			}
		}
		if o.datastore != "" {
			p["datastore"] = o.datastore
		}
		props = append(props, p)
	}
	return props
}

func newPlanCommand() *cobra.Command {
	o := &planOptions{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the device changes attaching new disks to the lowest free slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", o.count)
			}
			requests, err := vmworkflow.NewDiskAttachRequests(o.requestProperties(cmd))
			if err != nil {
				return err
			}

			f := layoutFlag(cmd)
			l, err := f.DeviceList()
			if err != nil {
				return err
			}
			layout, err := f.Layout()
			if err != nil {
				return err
			}
			spec, err := vmworkflow.ExpandDiskAttachSpec(l, layout, requests)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "OPERATION\tADDRESS\tKEY\tCONTROLLER KEY\tUNIT\tCAPACITY\tMODE\tTHIN")
			for _, s := range spec {
				cs := s.GetVirtualDeviceConfigSpec()
				disk := cs.Device.(*types.VirtualDisk)
				ctrlNr, slotNr, _ := layout.LocateDisk(disk.Key)
				backing := disk.Backing.(*types.VirtualDiskFlatVer2BackingInfo)
				fmt.Fprintf(w, "%s\t%d-%d\t%d\t%d\t%d\t%dGiB\t%s\t%v\n",
					cs.Operation, ctrlNr, slotNr, disk.Key, disk.ControllerKey, *disk.UnitNumber,
					structure.ByteToGiB(disk.CapacityInBytes), backing.DiskMode, structure.DeRef(backing.ThinProvisioned))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&o.size, "size", 0, "Size of each new disk, in GiB.")
	cmd.Flags().IntVar(&o.count, "count", 1, "Number of disks to attach.")
	cmd.Flags().BoolVar(&o.thin, "thin", true, "Thin provision the new disks.")
	cmd.Flags().StringVar(&o.diskMode, "disk-mode", string(types.VirtualDiskModePersistent), "Disk mode of the new disks.")
	cmd.Flags().StringVar(&o.label, "label", "", "Label of the new disks, suffixed with the disk index when attaching more than one.")
	cmd.Flags().StringVar(&o.datastore, "datastore", "", "Datastore of the new disk files.")
	_ = cmd.MarkFlagRequired("size")
	return cmd
}
