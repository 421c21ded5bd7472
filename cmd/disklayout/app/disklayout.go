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
	"context"
	goflag "flag"

	"github.com/spf13/cobra"

	"github.com/gardener/vmware-disk-layout/pkg/vmware/flags"
)

// NewDisklayoutCommand returns the disklayout root command.
func NewDisklayoutCommand() *cobra.Command {
	opts := NewOptions()

	cmd := &cobra.Command{
		Use:   "disklayout",
		Short: "Inspect the SCSI disk layout of a vSphere virtual machine",
		Long: `disklayout indexes the SCSI controllers of a virtual machine and the disks
attached to their slots, read from a hardware snapshot file.

It finds free slots, locates disks by device key, and plans where new
disks would be attached. Nothing is sent to vSphere.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(opts.Context(ctx))
			return nil
		},
	}

	opts.AddFlags(cmd.PersistentFlags())
	// glog registers its flags on the Go flag set
	cmd.PersistentFlags().AddGoFlagSet(goflag.CommandLine)

	cmd.AddCommand(
		newShowCommand(),
		newFreeSlotCommand(),
		newLocateCommand(),
		newPlanCommand(),
		newMetricsCommand(),
	)
	return cmd
}

// layoutFlag returns the layout flag of the command context.
func layoutFlag(cmd *cobra.Command) *flags.LayoutFlag {
	f, ctx := flags.NewLayoutFlag(cmd.Context())
	cmd.SetContext(ctx)
	return f
}
