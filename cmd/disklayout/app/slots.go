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

	"github.com/spf13/cobra"
)

func newFreeSlotCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "free-slot",
		Short: "Print the lowest free controller slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := layoutFlag(cmd).Layout()
			if err != nil {
				return err
			}
			ctrlNr, slotNr, err := layout.GetFreeSlot()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d-%d\n", ctrlNr, slotNr)
			return nil
		},
	}
}

func newLocateCommand() *cobra.Command {
	var key int32
	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Print the slot of the disk with the given device key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := layoutFlag(cmd).Layout()
			if err != nil {
				return err
			}
			ctrlNr, slotNr, ok := layout.LocateDisk(key)
			if !ok {
				return fmt.Errorf("no disk with key %d in the layout", key)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d-%d\n", ctrlNr, slotNr)
			return nil
		},
	}
	cmd.Flags().Int32Var(&key, "key", 0, "Device key of the disk.")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}
