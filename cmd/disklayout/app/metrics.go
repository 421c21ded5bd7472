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
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/gardener/vmware-disk-layout/pkg/vmware/virtualdevice"
)

func newMetricsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print slot usage in the Prometheus text format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := layoutFlag(cmd)
			layout, err := f.Layout()
			if err != nil {
				return err
			}
			vm, err := f.VMName()
			if err != nil {
				return err
			}

			registry := prometheus.NewRegistry()
			if err := registry.Register(virtualdevice.NewLayoutCollector(vm, layout)); err != nil {
				return errors.Wrap(err, "registering layout collector")
			}
			mfs, err := registry.Gather()
			if err != nil {
				return errors.Wrap(err, "gathering metrics")
			}
			for _, mf := range mfs {
				if _, err := expfmt.MetricFamilyToText(cmd.OutOrStdout(), mf); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
