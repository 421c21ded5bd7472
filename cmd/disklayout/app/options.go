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
	"fmt"

	"github.com/spf13/pflag"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/gardener/vmware-disk-layout/pkg/vmware/flags"
)

// Options holds the settings shared by all disklayout commands.
type Options struct {
	// SnapshotPath is the hardware snapshot file to read.
	SnapshotPath string
	// VMName is used in metric labels instead of the snapshot name.
	VMName string
}

// NewOptions returns options with default values.
func NewOptions() *Options {
	return &Options{}
}

// AddFlags adds the flags of the options to fs.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.SnapshotPath, "snapshot", o.SnapshotPath, "Path of the hardware snapshot file (YAML or JSON) of the virtual machine.")
	fs.StringVar(&o.VMName, "vm-name", o.VMName, "Name of the virtual machine. Defaults to the name stored in the snapshot.")
}

// Validate checks the options.
func (o *Options) Validate() error {
	var errs []error
	if o.SnapshotPath == "" {
		errs = append(errs, fmt.Errorf("--snapshot is required"))
	}
	return utilerrors.NewAggregate(errs)
}

// Context returns a context carrying the options as pseudo flag set.
func (o *Options) Context(ctx context.Context) context.Context {
	return flags.ContextWithPseudoFlagset(ctx, &flags.Source{
		SnapshotPath: o.SnapshotPath,
		VMName:       o.VMName,
	})
}
