// Package snapshot reads point-in-time hardware snapshots of a virtual machine
// from YAML or JSON files and turns them into govmomi device lists.
package snapshot

import (
	"fmt"
	"io/ioutil"

	"github.com/golang/glog"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/gardener/vmware-disk-layout/pkg/vmware/schema"
	"github.com/gardener/vmware-disk-layout/pkg/vmware/validation"
	"github.com/gardener/vmware-disk-layout/pkg/vmware/virtualdevice"
)

// Device types understood in a snapshot besides the SCSI controller types.
const (
	DeviceTypeIDE     = "ide"
	DeviceTypeSATA    = "sata"
	DeviceTypeNVMe    = "nvme"
	DeviceTypeDisk    = "disk"
	DeviceTypeCdrom   = "cdrom"
	DeviceTypeVmxnet3 = "vmxnet3"
	DeviceTypeE1000   = "e1000"
)

// DeviceTypeAllowedValues lists every device type a snapshot record may have.
var DeviceTypeAllowedValues = append(append([]string{}, virtualdevice.SCSIBusTypeAllowedValues...),
	DeviceTypeIDE,
	DeviceTypeSATA,
	DeviceTypeNVMe,
	DeviceTypeDisk,
	DeviceTypeCdrom,
	DeviceTypeVmxnet3,
	DeviceTypeE1000,
)

// DeviceRecordSchema returns the property schema of a device record.
func DeviceRecordSchema() schema.Map {
	return schema.Map{
		"type": {
			Type:         schema.TypeString,
			Required:     true,
			Description:  "The device type, e.g. pvscsi or disk.",
			ValidateFunc: validation.StringInSlice(DeviceTypeAllowedValues, false),
		},
		"key": {
			Type:         schema.TypeInt,
			Required:     true,
			Description:  "The device key, unique within the virtual machine.",
			ValidateFunc: validation.NoZeroValues,
		},
		"bus_number": {
			Type:         schema.TypeInt,
			Default:      0,
			Description:  "The bus number of a controller.",
			ValidateFunc: validation.IntAtLeast(0),
		},
		"controller_key": {
			Type:        schema.TypeInt,
			Description: "The key of the controller a device is attached to.",
		},
		"unit_number": {
			Type:        schema.TypeInt,
			Description: "The unit number of a device on its controller.",
		},
		"capacity_gb": {
			Type:         schema.TypeInt,
			Default:      0,
			Description:  "The size of a disk, in GiB.",
			ValidateFunc: validation.IntAtLeast(0),
		},
		"label": {
			Type:        schema.TypeString,
			Description: "The label shown for the device.",
		},
		"file_name": {
			Type:        schema.TypeString,
			Description: "The datastore path of a disk backing.",
		},
	}
}

// DeviceRecord is one device of a hardware snapshot.
type DeviceRecord struct {
	Type          string `mapstructure:"type" yaml:"type"`
	Key           int32  `mapstructure:"key" yaml:"key"`
	BusNumber     int32  `mapstructure:"bus_number" yaml:"bus_number,omitempty"`
	ControllerKey int32  `mapstructure:"controller_key" yaml:"controller_key,omitempty"`
	UnitNumber    *int32 `mapstructure:"unit_number" yaml:"unit_number,omitempty"`
	CapacityGB    int    `mapstructure:"capacity_gb" yaml:"capacity_gb,omitempty"`
	Label         string `mapstructure:"label" yaml:"label,omitempty"`
	FileName      string `mapstructure:"file_name" yaml:"file_name,omitempty"`
}

// Snapshot is the hardware device list of one virtual machine.
type Snapshot struct {
	Name    string         `yaml:"name"`
	Devices []DeviceRecord `yaml:"devices"`
}

type rawSnapshot struct {
	Name    string                   `yaml:"name"`
	Devices []map[string]interface{} `yaml:"devices"`
}

// Parse decodes a snapshot document. Every device record is checked against
// DeviceRecordSchema, all record problems are reported together.
func Parse(data []byte) (*Snapshot, error) {
	var raw rawSnapshot
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decoding snapshot")
	}

	recordSchema := DeviceRecordSchema()
	s := &Snapshot{Name: raw.Name}
	var errs []error
	for i, rm := range raw.Devices {
		prefix := fmt.Sprintf("devices[%d].", i)
		props, warns, es := recordSchema.Apply(prefix, rm)
		for _, w := range warns {
			glog.Warningf("snapshot %s: %s", raw.Name, w)
		}
		if len(es) > 0 {
			errs = append(errs, es...)
			continue
		}
		var r DeviceRecord
		if err := mapstructure.WeakDecode(props, &r); err != nil {
			errs = append(errs, fmt.Errorf("%s: %s", prefix, err))
			continue
		}
		s.Devices = append(s.Devices, r)
	}
	if len(errs) > 0 {
		return nil, errors.Wrap(utilerrors.NewAggregate(errs), "invalid device records")
	}
	glog.V(4).Infof("[DEBUG] Parse: snapshot %q with %d devices", s.Name, len(s.Devices))
	return s, nil
}

// Load reads, parses and validates the snapshot file at path.
func Load(path string) (*Snapshot, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading snapshot %s", path)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing snapshot %s", path)
	}
	if errs := Validate(s); len(errs) > 0 {
		return nil, errors.Wrapf(errs.ToAggregate(), "validating snapshot %s", path)
	}
	return s, nil
}

// Marshal encodes the snapshot as YAML.
func (s *Snapshot) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}
