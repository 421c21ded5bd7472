package vmworkflow

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/golang/glog"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/types"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/gardener/vmware-disk-layout/pkg/vmware/helper/structure"
	"github.com/gardener/vmware-disk-layout/pkg/vmware/schema"
	"github.com/gardener/vmware-disk-layout/pkg/vmware/validation"
	"github.com/gardener/vmware-disk-layout/pkg/vmware/virtualdevice"
)

var diskModeAllowedValues = []string{
	string(types.VirtualDiskModePersistent),
	string(types.VirtualDiskModeNonpersistent),
	string(types.VirtualDiskModeUndoable),
	string(types.VirtualDiskModeIndependent_persistent),
	string(types.VirtualDiskModeIndependent_nonpersistent),
	string(types.VirtualDiskModeAppend),
}

// DiskAttachRequestSchema returns the property schema of a disk attach
// request.
func DiskAttachRequestSchema() schema.Map {
	return schema.Map{
		"size": {
			Type:         schema.TypeInt,
			Required:     true,
			Description:  "The size of the disk, in GiB.",
			ValidateFunc: validation.IntAtLeast(1),
		},
		"thin_provisioned": {
			Type:        schema.TypeBool,
			Default:     true,
			Description: "If true, this disk is thin provisioned, with space for the file being allocated on an as-needed basis.",
		},
		"eagerly_scrub": {
			Type:        schema.TypeBool,
			Default:     false,
			Description: "The virtual disk file zeroing policy when thin_provision is not true. The default is false, which lazily-zeros the disk, speeding up thick-provisioned disk creation time.",
		},
		"disk_mode": {
			Type:         schema.TypeString,
			Default:      string(types.VirtualDiskModePersistent),
			Description:  "The mode of this this virtual disk for purposes of writes and snapshotting. Can be one of append, independent_nonpersistent, independent_persistent, nonpersistent, persistent, or undoable.",
			ValidateFunc: validation.StringInSlice(diskModeAllowedValues, false),
		},
		"label": {
			Type:        schema.TypeString,
			Description: "A unique label for this disk.",
		},
		"datastore": {
			Type:        schema.TypeString,
			Description: "The name of the datastore the disk file is created on. The datastore of the virtual machine is used if not set.",
		},
	}
}

// DiskAttachRequest describes a new virtual disk to be attached to the first
// free slot of a disk layout.
type DiskAttachRequest struct {
	Size            int    `mapstructure:"size"`
	ThinProvisioned bool   `mapstructure:"thin_provisioned"`
	EagerlyScrub    bool   `mapstructure:"eagerly_scrub"`
	DiskMode        string `mapstructure:"disk_mode"`
	Label           string `mapstructure:"label"`
	Datastore       string `mapstructure:"datastore"`
}

// NewDiskAttachRequests decodes attach requests from property maps, filling in
// defaults for unset properties.
func NewDiskAttachRequests(props []map[string]interface{}) ([]DiskAttachRequest, error) {
	s := DiskAttachRequestSchema()
	var errs []error
	requests := make([]DiskAttachRequest, 0, len(props))
	for i, p := range props {
		prefix := fmt.Sprintf("disk.%d.", i)
		decoded, warns, es := s.Apply(prefix, p)
		for _, w := range warns {
			glog.Warningf("%s", w)
		}
		if len(es) > 0 {
			errs = append(errs, es...)
			continue
		}
		var r DiskAttachRequest
		if err := mapstructure.WeakDecode(decoded, &r); err != nil {
			errs = append(errs, fmt.Errorf("%s: %s", prefix, err))
			continue
		}
		requests = append(requests, r)
	}
	if len(errs) > 0 {
		return nil, utilerrors.NewAggregate(errs)
	}
	return requests, nil
}

// ExpandDiskAttachSpec places every requested disk on the lowest free slot of
// the layout and returns the device add operations for them. The unit number a
// SCSI controller occupies on its own bus is never handed out.
//
// The new disks are added to the layout. On error the layout keeps the disks
// placed before the failing request. No operation is sent to vSphere, the
// returned spec has to be applied by the caller.
func ExpandDiskAttachSpec(l object.VirtualDeviceList, layout *virtualdevice.DiskLayout, disks []DiskAttachRequest) ([]types.BaseVirtualDeviceConfigSpec, error) {
	glog.V(4).Infof("[DEBUG] ExpandDiskAttachSpec: Placing %d disks on layout %s", len(disks), layout)
	release := reserveControllerUnits(layout)
	defer release()

	var spec []types.BaseVirtualDeviceConfigSpec
	for i, r := range disks {
		ctrlNr, slotNr, err := layout.GetFreeSlot()
		if err != nil {
			return spec, errors.Wrapf(err, "placing disk %d of %d", i+1, len(disks))
		}
		ctlr := layout.GetController(ctrlNr)

		disk := newVirtualDisk(l.NewKey(), ctlr.Key, int32(slotNr), r)
		if err := layout.AddDisk(ctrlNr, slotNr, &virtualdevice.Disk{
			Key:           disk.Key,
			ControllerKey: disk.ControllerKey,
			UnitNumber:    *disk.UnitNumber,
			Device:        disk,
		}); err != nil {
			return spec, errors.Wrapf(err, "placing disk %d of %d", i+1, len(disks))
		}
		l = append(l, disk)

		dspec, err := object.VirtualDeviceList{disk}.ConfigSpec(types.VirtualDeviceConfigSpecOperationAdd)
		if err != nil {
			return spec, err
		}
		if len(dspec) != 1 {
			return spec, fmt.Errorf("incorrect number of config spec items returned - expected 1, got %d", len(dspec))
		}
		glog.V(4).Infof("[DEBUG] ExpandDiskAttachSpec: Disk %d placed at %d-%d (controller key %d, unit %d)",
			i+1, ctrlNr, slotNr, ctlr.Key, slotNr)
		spec = append(spec, dspec...)
	}

	glog.V(4).Infof("[DEBUG] ExpandDiskAttachSpec: Device config operations: %s", virtualdevice.DeviceChangeString(spec))
	if glog.V(5) {
		glog.Infof("[DEBUG] ExpandDiskAttachSpec: %s", spew.Sdump(spec))
	}
	return spec, nil
}

// reserveControllerUnits occupies the unit number of every SCSI controller in
// the layout with a placeholder. The returned func frees them again.
func reserveControllerUnits(layout *virtualdevice.DiskLayout) func() {
	type unit struct{ ctrlNr, slotNr int }
	var held []unit
	for _, ctrlNr := range layout.Controllers() {
		slotNr := int(layout.GetController(ctrlNr).UnitNumber())
		if slotNr < 0 || slotNr >= virtualdevice.SlotsPerController || layout.GetDisk(ctrlNr, slotNr) != nil {
			continue
		}
		if err := layout.AddDisk(ctrlNr, slotNr, &virtualdevice.Disk{Key: 0, UnitNumber: int32(slotNr)}); err != nil {
			glog.Warningf("cannot reserve controller unit %d-%d: %s", ctrlNr, slotNr, err)
			continue
		}
		held = append(held, unit{ctrlNr, slotNr})
	}
	return func() {
		for _, u := range held {
			layout.DelSlot(u.ctrlNr, u.slotNr)
		}
	}
}

func newVirtualDisk(key, ctlrKey, unit int32, r DiskAttachRequest) *types.VirtualDisk {
	disk := new(types.VirtualDisk)
	disk.Key = key
	disk.ControllerKey = ctlrKey
	disk.UnitNumber = structure.Int32Ptr(unit)
	if r.Label != "" {
		disk.DeviceInfo = &types.Description{Label: r.Label, Summary: r.Label}
	}

	backing := new(types.VirtualDiskFlatVer2BackingInfo)
	backing.DiskMode = r.DiskMode
	if backing.DiskMode == "" {
		backing.DiskMode = string(types.VirtualDiskModePersistent)
	}
	backing.ThinProvisioned = structure.BoolPtr(r.ThinProvisioned)
	backing.EagerlyScrub = structure.BoolPtr(r.EagerlyScrub)
	if r.Datastore != "" {
		backing.FileName = (&object.DatastorePath{Datastore: r.Datastore}).String()
	}
	disk.Backing = backing

	disk.CapacityInBytes = structure.GiBToByte(r.Size)
	disk.CapacityInKB = disk.CapacityInBytes / 1024
	return disk
}
