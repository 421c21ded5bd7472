package virtualdevice

import (
	"strings"

	"github.com/gardener/vmware-disk-layout/pkg/vmware/helper/structure"
	"github.com/golang/glog"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/types"
)

// DeviceKind is the discriminant of a classified hardware device.
type DeviceKind int

const (
	DeviceKindOther DeviceKind = iota
	DeviceKindController
	DeviceKindDisk
)

func (k DeviceKind) String() string {
	switch k {
	case DeviceKindController:
		return "controller"
	case DeviceKindDisk:
		return "disk"
	}
	return "other"
}

// ControllerBus is the bus type served by a virtual controller.
type ControllerBus string

const (
	ControllerBusSCSI  ControllerBus = "scsi"
	ControllerBusIDE   ControllerBus = "ide"
	ControllerBusSATA  ControllerBus = "sata"
	ControllerBusNVMe  ControllerBus = "nvme"
	ControllerBusPCI   ControllerBus = "pci"
	ControllerBusOther ControllerBus = "other"
)

const (
	SubresourceControllerTypeLsiLogic    = "lsilogic"
	SubresourceControllerTypeLsiLogicSAS = "lsilogic-sas"
	SubresourceControllerTypeParaVirtual = "pvscsi"
	SubresourceControllerTypeBusLogic    = "buslogic"
	SubresourceControllerTypeUnknown     = "unknown"
)

// SCSIBusTypeAllowedValues are the SCSI controller types understood when
// reading and writing hardware snapshots.
var SCSIBusTypeAllowedValues = []string{
	SubresourceControllerTypeLsiLogic,
	SubresourceControllerTypeLsiLogicSAS,
	SubresourceControllerTypeParaVirtual,
	SubresourceControllerTypeBusLogic,
}

// Device is one entry of a virtual machine hardware device list after
// classification. It is implemented by *Controller, *Disk and *OtherDevice
// only.
type Device interface {
	Kind() DeviceKind
	device()
}

// Controller describes a virtual storage controller. Device is the handle the
// controller was classified from and may be nil for hand-built descriptors.
type Controller struct {
	Key       int32
	BusNumber int32
	Bus       ControllerBus
	Device    types.BaseVirtualController
}

// Kind implements Device.
func (c *Controller) Kind() DeviceKind { return DeviceKindController }

func (c *Controller) device() {}

// IsSCSI reports whether the controller is a virtual SCSI controller. Only
// SCSI controllers take part in a disk layout.
func (c *Controller) IsSCSI() bool {
	return c.Bus == ControllerBusSCSI
}

// Type returns the SCSI controller type name (pvscsi, lsilogic, ...) or the
// bus name for other controllers.
func (c *Controller) Type() string {
	if c.Device == nil {
		return string(c.Bus)
	}
	if c.IsSCSI() {
		return virtualSCSIControllerString(c.Device)
	}
	return string(c.Bus)
}

// UnitNumber returns the unit number the SCSI controller occupies on its own
// bus, or -1 if it is unknown.
func (c *Controller) UnitNumber() int32 {
	if sc, ok := c.Device.(types.BaseVirtualSCSIController); ok {
		return sc.GetVirtualSCSIController().ScsiCtlrUnitNumber
	}
	return -1
}

// Disk describes a virtual disk attached to a controller. UnitNumber is -1
// when the device did not report one.
type Disk struct {
	Key           int32
	ControllerKey int32
	UnitNumber    int32
	Device        *types.VirtualDisk
}

// Kind implements Device.
func (d *Disk) Kind() DeviceKind { return DeviceKindDisk }

func (d *Disk) device() {}

// Label returns the device label, e.g. "Hard disk 1".
func (d *Disk) Label() string {
	if d.Device == nil || d.Device.DeviceInfo == nil {
		return ""
	}
	if desc := d.Device.DeviceInfo.GetDescription(); desc != nil {
		return desc.Label
	}
	return ""
}

// FileName returns the datastore path of the disk backing, if file backed.
func (d *Disk) FileName() string {
	if d.Device == nil {
		return ""
	}
	if b, ok := d.Device.Backing.(types.BaseVirtualDeviceFileBackingInfo); ok {
		return b.GetVirtualDeviceFileBackingInfo().FileName
	}
	return ""
}

// CapacityInGiB reports the disk capacity, by first checking CapacityInBytes,
// and then falling back to CapacityInKB if that value is unavailable.
func (d *Disk) CapacityInGiB() int {
	if d.Device == nil {
		return 0
	}
	if d.Device.CapacityInBytes > 0 {
		return int(structure.ByteToGiB(d.Device.CapacityInBytes).(int64))
	}
	return int(structure.ByteToGiB(d.Device.CapacityInKB * 1024).(int64))
}

// OtherDevice is any device that is neither a controller nor a disk.
type OtherDevice struct {
	Device types.BaseVirtualDevice
}

// Kind implements Device.
func (o *OtherDevice) Kind() DeviceKind { return DeviceKindOther }

func (o *OtherDevice) device() {}

// ClassifyDevices converts a virtual device list into classified devices,
// preserving the order of the list.
func ClassifyDevices(l object.VirtualDeviceList) []Device {
	devices := make([]Device, 0, len(l))
	for _, device := range l {
		if device == nil {
			continue
		}
		devices = append(devices, classifyDevice(device))
	}
	glog.V(4).Infof("[DEBUG] ClassifyDevices: classified %d devices: %s", len(devices), DeviceListString(l))
	return devices
}

func classifyDevice(device types.BaseVirtualDevice) Device {
	switch d := device.(type) {
	case *types.VirtualDisk:
		unit := int32(-1)
		if d.UnitNumber != nil {
			unit = *d.UnitNumber
		}
		return &Disk{
			Key:           d.Key,
			ControllerKey: d.ControllerKey,
			UnitNumber:    unit,
			Device:        d,
		}
	case types.BaseVirtualController:
		vc := d.GetVirtualController()
		return &Controller{
			Key:       vc.Key,
			BusNumber: vc.BusNumber,
			Bus:       controllerBus(d),
			Device:    d,
		}
	}
	return &OtherDevice{Device: device}
}

// controllerBus determines the bus type of a controller. SCSI is checked
// first, all SCSI controller flavours share the BaseVirtualSCSIController
// interface.
func controllerBus(c types.BaseVirtualController) ControllerBus {
	switch c.(type) {
	case types.BaseVirtualSCSIController:
		return ControllerBusSCSI
	case *types.VirtualIDEController:
		return ControllerBusIDE
	case types.BaseVirtualSATAController:
		return ControllerBusSATA
	case *types.VirtualNVMEController:
		return ControllerBusNVMe
	case *types.VirtualPCIController:
		return ControllerBusPCI
	}
	return ControllerBusOther
}

// virtualSCSIControllerString prints the type name of the SCSI controller
// passed in.
func virtualSCSIControllerString(c types.BaseVirtualController) string {
	switch c.(type) {
	case *types.VirtualLsiLogicController:
		return SubresourceControllerTypeLsiLogic
	case *types.VirtualLsiLogicSASController:
		return SubresourceControllerTypeLsiLogicSAS
	case *types.ParaVirtualSCSIController:
		return SubresourceControllerTypeParaVirtual
	case *types.VirtualBusLogicController:
		return SubresourceControllerTypeBusLogic
	}
	return SubresourceControllerTypeUnknown
}

// DeviceListString pretty-prints each device in a virtual device list, used
// for logging purposes mainly.
func DeviceListString(l object.VirtualDeviceList) string {
	var names []string
	for _, d := range l {
		if d == nil {
			names = append(names, "<nil>")
		} else {
			names = append(names, l.Name(d))
		}
	}
	return strings.Join(names, ",")
}

// DeviceChangeString pretty-prints a slice of VirtualDeviceConfigSpec.
func DeviceChangeString(specs []types.BaseVirtualDeviceConfigSpec) string {
	var strs []string
	for _, v := range specs {
		spec := v.GetVirtualDeviceConfigSpec()
		strs = append(strs, string(spec.Operation)+": "+object.VirtualDeviceList{spec.Device}.Name(spec.Device))
	}
	return strings.Join(strs, ",")
}
