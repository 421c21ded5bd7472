package snapshot

import (
	"github.com/golang/glog"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/gardener/vmware-disk-layout/pkg/vmware/helper/structure"
	"github.com/gardener/vmware-disk-layout/pkg/vmware/virtualdevice"
)

// VirtualDeviceList converts the records to govmomi devices, in file order.
// Records of unknown type are skipped, run Validate first to catch them.
func (s *Snapshot) VirtualDeviceList() object.VirtualDeviceList {
	l := make(object.VirtualDeviceList, 0, len(s.Devices))
	for i := range s.Devices {
		d := s.Devices[i].virtualDevice()
		if d == nil {
			glog.Warningf("snapshot %s: skipping device key %d of unknown type %q", s.Name, s.Devices[i].Key, s.Devices[i].Type)
			continue
		}
		l = append(l, d)
	}
	glog.V(4).Infof("[DEBUG] VirtualDeviceList: %s", virtualdevice.DeviceListString(l))
	return l
}

func (r *DeviceRecord) baseDevice() types.VirtualDevice {
	d := types.VirtualDevice{
		Key:           r.Key,
		ControllerKey: r.ControllerKey,
	}
	if r.UnitNumber != nil {
		d.UnitNumber = structure.Int32Ptr(*r.UnitNumber)
	}
	if r.Label != "" {
		d.DeviceInfo = &types.Description{Label: r.Label, Summary: r.Label}
	}
	return d
}

func (r *DeviceRecord) scsiController() types.VirtualSCSIController {
	return types.VirtualSCSIController{
		VirtualController: types.VirtualController{
			VirtualDevice: r.baseDevice(),
			BusNumber:     r.BusNumber,
		},
		SharedBus:          types.VirtualSCSISharingNoSharing,
		ScsiCtlrUnitNumber: 7,
	}
}

func (r *DeviceRecord) controller() types.VirtualController {
	return types.VirtualController{
		VirtualDevice: r.baseDevice(),
		BusNumber:     r.BusNumber,
	}
}

func (r *DeviceRecord) virtualDevice() types.BaseVirtualDevice {
	switch r.Type {
	case virtualdevice.SubresourceControllerTypeParaVirtual:
		return &types.ParaVirtualSCSIController{VirtualSCSIController: r.scsiController()}
	case virtualdevice.SubresourceControllerTypeLsiLogic:
		return &types.VirtualLsiLogicController{VirtualSCSIController: r.scsiController()}
	case virtualdevice.SubresourceControllerTypeLsiLogicSAS:
		return &types.VirtualLsiLogicSASController{VirtualSCSIController: r.scsiController()}
	case virtualdevice.SubresourceControllerTypeBusLogic:
		return &types.VirtualBusLogicController{VirtualSCSIController: r.scsiController()}
	case DeviceTypeIDE:
		return &types.VirtualIDEController{VirtualController: r.controller()}
	case DeviceTypeSATA:
		return &types.VirtualAHCIController{VirtualSATAController: types.VirtualSATAController{VirtualController: r.controller()}}
	case DeviceTypeNVMe:
		return &types.VirtualNVMEController{VirtualController: r.controller()}
	case DeviceTypeDisk:
		return r.virtualDisk()
	case DeviceTypeCdrom:
		return &types.VirtualCdrom{VirtualDevice: r.baseDevice()}
	case DeviceTypeVmxnet3:
		return &types.VirtualVmxnet3{VirtualVmxnet: types.VirtualVmxnet{VirtualEthernetCard: types.VirtualEthernetCard{VirtualDevice: r.baseDevice()}}}
	case DeviceTypeE1000:
		return &types.VirtualE1000{VirtualEthernetCard: types.VirtualEthernetCard{VirtualDevice: r.baseDevice()}}
	}
	return nil
}

func (r *DeviceRecord) virtualDisk() *types.VirtualDisk {
	d := &types.VirtualDisk{
		VirtualDevice:   r.baseDevice(),
		CapacityInKB:    structure.GiBToKB(r.CapacityGB),
		CapacityInBytes: structure.GiBToByte(r.CapacityGB),
	}
	backing := &types.VirtualDiskFlatVer2BackingInfo{
		DiskMode: string(types.VirtualDiskModePersistent),
	}
	backing.FileName = r.FileName
	d.Backing = backing
	return d
}
