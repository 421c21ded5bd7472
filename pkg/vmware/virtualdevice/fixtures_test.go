package virtualdevice

import (
	"fmt"

	"github.com/gardener/vmware-disk-layout/pkg/vmware/helper/structure"
	"github.com/vmware/govmomi/vim25/types"
)

func newPVSCSI(key, bus int32) *types.ParaVirtualSCSIController {
	return &types.ParaVirtualSCSIController{
		VirtualSCSIController: types.VirtualSCSIController{
			VirtualController: types.VirtualController{
				VirtualDevice: types.VirtualDevice{Key: key},
				BusNumber:     bus,
			},
			ScsiCtlrUnitNumber: 7,
		},
	}
}

func newLsiLogic(key, bus int32) *types.VirtualLsiLogicController {
	return &types.VirtualLsiLogicController{
		VirtualSCSIController: types.VirtualSCSIController{
			VirtualController: types.VirtualController{
				VirtualDevice: types.VirtualDevice{Key: key},
				BusNumber:     bus,
			},
			ScsiCtlrUnitNumber: 7,
		},
	}
}

func newIDE(key, bus int32) *types.VirtualIDEController {
	return &types.VirtualIDEController{
		VirtualController: types.VirtualController{
			VirtualDevice: types.VirtualDevice{Key: key},
			BusNumber:     bus,
		},
	}
}

func newAHCI(key, bus int32) *types.VirtualAHCIController {
	return &types.VirtualAHCIController{
		VirtualSATAController: types.VirtualSATAController{
			VirtualController: types.VirtualController{
				VirtualDevice: types.VirtualDevice{Key: key},
				BusNumber:     bus,
			},
		},
	}
}

func newVirtualDisk(key, ctrlKey, unit int32) *types.VirtualDisk {
	return &types.VirtualDisk{
		VirtualDevice: types.VirtualDevice{
			Key:           key,
			ControllerKey: ctrlKey,
			UnitNumber:    structure.Int32Ptr(unit),
			DeviceInfo: &types.Description{
				Label:   fmt.Sprintf("Hard disk %d", key),
				Summary: "16,777,216 KB",
			},
			Backing: &types.VirtualDiskFlatVer2BackingInfo{
				VirtualDeviceFileBackingInfo: types.VirtualDeviceFileBackingInfo{
					FileName: fmt.Sprintf("[datastore1] vm/vm_%d.vmdk", key),
				},
				DiskMode: string(types.VirtualDiskModePersistent),
			},
		},
		CapacityInKB: 16 * 1024 * 1024,
	}
}

func newVmxnet3(key int32) *types.VirtualVmxnet3 {
	return &types.VirtualVmxnet3{
		VirtualVmxnet: types.VirtualVmxnet{
			VirtualEthernetCard: types.VirtualEthernetCard{
				VirtualDevice: types.VirtualDevice{Key: key, ControllerKey: 100, UnitNumber: structure.Int32Ptr(7)},
			},
		},
	}
}

func scsiController(key int32) *Controller {
	return &Controller{Key: key, Bus: ControllerBusSCSI}
}

func disk(key, ctrlKey, unit int32) *Disk {
	return &Disk{Key: key, ControllerKey: ctrlKey, UnitNumber: unit}
}
