package virtualdevice

import (
	"fmt"
	"sort"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/vmware/govmomi/object"
)

// SlotsPerController is the number of addressable units on a virtual SCSI
// controller.
const SlotsPerController = 16

// Slot is a single disk position in a DiskLayout.
type Slot struct {
	Controller int
	Slot       int
	Disk       *Disk
}

// String returns the "ctrl-slot" address of the slot.
func (s Slot) String() string {
	return fmt.Sprintf("%d-%d", s.Controller, s.Slot)
}

type controllerEntry struct {
	ctrl  *Controller
	slots map[int]*Disk
}

// DiskLayout indexes the SCSI controllers of a virtual machine and the disks
// attached to their slots. Controllers are numbered in the order they appear
// in the hardware device list, slots are taken from the unit number of the
// disks.
//
// A DiskLayout is not safe for concurrent use. Controller and disk
// descriptors are stored as given and never modified.
type DiskLayout struct {
	layout  map[int]*controllerEntry
	orphans []*Disk
}

// NewDiskLayout returns an empty layout.
func NewDiskLayout() *DiskLayout {
	return &DiskLayout{layout: make(map[int]*controllerEntry)}
}

// BuildFromDeviceList builds the layout of a virtual device list, as found in
// the hardware section of a virtual machine configuration.
func BuildFromDeviceList(l object.VirtualDeviceList) (*DiskLayout, error) {
	return Build(ClassifyDevices(l))
}

// Build builds the layout from classified devices. Every SCSI controller gets
// the next controller index, disks are attached to the controller whose key
// they reference. Disks not referencing a SCSI controller are not part of the
// layout and are reported by Orphans.
func Build(devices []Device) (*DiskLayout, error) {
	var ctrls []*Controller
	var disks []*Disk
	for _, device := range devices {
		switch d := device.(type) {
		case *Controller:
			if d.IsSCSI() {
				ctrls = append(ctrls, d)
			}
		case *Disk:
			disks = append(disks, d)
		}
	}

	l := NewDiskLayout()
	attached := make(map[*Disk]bool, len(disks))
	for ctrlNr, ctrl := range ctrls {
		if err := l.AddController(ctrlNr, ctrl); err != nil {
			return nil, err
		}
		for _, disk := range disks {
			if disk.ControllerKey != ctrl.Key || attached[disk] {
				continue
			}
			if disk.UnitNumber < 0 {
				// no unit number, the disk cannot be addressed
				continue
			}
			if err := l.AddDisk(ctrlNr, int(disk.UnitNumber), disk); err != nil {
				return nil, errors.Wrapf(err, "building layout for disk key %d", disk.Key)
			}
			attached[disk] = true
		}
	}

	for _, disk := range disks {
		if attached[disk] {
			continue
		}
		glog.Warningf("disk key %d (unit %d) is not attached to a known SCSI controller (controller key %d), skipping it",
			disk.Key, disk.UnitNumber, disk.ControllerKey)
		l.orphans = append(l.orphans, disk)
	}
	glog.V(4).Infof("[DEBUG] Build: layout %s with %d controllers, %d disks, %d orphans",
		l, len(l.layout), l.Len(), len(l.orphans))
	return l, nil
}

// AddController registers ctrl under the controller index ctrlNr.
func (l *DiskLayout) AddController(ctrlNr int, ctrl *Controller) error {
	if ctrl == nil {
		return errors.Wrapf(ErrInvalidReference, "controller %d is nil", ctrlNr)
	}
	if ctrlNr < 0 {
		return errors.Wrapf(ErrInvalidReference, "controller index %d is negative", ctrlNr)
	}
	if _, ok := l.layout[ctrlNr]; ok {
		return errors.Wrapf(ErrDuplicateKey, "controller %d", ctrlNr)
	}
	l.layout[ctrlNr] = &controllerEntry{
		ctrl:  ctrl,
		slots: make(map[int]*Disk),
	}
	return nil
}

// AddDisk registers disk at slot slotNr of controller ctrlNr.
func (l *DiskLayout) AddDisk(ctrlNr, slotNr int, disk *Disk) error {
	entry, ok := l.layout[ctrlNr]
	if !ok {
		return errors.Wrapf(ErrInvalidReference, "controller %d does not exist", ctrlNr)
	}
	if slotNr < 0 || slotNr >= SlotsPerController {
		return errors.Wrapf(ErrSlotOutOfRange, "slot %d-%d", ctrlNr, slotNr)
	}
	if _, ok := entry.slots[slotNr]; ok {
		return errors.Wrapf(ErrDuplicateKey, "slot %d-%d", ctrlNr, slotNr)
	}
	entry.slots[slotNr] = disk
	return nil
}

// GetController returns the controller registered under ctrlNr or nil.
func (l *DiskLayout) GetController(ctrlNr int) *Controller {
	entry, ok := l.layout[ctrlNr]
	if !ok {
		return nil
	}
	return entry.ctrl
}

// GetDisk returns the disk at the given slot or nil.
func (l *DiskLayout) GetDisk(ctrlNr, slotNr int) *Disk {
	entry, ok := l.layout[ctrlNr]
	if !ok {
		return nil
	}
	return entry.slots[slotNr]
}

// DelSlot removes the disk at the given slot. Unknown controllers and empty
// slots are ignored.
func (l *DiskLayout) DelSlot(ctrlNr, slotNr int) {
	entry, ok := l.layout[ctrlNr]
	if !ok {
		return
	}
	delete(entry.slots, slotNr)
}

// GetFreeSlot returns the lowest unoccupied slot, scanning controllers in
// ascending order and slots 0 to 15 on each of them.
func (l *DiskLayout) GetFreeSlot() (int, int, error) {
	for _, ctrlNr := range l.Controllers() {
		slots := l.layout[ctrlNr].slots
		for slotNr := 0; slotNr < SlotsPerController; slotNr++ {
			if _, ok := slots[slotNr]; !ok {
				return ctrlNr, slotNr, nil
			}
		}
	}
	return -1, -1, errors.Wrapf(ErrNoCapacity, "all %d slots of %d controllers are in use",
		len(l.layout)*SlotsPerController, len(l.layout))
}

// Reserve places disk at the lowest free slot and returns its address.
func (l *DiskLayout) Reserve(disk *Disk) (int, int, error) {
	ctrlNr, slotNr, err := l.GetFreeSlot()
	if err != nil {
		return -1, -1, err
	}
	if err := l.AddDisk(ctrlNr, slotNr, disk); err != nil {
		return -1, -1, err
	}
	glog.V(4).Infof("[DEBUG] Reserve: reserved slot %d-%d", ctrlNr, slotNr)
	return ctrlNr, slotNr, nil
}

// Range calls fn for every occupied slot in ascending controller and slot
// order. The order is computed anew on every call. Iteration stops when fn
// returns false. The layout must not be modified from within fn.
func (l *DiskLayout) Range(fn func(ctrlNr, slotNr int, disk *Disk) bool) {
	for _, ctrlNr := range l.Controllers() {
		slots := l.layout[ctrlNr].slots
		slotNrs := make([]int, 0, len(slots))
		for slotNr := range slots {
			slotNrs = append(slotNrs, slotNr)
		}
		sort.Ints(slotNrs)
		for _, slotNr := range slotNrs {
			if !fn(ctrlNr, slotNr, slots[slotNr]) {
				return
			}
		}
	}
}

// Slots returns all occupied slots in iteration order.
func (l *DiskLayout) Slots() []Slot {
	var out []Slot
	l.Range(func(ctrlNr, slotNr int, disk *Disk) bool {
		out = append(out, Slot{Controller: ctrlNr, Slot: slotNr, Disk: disk})
		return true
	})
	return out
}

// Controllers returns the registered controller indexes in ascending order.
func (l *DiskLayout) Controllers() []int {
	ctrlNrs := make([]int, 0, len(l.layout))
	for ctrlNr := range l.layout {
		ctrlNrs = append(ctrlNrs, ctrlNr)
	}
	sort.Ints(ctrlNrs)
	return ctrlNrs
}

// Len returns the number of occupied slots.
func (l *DiskLayout) Len() int {
	n := 0
	for _, entry := range l.layout {
		n += len(entry.slots)
	}
	return n
}

// FreeSlots returns the number of unoccupied slots across all controllers.
func (l *DiskLayout) FreeSlots() int {
	return len(l.layout)*SlotsPerController - l.Len()
}

// LocateDisk returns the address of the disk with the given device key.
func (l *DiskLayout) LocateDisk(key int32) (int, int, bool) {
	ctrl, slot, found := -1, -1, false
	l.Range(func(ctrlNr, slotNr int, disk *Disk) bool {
		if disk != nil && disk.Key == key {
			ctrl, slot, found = ctrlNr, slotNr, true
			return false
		}
		return true
	})
	return ctrl, slot, found
}

// Orphans returns the disks that could not be attached to a SCSI controller
// when the layout was built.
func (l *DiskLayout) Orphans() []*Disk {
	return l.orphans
}

// String prints the occupied slot addresses, e.g. "0-0 0-1 1-3".
func (l *DiskLayout) String() string {
	var addrs []string
	for _, s := range l.Slots() {
		addrs = append(addrs, s.String())
	}
	return strings.Join(addrs, " ")
}
