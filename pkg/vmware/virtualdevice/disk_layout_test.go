package virtualdevice

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/vmware/govmomi/object"
)

var _ = Describe("DiskLayout", func() {
	var l *DiskLayout

	BeforeEach(func() {
		l = NewDiskLayout()
	})

	Describe("AddController", func() {
		It("should reject a duplicate controller index and keep the first one", func() {
			first := scsiController(1000)
			Expect(l.AddController(0, first)).To(Succeed())

			err := l.AddController(0, scsiController(1001))
			Expect(IsDuplicateKey(err)).To(BeTrue())
			Expect(l.GetController(0)).To(BeIdenticalTo(first))
			Expect(l.Controllers()).To(Equal([]int{0}))
		})

		It("should reject a nil controller", func() {
			err := l.AddController(0, nil)
			Expect(IsInvalidReference(err)).To(BeTrue())
			Expect(l.Controllers()).To(BeEmpty())
		})

		It("should reject a negative controller index", func() {
			err := l.AddController(-1, scsiController(1000))
			Expect(IsInvalidReference(err)).To(BeTrue())
		})
	})

	Describe("AddDisk", func() {
		BeforeEach(func() {
			Expect(l.AddController(0, scsiController(1000))).To(Succeed())
		})

		It("should fail for an unknown controller without changing the layout", func() {
			err := l.AddDisk(1, 0, disk(2000, 1001, 0))
			Expect(IsInvalidReference(err)).To(BeTrue())
			Expect(l.Len()).To(Equal(0))
			Expect(l.GetController(1)).To(BeNil())
		})

		It("should fail for an occupied slot and keep the first disk", func() {
			first := disk(2000, 1000, 3)
			Expect(l.AddDisk(0, 3, first)).To(Succeed())

			err := l.AddDisk(0, 3, disk(2001, 1000, 3))
			Expect(IsDuplicateKey(err)).To(BeTrue())
			Expect(l.GetDisk(0, 3)).To(BeIdenticalTo(first))
			Expect(l.Len()).To(Equal(1))
		})

		It("should fail for slots outside of the unit range", func() {
			Expect(IsSlotOutOfRange(l.AddDisk(0, SlotsPerController, disk(2000, 1000, 16)))).To(BeTrue())
			Expect(IsSlotOutOfRange(l.AddDisk(0, -1, disk(2000, 1000, -1)))).To(BeTrue())
			Expect(l.Len()).To(Equal(0))
		})

		It("should store the descriptor as given", func() {
			d := disk(2000, 1000, 15)
			Expect(l.AddDisk(0, 15, d)).To(Succeed())
			Expect(l.GetDisk(0, 15)).To(BeIdenticalTo(d))
			Expect(*d).To(Equal(Disk{Key: 2000, ControllerKey: 1000, UnitNumber: 15}))
		})
	})

	Describe("lookups", func() {
		It("should return nil for unknown controllers and slots", func() {
			Expect(l.AddController(0, scsiController(1000))).To(Succeed())
			Expect(l.GetController(1)).To(BeNil())
			Expect(l.GetDisk(1, 0)).To(BeNil())
			Expect(l.GetDisk(0, 0)).To(BeNil())
		})
	})

	Describe("DelSlot", func() {
		BeforeEach(func() {
			Expect(l.AddController(0, scsiController(1000))).To(Succeed())
			Expect(l.AddDisk(0, 0, disk(2000, 1000, 0))).To(Succeed())
		})

		It("should ignore unknown controllers and empty slots", func() {
			l.DelSlot(5, 0)
			l.DelSlot(0, 9)
			Expect(l.String()).To(Equal("0-0"))
		})

		It("should remove an occupied slot", func() {
			l.DelSlot(0, 0)
			Expect(l.GetDisk(0, 0)).To(BeNil())
			Expect(l.Len()).To(Equal(0))
			Expect(l.GetController(0)).NotTo(BeNil())
		})
	})

	Describe("GetFreeSlot", func() {
		It("should fail on a layout without controllers", func() {
			_, _, err := l.GetFreeSlot()
			Expect(IsNoCapacity(err)).To(BeTrue())
		})

		It("should return the first free slot on the first controller", func() {
			Expect(l.AddController(0, scsiController(1000))).To(Succeed())
			Expect(l.AddController(1, scsiController(1001))).To(Succeed())
			Expect(l.AddDisk(0, 0, disk(2000, 1000, 0))).To(Succeed())
			Expect(l.AddDisk(0, 1, disk(2001, 1000, 1))).To(Succeed())

			ctrlNr, slotNr, err := l.GetFreeSlot()
			Expect(err).NotTo(HaveOccurred())
			Expect(ctrlNr).To(Equal(0))
			Expect(slotNr).To(Equal(2))
		})

		It("should fill gaps before appending", func() {
			Expect(l.AddController(0, scsiController(1000))).To(Succeed())
			for _, unit := range []int{0, 1, 3} {
				Expect(l.AddDisk(0, unit, disk(int32(2000+unit), 1000, int32(unit)))).To(Succeed())
			}
			ctrlNr, slotNr, err := l.GetFreeSlot()
			Expect(err).NotTo(HaveOccurred())
			Expect([]int{ctrlNr, slotNr}).To(Equal([]int{0, 2}))
		})

		It("should move on to the next controller and fail once all are full", func() {
			Expect(l.AddController(0, scsiController(1000))).To(Succeed())
			Expect(l.AddController(1, scsiController(1001))).To(Succeed())
			for unit := 0; unit < SlotsPerController; unit++ {
				Expect(l.AddDisk(0, unit, disk(int32(2000+unit), 1000, int32(unit)))).To(Succeed())
			}

			ctrlNr, slotNr, err := l.GetFreeSlot()
			Expect(err).NotTo(HaveOccurred())
			Expect([]int{ctrlNr, slotNr}).To(Equal([]int{1, 0}))

			for unit := 0; unit < SlotsPerController; unit++ {
				Expect(l.AddDisk(1, unit, disk(int32(3000+unit), 1001, int32(unit)))).To(Succeed())
			}
			_, _, err = l.GetFreeSlot()
			Expect(IsNoCapacity(err)).To(BeTrue())
			Expect(l.FreeSlots()).To(Equal(0))
		})

		It("should scan controllers in index order, not insertion order", func() {
			Expect(l.AddController(3, scsiController(1003))).To(Succeed())
			Expect(l.AddController(1, scsiController(1001))).To(Succeed())
			ctrlNr, slotNr, err := l.GetFreeSlot()
			Expect(err).NotTo(HaveOccurred())
			Expect([]int{ctrlNr, slotNr}).To(Equal([]int{1, 0}))
		})
	})

	Describe("Reserve", func() {
		It("should place disks on the lowest free slots", func() {
			Expect(l.AddController(0, scsiController(1000))).To(Succeed())
			Expect(l.AddDisk(0, 0, disk(2000, 1000, 0))).To(Succeed())

			d := disk(-1, 0, -1)
			ctrlNr, slotNr, err := l.Reserve(d)
			Expect(err).NotTo(HaveOccurred())
			Expect([]int{ctrlNr, slotNr}).To(Equal([]int{0, 1}))
			Expect(l.GetDisk(0, 1)).To(BeIdenticalTo(d))
		})

		It("should report no capacity", func() {
			_, _, err := l.Reserve(disk(-1, 0, -1))
			Expect(IsNoCapacity(err)).To(BeTrue())
		})
	})

	Describe("Range", func() {
		BeforeEach(func() {
			Expect(l.AddController(1, scsiController(1001))).To(Succeed())
			Expect(l.AddController(0, scsiController(1000))).To(Succeed())
			Expect(l.AddDisk(1, 4, disk(2104, 1001, 4))).To(Succeed())
			Expect(l.AddDisk(0, 9, disk(2009, 1000, 9))).To(Succeed())
			Expect(l.AddDisk(1, 0, disk(2100, 1001, 0))).To(Succeed())
			Expect(l.AddDisk(0, 2, disk(2002, 1000, 2))).To(Succeed())
		})

		It("should iterate in ascending controller and slot order", func() {
			var keys []int32
			prevCtrl, prevSlot := -1, -1
			l.Range(func(ctrlNr, slotNr int, d *Disk) bool {
				ascending := ctrlNr > prevCtrl || (ctrlNr == prevCtrl && slotNr > prevSlot)
				Expect(ascending).To(BeTrue())
				prevCtrl, prevSlot = ctrlNr, slotNr
				keys = append(keys, d.Key)
				return true
			})
			Expect(keys).To(Equal([]int32{2002, 2009, 2100, 2104}))
			Expect(l.String()).To(Equal("0-2 0-9 1-0 1-4"))
		})

		It("should stop when the callback returns false", func() {
			n := 0
			l.Range(func(ctrlNr, slotNr int, d *Disk) bool {
				n++
				return n < 2
			})
			Expect(n).To(Equal(2))
		})

		It("should reflect changes made between passes", func() {
			Expect(l.Slots()).To(HaveLen(4))
			l.DelSlot(0, 9)
			Expect(l.AddDisk(0, 1, disk(2001, 1000, 1))).To(Succeed())
			Expect(l.String()).To(Equal("0-1 0-2 1-0 1-4"))
		})

		It("should locate disks by key", func() {
			ctrlNr, slotNr, ok := l.LocateDisk(2104)
			Expect(ok).To(BeTrue())
			Expect([]int{ctrlNr, slotNr}).To(Equal([]int{1, 4}))

			_, _, ok = l.LocateDisk(4711)
			Expect(ok).To(BeFalse())
		})
	})
})

var _ = Describe("Build", func() {
	It("should index SCSI disks and skip disks on other controllers", func() {
		pv := newPVSCSI(1000, 0)
		d0 := newVirtualDisk(2000, 1000, 0)
		d1 := newVirtualDisk(2001, 1000, 1)
		ideDisk := newVirtualDisk(3000, 200, 0)
		d3 := newVirtualDisk(2002, 1001, 3)
		devices := object.VirtualDeviceList{
			newIDE(200, 0),
			pv,
			d0,
			newVmxnet3(4000),
			ideDisk,
			newLsiLogic(1001, 1),
			d3,
			d1,
		}

		l, err := BuildFromDeviceList(devices)
		Expect(err).NotTo(HaveOccurred())
		Expect(l.String()).To(Equal("0-0 0-1 1-3"))
		Expect(l.Controllers()).To(Equal([]int{0, 1}))
		Expect(l.GetController(0).Device).To(BeIdenticalTo(pv))
		Expect(l.GetController(1).Type()).To(Equal(SubresourceControllerTypeLsiLogic))
		Expect(l.GetDisk(0, 0).Device).To(BeIdenticalTo(d0))
		Expect(l.GetDisk(0, 1).Device).To(BeIdenticalTo(d1))
		Expect(l.GetDisk(1, 3).Device).To(BeIdenticalTo(d3))

		Expect(l.Orphans()).To(HaveLen(1))
		Expect(l.Orphans()[0].Device).To(BeIdenticalTo(ideDisk))

		ctrlNr, slotNr, err := l.GetFreeSlot()
		Expect(err).NotTo(HaveOccurred())
		Expect([]int{ctrlNr, slotNr}).To(Equal([]int{0, 2}))
	})

	It("should number controllers by list position, not by bus number", func() {
		devices := object.VirtualDeviceList{
			newLsiLogic(1001, 1),
			newPVSCSI(1000, 0),
			newVirtualDisk(2000, 1000, 5),
		}
		l, err := BuildFromDeviceList(devices)
		Expect(err).NotTo(HaveOccurred())
		Expect(l.GetController(0).Key).To(Equal(int32(1001)))
		Expect(l.GetController(1).Key).To(Equal(int32(1000)))
		Expect(l.String()).To(Equal("1-5"))
	})

	It("should not treat SATA or IDE controllers as layout controllers", func() {
		devices := object.VirtualDeviceList{
			newIDE(200, 0),
			newAHCI(15000, 0),
			newVirtualDisk(2000, 15000, 0),
		}
		l, err := BuildFromDeviceList(devices)
		Expect(err).NotTo(HaveOccurred())
		Expect(l.Controllers()).To(BeEmpty())
		Expect(l.Orphans()).To(HaveLen(1))
		_, _, err = l.GetFreeSlot()
		Expect(IsNoCapacity(err)).To(BeTrue())
	})

	It("should fail on two disks sharing a unit number", func() {
		devices := object.VirtualDeviceList{
			newPVSCSI(1000, 0),
			newVirtualDisk(2000, 1000, 0),
			newVirtualDisk(2001, 1000, 0),
		}
		_, err := BuildFromDeviceList(devices)
		Expect(IsDuplicateKey(err)).To(BeTrue())
	})

	It("should fail on unit numbers beyond the controller range", func() {
		devices := object.VirtualDeviceList{
			newPVSCSI(1000, 0),
			newVirtualDisk(2000, 1000, 16),
		}
		_, err := BuildFromDeviceList(devices)
		Expect(IsSlotOutOfRange(err)).To(BeTrue())
	})

	It("should treat disks without unit number as orphans", func() {
		unset := newVirtualDisk(2000, 1000, 0)
		unset.UnitNumber = nil
		l, err := BuildFromDeviceList(object.VirtualDeviceList{newPVSCSI(1000, 0), unset})
		Expect(err).NotTo(HaveOccurred())
		Expect(l.Len()).To(Equal(0))
		Expect(l.Orphans()).To(HaveLen(1))
	})

	It("should yield every disk of every controller exactly once", func() {
		const controllers, disksPerController = 3, 5
		var devices []Device
		for c := 0; c < controllers; c++ {
			devices = append(devices, scsiController(int32(1000+c)))
		}
		for c := 0; c < controllers; c++ {
			for u := 0; u < disksPerController; u++ {
				devices = append(devices, disk(int32(2000+100*c+u), int32(1000+c), int32(2*u)))
			}
		}

		l, err := Build(devices)
		Expect(err).NotTo(HaveOccurred())
		slots := l.Slots()
		Expect(slots).To(HaveLen(controllers * disksPerController))
		for _, s := range slots {
			Expect(s.Disk.ControllerKey).To(Equal(l.GetController(s.Controller).Key))
			Expect(int32(s.Slot)).To(Equal(s.Disk.UnitNumber))
		}
	})

	It("should ignore non SCSI controllers given as plain descriptors", func() {
		l, err := Build([]Device{
			&Controller{Key: 200, Bus: ControllerBusIDE},
			scsiController(1000),
			disk(2000, 200, 0),
			disk(2001, 1000, 0),
			&OtherDevice{},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(l.GetController(0).Key).To(Equal(int32(1000)))
		Expect(l.String()).To(Equal("0-0"))
		Expect(l.Orphans()).To(ConsistOf(HaveField("Key", int32(2000))))
	})
})
