package structure

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("unit conversion", func() {
	It("should keep the integer type when converting bytes to GiB", func() {
		Expect(ByteToGiB(int64(3) << 30)).To(Equal(int64(3)))
		Expect(ByteToGiB(2 << 30)).To(Equal(2))
		Expect(ByteToGiB(int32(1 << 29))).To(Equal(int32(0)))
	})

	It("should panic on non integer input", func() {
		Expect(func() { ByteToGiB(1.5) }).To(Panic())
		Expect(func() { GiBToByte("1") }).To(Panic())
	})

	It("should convert GiB to bytes and KB without overflowing int32 input", func() {
		Expect(GiBToByte(int32(4))).To(Equal(int64(4) << 30))
		Expect(GiBToByte(16)).To(Equal(int64(16) << 30))
		Expect(GiBToKB(int64(16))).To(Equal(int64(16) << 20))
	})
})

var _ = Describe("pointers", func() {
	It("should return pointers to copies", func() {
		v := int32(7)
		p := Int32Ptr(v)
		v = 8
		Expect(*p).To(Equal(int32(7)))
		Expect(*BoolPtr(true)).To(BeTrue())
	})

	It("should dereference pointers", func() {
		Expect(DeRef(nil)).To(BeNil())
		Expect(DeRef(Int32Ptr(3))).To(Equal(int32(3)))
		Expect(DeRef((*int32)(nil))).To(BeNil())
		Expect(DeRef("plain")).To(Equal("plain"))
	})
})
