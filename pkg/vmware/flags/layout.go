package flags

import (
	"context"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/vmware/govmomi/object"

	"github.com/gardener/vmware-disk-layout/pkg/vmware/virtualdevice"
)

// LayoutFlag resolves the disk layout of the virtual machine described by the
// snapshot flag. The device list and the layout are built once and shared by
// all users of the context.
type LayoutFlag struct {
	*SnapshotFlag

	vmName  string
	devices object.VirtualDeviceList
	layout  *virtualdevice.DiskLayout
}

var layoutFlagKey = flagKey("layout")

func NewLayoutFlag(ctx context.Context) (*LayoutFlag, context.Context) {
	if v := ctx.Value(layoutFlagKey); v != nil {
		return v.(*LayoutFlag), ctx
	}

	v := &LayoutFlag{}
	v.vmName = GetSourceFromPseudoFlagset(ctx).VMName
	v.SnapshotFlag, ctx = NewSnapshotFlag(ctx)
	ctx = context.WithValue(ctx, layoutFlagKey, v)
	return v, ctx
}

// VMName returns the name given on the command line or else the name stored
// in the snapshot.
func (f *LayoutFlag) VMName() (string, error) {
	if f.vmName != "" {
		return f.vmName, nil
	}
	s, err := f.Snapshot()
	if err != nil {
		return "", err
	}
	return s.Name, nil
}

func (f *LayoutFlag) DeviceList() (object.VirtualDeviceList, error) {
	if f.devices != nil {
		return f.devices, nil
	}
	s, err := f.Snapshot()
	if err != nil {
		return nil, err
	}
	f.devices = s.VirtualDeviceList()
	return f.devices, nil
}

func (f *LayoutFlag) Layout() (*virtualdevice.DiskLayout, error) {
	if f.layout != nil {
		return f.layout, nil
	}
	l, err := f.DeviceList()
	if err != nil {
		return nil, err
	}
	layout, err := virtualdevice.BuildFromDeviceList(l)
	if err != nil {
		return nil, errors.Wrapf(err, "building disk layout of %s", f.Path)
	}
	glog.V(4).Infof("[DEBUG] LayoutFlag: layout of %s: %s", f.Path, layout)
	f.layout = layout
	return f.layout, nil
}
