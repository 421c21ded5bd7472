package flags

import (
	"context"

	"github.com/davecgh/go-spew/spew"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/gardener/vmware-disk-layout/pkg/vmware/snapshot"
)

type SnapshotFlag struct {
	Path string

	s *snapshot.Snapshot
}

var snapshotFlagKey = flagKey("snapshot")

func NewSnapshotFlag(ctx context.Context) (*SnapshotFlag, context.Context) {
	if v := ctx.Value(snapshotFlagKey); v != nil {
		return v.(*SnapshotFlag), ctx
	}

	v := &SnapshotFlag{}
	v.Path = GetSourceFromPseudoFlagset(ctx).SnapshotPath
	ctx = context.WithValue(ctx, snapshotFlagKey, v)
	return v, ctx
}

func (f *SnapshotFlag) Isset() bool {
	return f.Path != ""
}

// Snapshot loads the snapshot file on first use.
func (f *SnapshotFlag) Snapshot() (*snapshot.Snapshot, error) {
	if f.s != nil {
		return f.s, nil
	}
	if !f.Isset() {
		return nil, errors.New("no snapshot file given")
	}

	s, err := snapshot.Load(f.Path)
	if err != nil {
		return nil, err
	}
	if glog.V(5) {
		glog.Infof("[DEBUG] SnapshotFlag: loaded %s: %s", f.Path, spew.Sdump(s))
	}
	f.s = s
	return f.s, nil
}
