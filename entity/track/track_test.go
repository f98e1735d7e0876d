package track_test

import (
	"math"
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/hemic-racer/entity"
	"github.com/tsinghua-fib-lab/hemic-racer/entity/track"
	"github.com/tsinghua-fib-lab/hemic-racer/utils/input"
)

// 200m直道 + R50左弯180° + 200m直道 + R50左弯180°
func newOval(t *testing.T) *track.Track {
	tr, err := track.New(&input.Track{
		Name: "oval",
		Segments: []input.SegmentData{
			{Type: "straight", Length: 200, Width: 15},
			{Type: "left", Radius: 50, Arc: 180, Width: 15},
			{Type: "straight", Length: 200, Width: 15},
			{Type: "left", Radius: 50, Arc: 180, StartWidth: 15, EndWidth: 11},
		},
	})
	require.NoError(t, err)
	return tr
}

func TestTrackGeometry(t *testing.T) {
	tr := newOval(t)
	assert.Equal(t, "oval", tr.Name())
	assert.InDelta(t, 400+100*math.Pi, tr.Length(), 1)

	segs := tr.Segments()
	require.Len(t, segs, 4)
	assert.Equal(t, 0., segs[0].StartS)
	assert.InDelta(t, 200, segs[1].StartS, 1e-6)
	assert.Equal(t, entity.SegmentLeft, segs[1].Type)
	assert.Equal(t, 13., segs[3].Width)
	assert.Same(t, segs[2], tr.Get(2))

	_, err := tr.GetOrError(9)
	assert.Error(t, err)
	assert.Panics(t, func() { tr.Get(9) })

	// 第一条直道朝东，第二条直道朝西
	assert.InDelta(t, 0, tr.DirectionAt(100), 1e-6)
	assert.InDelta(t, math.Pi, math.Abs(tr.DirectionAt(segs[2].StartS+100)), 1e-6)
	assert.Same(t, segs[1], tr.SegmentAt(250))
	assert.Same(t, segs[0], tr.SegmentAt(tr.Length()+10))
}

func TestTrackLocalGlobal(t *testing.T) {
	tr := newOval(t)
	segs := tr.Segments()

	p := tr.LocalToGlobal(entity.TrackPos{Seg: segs[0], ToStart: 50, ToMiddle: 3})
	assert.InDelta(t, 50, p.X, 1e-6)
	assert.InDelta(t, 3, p.Y, 1e-6)

	pos := tr.GlobalToLocal(geometry.Point{X: 120, Y: -2})
	assert.Same(t, segs[0], pos.Seg)
	assert.InDelta(t, 120, pos.ToStart, 1e-6)
	assert.InDelta(t, -2, pos.ToMiddle, 1e-6)
	assert.InDelta(t, 7.5+2, pos.ToLeft, 1e-6)

	// 弯道上往返一次
	in := entity.TrackPos{Seg: segs[1], ToStart: 60, ToMiddle: -4}
	out := tr.GlobalToLocal(tr.LocalToGlobal(in))
	assert.Same(t, segs[1], out.Seg)
	assert.InDelta(t, in.ToStart, out.ToStart, 0.05)
	assert.InDelta(t, in.ToMiddle, out.ToMiddle, 0.05)
}

func TestWidthAt(t *testing.T) {
	seg := &entity.Segment{Length: 10, StartWidth: 10, EndWidth: 14}
	assert.Equal(t, 10., track.WidthAt(seg, 0))
	assert.Equal(t, 12., track.WidthAt(seg, 5))
	assert.Equal(t, 14., track.WidthAt(seg, 20))
	assert.Equal(t, 3., track.WidthAt(&entity.Segment{StartWidth: 3}, 1))
}

func TestNewRejectsInvalid(t *testing.T) {
	_, err := track.New(&input.Track{Name: "empty"})
	assert.Error(t, err)
}
