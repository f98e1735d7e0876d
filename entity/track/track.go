package track

import (
	"fmt"
	"math"
	"sort"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/hemic-racer/entity"
	"github.com/tsinghua-fib-lab/hemic-racer/utils/input"
)

const (
	sampleStep = 1. // 中心线采样间隔（米）
)

// Track 赛道实体
// 功能：由分段数据积分得到闭合中心线折线，提供局部坐标与全局坐标的互相转换
type Track struct {
	name string

	segments []*entity.Segment
	data     map[int32]*entity.Segment

	line           []geometry.Point             // 中心线折线
	lineLengths    []float64                    // 折线点对应的累计长度
	lineDirections []geometry.PolylineDirection // 折线每一段的方向（atan2）
	length         float64                      // 一圈长度
}

// New 根据输入数据构造赛道
// 功能：从原点沿x轴正方向出发，逐段积分生成中心线
// 参数：data-赛道输入数据
// 返回：赛道实例，数据非法时返回error
func New(data *input.Track) (*Track, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	t := &Track{
		name:     data.Name,
		segments: make([]*entity.Segment, 0, len(data.Segments)),
		line:     []geometry.Point{{}},
	}
	var heading float64
	cur := geometry.Point{}
	starts := make([]int, 0, len(data.Segments)) // 每个分段起点在折线中的下标
	for i, sd := range data.Segments {
		seg := &entity.Segment{
			ID:         int32(i),
			Radius:     sd.Radius,
			StartWidth: sd.StartWidth,
			EndWidth:   sd.EndWidth,
			Width:      sd.Width,
		}
		if seg.StartWidth == 0 && seg.EndWidth == 0 {
			seg.StartWidth, seg.EndWidth = sd.Width, sd.Width
		}
		if seg.Width == 0 {
			seg.Width = (seg.StartWidth + seg.EndWidth) / 2
		}
		var length, turn float64
		switch sd.Type {
		case "straight":
			seg.Type = entity.SegmentStraight
			length = sd.Length
		case "left":
			seg.Type = entity.SegmentLeft
			length = sd.Radius * sd.Arc * math.Pi / 180
			turn = 1 / sd.Radius
		case "right":
			seg.Type = entity.SegmentRight
			length = sd.Radius * sd.Arc * math.Pi / 180
			turn = -1 / sd.Radius
		}
		starts = append(starts, len(t.line)-1)
		n := int(math.Ceil(length / sampleStep))
		ds := length / float64(n)
		for k := 0; k < n; k++ {
			dh := turn * ds
			cur = geometry.Point{
				X: cur.X + ds*math.Cos(heading+dh/2),
				Y: cur.Y + ds*math.Sin(heading+dh/2),
			}
			heading += dh
			t.line = append(t.line, cur)
		}
		t.segments = append(t.segments, seg)
	}
	t.lineLengths = geometry.GetPolylineLengths2D(t.line)
	t.lineDirections = geometry.GetPolylineDirections(t.line)
	t.length = t.lineLengths[len(t.lineLengths)-1]
	for i, seg := range t.segments {
		seg.StartS = t.lineLengths[starts[i]]
		if i+1 < len(starts) {
			seg.Length = t.lineLengths[starts[i+1]] - seg.StartS
		} else {
			seg.Length = t.length - seg.StartS
		}
	}
	t.data = lo.SliceToMap(t.segments, func(s *entity.Segment) (int32, *entity.Segment) {
		return s.ID, s
	})
	if gap := math.Hypot(cur.X, cur.Y); gap > 1 {
		log.Warnf("track %s is not closed: end point is %.2fm away from start", t.name, gap)
	}
	return t, nil
}

func (t *Track) Name() string {
	return t.name
}

func (t *Track) Length() float64 {
	return t.length
}

func (t *Track) Segments() []*entity.Segment {
	return t.segments
}

// Get 输入分段ID，查找分段，如果不存在则panic
func (t *Track) Get(id int32) *entity.Segment {
	seg, err := t.GetOrError(id)
	if err != nil {
		log.Panic(err)
	}
	return seg
}

// GetOrError 输入分段ID，查找分段，如果不存在则返回error
func (t *Track) GetOrError(id int32) (*entity.Segment, error) {
	if seg, ok := t.data[id]; !ok {
		return nil, fmt.Errorf("no id %d in segment data", id)
	} else {
		return seg, nil
	}
}

// wrap 将累计距离折算到[0, length)
func (t *Track) wrap(s float64) float64 {
	if t.length <= 0 {
		return 0
	}
	s = math.Mod(s, t.length)
	if s < 0 {
		s += t.length
	}
	return s
}

// SegmentAt 一圈累计距离s所在的分段
func (t *Track) SegmentAt(s float64) *entity.Segment {
	s = t.wrap(s)
	i := sort.Search(len(t.segments), func(i int) bool {
		return t.segments[i].StartS > s
	})
	return t.segments[max(i-1, 0)]
}

// DirectionAt 中心线在累计距离s处的切向角
func (t *Track) DirectionAt(s float64) float64 {
	s = t.wrap(s)
	if i := sort.SearchFloat64s(t.lineLengths, s); i == 0 {
		return t.lineDirections[0].Direction
	} else {
		return t.lineDirections[min(i, len(t.lineDirections))-1].Direction
	}
}

// positionAt 中心线在累计距离s处的坐标
func (t *Track) positionAt(s float64) geometry.Point {
	s = t.wrap(s)
	i := sort.SearchFloat64s(t.lineLengths, s)
	if i == 0 {
		return t.line[0]
	}
	i = min(i, len(t.line)-1)
	sHigh, sLow := t.lineLengths[i], t.lineLengths[i-1]
	if sHigh <= sLow {
		return t.line[i]
	}
	k := lo.Clamp((s-sLow)/(sHigh-sLow), 0, 1)
	return geometry.Blend(t.line[i-1], t.line[i], k)
}

// LocalToGlobal 局部坐标转全局坐标
// 说明：ToMiddle向左为正，即沿切向左侧法向量偏移
func (t *Track) LocalToGlobal(pos entity.TrackPos) geometry.Point {
	s := pos.LapS()
	p := t.positionAt(s)
	d := t.DirectionAt(s)
	return geometry.Point{
		X: p.X - math.Sin(d)*pos.ToMiddle,
		Y: p.Y + math.Cos(d)*pos.ToMiddle,
		Z: p.Z,
	}
}

// GlobalToLocal 全局坐标投影到赛道局部坐标
func (t *Track) GlobalToLocal(p geometry.Point) entity.TrackPos {
	s := lo.Clamp(geometry.GetClosestPolylineSToPoint2D(t.line, t.lineLengths, p), 0, t.length)
	s = t.wrap(s)
	c := t.positionAt(s)
	d := t.DirectionAt(s)
	toMiddle := math.Cos(d)*(p.Y-c.Y) - math.Sin(d)*(p.X-c.X)
	seg := t.SegmentAt(s)
	toStart := s - seg.StartS
	return entity.TrackPos{
		Seg:      seg,
		ToStart:  toStart,
		ToMiddle: toMiddle,
		ToLeft:   WidthAt(seg, toStart)/2 - toMiddle,
	}
}

// WidthAt 分段内距起点toStart处的宽度（起终点宽度线性插值）
func WidthAt(seg *entity.Segment, toStart float64) float64 {
	if seg.Length <= 0 {
		return seg.StartWidth
	}
	k := lo.Clamp(toStart/seg.Length, 0, 1)
	return seg.StartWidth + (seg.EndWidth-seg.StartWidth)*k
}
