package track

import (
	"math"

	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/hemic-racer/entity"
)

const (
	G = 9.81 // 重力加速度（米/秒²）

	nodeStep        = 2.  // 模型节点间隔（米）
	smoothWindow    = 8   // 曲率平滑窗口（单侧节点数）
	offsetWindow    = 15  // 理想线偏移平滑窗口（单侧节点数）
	offsetRatio     = 0.3 // 理想线最大偏移占宽度的比例
	offsetRefRadius = 40. // 半径小于该值的弯道使用最大偏移
	minCurvature    = 1e-5
)

// Model 赛道几何模型
// 功能：沿赛道等距布置节点，为每个节点计算理想线偏移与推荐最高速度，供控制器查询
type Model struct {
	track entity.ITrack

	maxBrakeG      float64 // 最大制动G值
	maxLateralG    float64 // 最大横向G值
	suctionGPerMSS float64 // 每m/s附加的G值

	ds        float64   // 实际节点间隔
	curvature []float64 // 节点曲率（向左为正）
	offset    []float64 // 节点理想线偏移（向右为正）
	speed     []float64 // 节点推荐最高速度
}

// NewModel 初始化赛道模型
// 功能：根据赛道几何与三个G值常数计算节点数据
// 参数：track-赛道，maxBrakeG-最大制动G值，maxLateralG-最大横向G值，suctionGPerMSS-下压力系数
// 算法说明：
// 1. 由中心线切向角的中心差分得到曲率，并做滑动平均
// 2. 理想线向弯心偏移，偏移量随曲率增大，再做滑动平均使车辆提前切入
// 3. 横向G值约束：|k|v² = g(latG + suction*v)，解出节点最高速度
// 4. 制动约束：沿赛道反向传播 v_i = min(v_i, sqrt(v_{i+1}² + 2*brakeG*g*ds))，闭合赛道传播两圈
func NewModel(track entity.ITrack, maxBrakeG, maxLateralG, suctionGPerMSS float64) *Model {
	m := &Model{
		track:          track,
		maxBrakeG:      maxBrakeG,
		maxLateralG:    maxLateralG,
		suctionGPerMSS: suctionGPerMSS,
	}
	length := track.Length()
	n := int(math.Ceil(length / nodeStep))
	if n < 3 {
		log.Warnf("track %s too short for model (%.1fm)", track.Name(), length)
		return m
	}
	m.ds = length / float64(n)

	dirs := make([]float64, n)
	for i := 0; i < n; i++ {
		dirs[i] = track.DirectionAt(float64(i) * m.ds)
	}
	raw := make([]float64, n)
	for i := 0; i < n; i++ {
		raw[i] = normPiPi(dirs[(i+1)%n]-dirs[(i-1+n)%n]) / (2 * m.ds)
	}
	m.curvature = smooth(raw, smoothWindow)

	offset := make([]float64, n)
	for i, k := range m.curvature {
		s := float64(i) * m.ds
		seg := m.segmentAt(s)
		width := WidthAt(seg, s-seg.StartS)
		ratio := lo.Clamp(k*offsetRefRadius, -1, 1)
		offset[i] = -ratio * offsetRatio * width
	}
	m.offset = smooth(offset, offsetWindow)

	m.speed = make([]float64, n)
	for i, k := range m.curvature {
		m.speed[i] = m.cornerSpeed(k)
	}
	brakeA := maxBrakeG * G
	for k := 0; k < 2; k++ {
		for i := n - 1; i >= 0; i-- {
			next := m.speed[(i+1)%n]
			m.speed[i] = math.Min(m.speed[i], math.Sqrt(next*next+2*brakeA*m.ds))
		}
	}
	return m
}

// cornerSpeed 只考虑横向G值的弯道最高速度
func (m *Model) cornerSpeed(k float64) float64 {
	k = math.Abs(k)
	if k < minCurvature {
		return mathutil.INF
	}
	a := k
	b := -G * m.suctionGPerMSS
	c := -G * m.maxLateralG
	return (-b + math.Sqrt(b*b-4*a*c)) / (2 * a)
}

func (m *Model) segmentAt(s float64) *entity.Segment {
	if t, ok := m.track.(*Track); ok {
		return t.SegmentAt(s)
	}
	segs := m.track.Segments()
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i].StartS <= s {
			return segs[i]
		}
	}
	return segs[0]
}

// node 计算累计距离s所在节点下标与到下一节点的比例
func (m *Model) node(pos entity.TrackPos) (i, j int, k float64) {
	n := len(m.speed)
	x := pos.LapS() / m.ds
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, 1 % n, 0
	}
	x = math.Mod(x, float64(n))
	if x < 0 {
		x += float64(n)
	}
	i = int(x) % n
	j = (i + 1) % n
	k = x - math.Floor(x)
	return
}

// TangentAngle 理想线切向角
// 说明：中心线切向角叠加理想线偏移的变化率
func (m *Model) TangentAngle(pos entity.TrackPos) float64 {
	dir := m.track.DirectionAt(pos.LapS())
	if len(m.offset) == 0 {
		return dir
	}
	i, j, _ := m.node(pos)
	return normPiPi(dir - math.Atan((m.offset[j]-m.offset[i])/m.ds))
}

// OffsetFromCenter 理想线相对中心线的偏移，向右为正
func (m *Model) OffsetFromCenter(pos entity.TrackPos) float64 {
	if len(m.offset) == 0 {
		return 0
	}
	i, j, k := m.node(pos)
	return m.offset[i] + (m.offset[j]-m.offset[i])*k
}

// MaxSpeed 推荐最高速度，取相邻两节点中较小者
func (m *Model) MaxSpeed(pos entity.TrackPos) float64 {
	if len(m.speed) == 0 {
		return 0
	}
	i, j, _ := m.node(pos)
	return math.Min(m.speed[i], m.speed[j])
}

// Curvature 节点曲率（诊断用）
func (m *Model) Curvature(pos entity.TrackPos) float64 {
	if len(m.curvature) == 0 {
		return 0
	}
	i, _, _ := m.node(pos)
	return m.curvature[i]
}

// smooth 闭合序列的滑动平均
func smooth(xs []float64, window int) []float64 {
	n := len(xs)
	res := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.
		for d := -window; d <= window; d++ {
			sum += xs[((i+d)%n+n)%n]
		}
		res[i] = sum / float64(2*window+1)
	}
	return res
}

// normPiPi 将角度归一化到(-π, π]
func normPiPi(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return a
	}
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
