package entity

import (
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
)

// 轮胎数量
const WHEELS = 4

// SegmentType 赛道分段类型
type SegmentType int

const (
	SegmentStraight SegmentType = iota // 直道
	SegmentLeft                        // 左弯
	SegmentRight                       // 右弯
)

func (t SegmentType) String() string {
	switch t {
	case SegmentStraight:
		return "straight"
	case SegmentLeft:
		return "left"
	case SegmentRight:
		return "right"
	default:
		return fmt.Sprintf("SegmentType(%d)", int(t))
	}
}

// Segment 赛道分段
// 功能：描述赛道的一段几何信息（直道或圆弧），由赛道模型在加载时生成
type Segment struct {
	ID         int32
	Type       SegmentType
	Length     float64 // 中心线长度（米）
	Radius     float64 // 圆弧半径（米），直道为0
	Width      float64 // 平均宽度（米）
	StartWidth float64 // 起点宽度（米）
	EndWidth   float64 // 终点宽度（米）
	StartS     float64 // 分段起点在一圈中的累计距离（米）
}

func (s *Segment) String() string {
	return fmt.Sprintf("Segment{ID=%d, Type=%v, Length=%.1f}", s.ID, s.Type, s.Length)
}

// TrackPos 赛道局部坐标
// 说明：ToMiddle以中心线为0，向左为正
type TrackPos struct {
	Seg      *Segment
	ToStart  float64 // 距分段起点的距离（米）
	ToMiddle float64 // 到中心线的有符号横向距离（米）
	ToLeft   float64 // 到左边界的距离（米）
}

// LapS 在一圈中的累计距离
func (p TrackPos) LapS() float64 {
	if p.Seg == nil {
		return p.ToStart
	}
	return p.Seg.StartS + p.ToStart
}

// CarState 车辆动力学状态（由宿主每步写入，控制器只读）
type CarState struct {
	Speed            float64         // 沿赛道前进方向的速度（米/秒）
	Yaw              float64         // 航向角（弧度）
	Gear             int             // 当前挡位，负数表示倒挡
	EngineRPM        float64         // 发动机转速（rad/s）
	EngineRPMRedLine float64         // 发动机红线转速（rad/s）
	SlipAccel        [WHEELS]float64 // 各轮滑移加速度
	Skid             [WHEELS]float64 // 各轮侧滑量
	SteerLock        float64         // 最大物理转向角（弧度）
}

// Control 控制指令
type Control struct {
	Steer float64 // 转向，[-1,1]，相对SteerLock
	Accel float64 // 油门，[0,1]
	Brake float64 // 刹车，[0,1]
	Gear  int     // 挡位
}

func (c Control) String() string {
	return fmt.Sprintf("Control{Steer=%.3f, Accel=%.3f, Brake=%.3f, Gear=%d}", c.Steer, c.Accel, c.Brake, c.Gear)
}

// Car 赛车
// 功能：宿主维护的一辆赛车的全部可见信息
type Car struct {
	ID      int32
	Name    string
	Pos     TrackPos       // 赛道局部坐标
	Global  geometry.Point // 全局坐标，由宿主根据Pos换算
	RacePos int            // 当前名次，从1开始
	Laps    int32          // 已完成圈数
	State   CarState
	Ctrl    Control // 上一步的控制指令
}

// Situation 每步的世界快照
type Situation struct {
	Step int32   // 当前步数
	DT   float64 // 步长（秒）
	Cars []*Car  // 全部赛车（含自身），允许出现nil
}
