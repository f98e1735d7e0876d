package entity

import (
	"git.fiblab.net/general/common/v2/geometry"
)

// 依赖倒置

// entity/track/track.go的依赖倒置
type ITrack interface {
	Name() string
	Length() float64       // 一圈长度（米）
	Segments() []*Segment  // 全部分段，按赛道顺序
	Get(id int32) *Segment // 输入分段ID，查找分段，如果不存在则panic

	LocalToGlobal(pos TrackPos) geometry.Point // 局部坐标转全局坐标
	GlobalToLocal(p geometry.Point) TrackPos   // 全局坐标投影到赛道局部坐标
	DirectionAt(s float64) float64             // 中心线在一圈累计距离s处的切向角（弧度）
}

// entity/track/model.go的依赖倒置
// 说明：控制器只需要以下三个查询
type ITrackModel interface {
	TangentAngle(pos TrackPos) float64     // 理想线切向角（弧度）
	OffsetFromCenter(pos TrackPos) float64 // 理想线相对中心线的偏移（米），向右为正
	MaxSpeed(pos TrackPos) float64         // 推荐最高速度（米/秒）
}

// entity/driver/robot.go的依赖倒置
// 功能：宿主调用的五个生命周期操作
type IRobot interface {
	Name() string

	NewTrack(track ITrack)                         // 换赛道或新比赛时调用
	NewRace()                                      // 比赛开始
	Drive(self *Car, situation *Situation) Control // 每步调用一次
	EndRace()                                      // 比赛结束
	Shutdown()                                     // 模块卸载前调用
}
