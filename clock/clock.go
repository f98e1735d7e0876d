package clock

import (
	"fmt"

	"github.com/tsinghua-fib-lab/hemic-racer/utils/config"
)

// Clock 比赛时钟
// 功能：管理比赛的时间推进，物理积分按子循环细分，控制器只在完整的控制步上调用
// 说明：维护当前比赛时间、内部步数等信息，提供时间格式化
type Clock struct {
	DT         float64 // 每个物理子步的时间间隔（秒）
	SUBLOOP    int32   // 每个控制步内部循环次数
	START_STEP int32   // 起始步
	END_STEP   int32   // 结束步，比赛区间[START, END)

	T            float64 // 当前时间（秒）
	InternalStep int32   // 当前内部步数
}

// New 根据配置创建新的时钟实例
// 功能：根据控制步配置初始化时钟信息
// 参数：stepConfig-控制步配置，包含时间间隔、子循环数等信息
// 返回：初始化完成的时钟实例
// 算法说明：
// 1. 获取子循环数（未配置时为1）
// 2. 计算物理步长：dt = interval / subloop
// 3. 计算起始和结束步数（考虑子循环缩放）
func New(stepConfig config.ControlStep) *Clock {
	subloop := max(stepConfig.Subloop, 1)
	dt := stepConfig.Interval / float64(subloop)
	c := &Clock{
		DT:         dt,
		SUBLOOP:    subloop,
		START_STEP: stepConfig.Start * subloop,
		END_STEP:   (stepConfig.Start + stepConfig.Total) * subloop,
	}
	c.Init()
	return c
}

// Init 重置到起始步
func (c *Clock) Init() {
	c.InternalStep = c.START_STEP
	c.T = float64(c.InternalStep) * c.DT
}

// Next 前进一个物理子步
func (c *Clock) Next() {
	c.InternalStep++
	c.T = float64(c.InternalStep) * c.DT
}

// ControlDT 控制步的时间间隔（秒）
func (c *Clock) ControlDT() float64 {
	return c.DT * float64(c.SUBLOOP)
}

// ExternalStep 控制器看到的步数
func (c *Clock) ExternalStep() int32 {
	return c.InternalStep / c.SUBLOOP
}

// NoInSubloop 检查是否处于控制步的边界
// 返回：true表示本步需要调用控制器
func (c *Clock) NoInSubloop() bool {
	return c.InternalStep%c.SUBLOOP == 0
}

// Done 比赛区间是否已经结束
func (c *Clock) Done() bool {
	return c.InternalStep >= c.END_STEP
}

// String 格式化为圈速风格的 mm:ss.sss
func (c *Clock) String() string {
	m, s := c.GetMinuteSecond()
	return fmt.Sprintf("%02d:%06.3f", m, s)
}

// GetMinuteSecond 获取当前时间的分钟、秒
// 返回：分钟、秒（秒为浮点数，支持亚秒级精度）
func (c *Clock) GetMinuteSecond() (int, float64) {
	minute := int(c.T) / 60
	second := c.T - float64(minute*60)
	return minute, second
}
