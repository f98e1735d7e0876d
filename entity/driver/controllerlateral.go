package driver

import (
	"math"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/hemic-racer/entity"
)

const (
	steerSensitivity   = 1.  // 纠偏灵敏度
	maxCorrectiveAngle = .2  // 纠偏角上限（弧度）
	widthMarginRatio   = .20 // 目标偏移上限 = 0.2*(起点宽度+终点宽度)，即半宽减去安全余量
)

// Lateral 横向控制结果
type Lateral struct {
	Angle  float64 // 期望转向角（弧度）= 航向误差 + 纠偏角
	Offset float64 // 限幅后的目标偏移（米）
	Steer  float64 // 归一化转向指令，[-1,1]
}

// Steer 横向控制
// 功能：跟随理想线，叠加机动偏置，并把目标偏移限制在可行驶宽度内
// 参数：model-赛道模型，self-自身车辆，maneuver-机动偏置
// 返回：横向控制结果
// 算法说明：
// 1. 航向误差 = 理想线切向角 - 航向角，归一化到(-π, π]
// 2. 目标偏移 = 理想线偏移 + 机动偏置，限制在±0.2*(起点宽度+终点宽度)
// 3. 纠偏角 = -(toMiddle + 目标偏移) / 分段宽度，限制在±0.2弧度；分段宽度为0时不纠偏
// 4. 转向指令 = (航向误差 + 纠偏角) / 最大转向角
func Steer(model entity.ITrackModel, self *entity.Car, maneuver float64) (l Lateral) {
	pos := self.Pos
	angle := normPiPi(model.TangentAngle(pos) - self.State.Yaw)

	offset := model.OffsetFromCenter(pos) + maneuver
	var wh, width float64
	if pos.Seg != nil {
		wh = widthMarginRatio * (pos.Seg.StartWidth + pos.Seg.EndWidth)
		width = pos.Seg.Width
	}
	offset = lo.Clamp(offset, -wh, wh)

	var correctiveAngle float64
	if width > 0 {
		correctiveAngle = -(steerSensitivity * (pos.ToMiddle + offset)) / width
		correctiveAngle = lo.Clamp(correctiveAngle, -maxCorrectiveAngle, maxCorrectiveAngle)
	}
	if !isFinite(correctiveAngle) {
		correctiveAngle = 0
	}
	angle += correctiveAngle

	l.Angle = angle
	l.Offset = offset
	if lock := self.State.SteerLock; lock > 0 {
		l.Steer = lo.Clamp(angle/lock, -1, 1)
	}
	return
}

// normPiPi 将角度归一化到(-π, π]
func normPiPi(a float64) float64 {
	if !isFinite(a) {
		return a
	}
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
