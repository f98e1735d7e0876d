package driver

import (
	"github.com/tsinghua-fib-lab/hemic-racer/entity"
)

const (
	MaxGear = 6 // 最高挡
	MinGear = 1 // 最低前进挡

	upshiftRatio   = .9 // 升挡转速占红线的比例
	downshiftRatio = .6 // 降挡转速占升挡转速的比例

	slipCut   = -10. // 平均滑移低于该值时完全收油
	slipStart = -1.  // 平均滑移低于该值时开始收油
)

// SpeedCurve 速度曲线
// 功能：根据当前速度与推荐最高速度之差dv给出油门与刹车，各分段边界处连续
// 参数：dv-当前速度减推荐最高速度
// 返回：accel-油门，brake-刹车
// 说明：
//   - dv < -2：全油门
//   - -2 ≤ dv < -1：油门 -(dv+1) 线性过渡
//   - -1 ≤ dv < 0：滑行
//   - 0 ≤ dv < 1：刹车 dv 线性过渡
//   - dv ≥ 1（以及dv为NaN）：全刹车
func SpeedCurve(dv float64) (accel, brake float64) {
	switch {
	case dv < -2:
		return 1, 0
	case dv < -1:
		return -(dv + 1), 0
	case dv < 0:
		return 0, 0
	case dv < 1:
		return 0, dv
	default:
		return 0, 1
	}
}

// SelectGear 按发动机转速升降挡
// 功能：转速超过红线的90%升一挡，低于该值的60%降一挡，结果限制在[1, 6]
func SelectGear(gear int, rpm, redline float64) int {
	maxRpm := redline * upshiftRatio
	minRpm := maxRpm * downshiftRatio

	if rpm > maxRpm {
		gear++
	} else if rpm < minRpm {
		gear--
	}
	return min(max(gear, MinGear), MaxGear)
}

// AverageSlip 四轮滑移加速度的平均值
func AverageSlip(car *entity.Car) float64 {
	return average(car.State.SlipAccel)
}

// AverageSkid 四轮侧滑量的平均值
// 说明：目前只用于诊断输出，不参与控制
func AverageSkid(car *entity.Car) float64 {
	return average(car.State.Skid)
}

func average(wheels [entity.WHEELS]float64) float64 {
	var sum float64
	for _, w := range wheels {
		sum += w
	}
	return sum * (1. / entity.WHEELS)
}

// LimitTraction 牵引力限制
// 功能：根据平均滑移覆盖速度曲线给出的油门
// 参数：accel-速度曲线给出的油门，slip-平均滑移加速度
// 返回：限制后的油门
// 算法说明：
// 1. slip < -10：完全收油
// 2. -10 ≤ slip < -1：油门在slip=-1处为1、slip=-10处为0之间线性插值
// 3. 其他情况保持原值
func LimitTraction(accel, slip float64) float64 {
	if slip < slipCut {
		return 0
	} else if slip < slipStart {
		rel := (slip - slipStart) / (slipCut - slipStart)
		return 1 - rel
	}
	return accel
}
