package task

import (
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/hemic-racer/entity"
	"github.com/tsinghua-fib-lab/hemic-racer/entity/track"
)

const (
	wheelBase    = 2.6  // 轴距（米）
	wheelRadius  = 0.33 // 车轮半径（米）
	finalDrive   = 4.5  // 主减速比
	engineAccel  = 9.   // 1挡全油门加速度（米/秒²）
	brakeDecel   = 1.8 * track.G
	tractionAcc  = 0.9 * track.G // 驱动轮纵向附着极限
	lateralAcc   = 1.8 * track.G // 横向附着极限
	rollingDecel = 0.3           // 滚动阻力（米/秒²）
	dragCoef     = 4e-4          // 空气阻力系数，a = c*v²
	slipGain     = 4.            // 超出附着极限的加速度折算为滑移量
	skidGain     = 1.            // 超出横向附着的加速度折算为侧滑量

	offTrackMargin = 1. // 超出边界该距离后视为驶出赛道（米）
	offTrackDecel  = 6. // 驶出赛道后的附加减速度（米/秒²）

	minGear = -1
	maxGear = 6
)

// gearRatios 按挡位-1..6排列的传动比，空挡为0
var gearRatios = [...]float64{-3.0, 0, 3.2, 2.2, 1.6, 1.25, 1.0, 0.85}

func gearRatio(gear int) float64 {
	return gearRatios[lo.Clamp(gear, minGear, maxGear)-minGear]
}

// stepCar 运动学积分一个物理子步
// 功能：按控制指令更新车辆速度、航向、位置与发动机、轮胎状态
// 参数：t-赛道，car-车辆（原地修改），ctrl-控制指令，dt-子步长
// 算法说明：
// 1. 发动机：驱动加速度随传动比缩放，达到红线转速后断油；超出纵向附着的部分记为驱动轮滑移
// 2. 制动、滚阻、风阻：与速度方向相反，不会使速度反向
// 3. 转向：自行车模型 yawRate = v*tan(δ)/L，横向加速度超出附着极限时按比例削减并记为侧滑
// 4. 驶出赛道边界后附加减速
// 5. 位置积分后投影回赛道局部坐标
func stepCar(t *track.Track, car *entity.Car, ctrl entity.Control, dt float64) {
	st := &car.State
	st.Gear = lo.Clamp(ctrl.Gear, minGear, maxGear)
	v := st.Speed

	ratio := gearRatio(st.Gear)
	st.EngineRPM = math.Abs(v) / wheelRadius * math.Abs(ratio) * finalDrive
	drive := 0.
	if ratio != 0 && st.EngineRPM < st.EngineRPMRedLine {
		drive = ctrl.Accel * engineAccel * ratio / gearRatios[2]
	}
	slip := 0.
	if math.Abs(drive) > tractionAcc {
		slip = -(math.Abs(drive) - tractionAcc) * slipGain
		drive = math.Copysign(tractionAcc, drive)
	}
	// 后轮驱动
	st.SlipAccel = [entity.WHEELS]float64{0, 0, slip, slip}

	resist := ctrl.Brake*brakeDecel + rollingDecel + dragCoef*v*v
	if !onTrack(car.Pos) {
		resist += offTrackDecel
	}
	next := v + drive*dt
	if next > 0 {
		next = math.Max(next-resist*dt, 0)
	} else if next < 0 {
		next = math.Min(next+resist*dt, 0)
	}
	v = next

	yawRate := v * math.Tan(ctrl.Steer*st.SteerLock) / wheelBase
	skid := 0.
	if latAcc := math.Abs(v * yawRate); latAcc > lateralAcc {
		skid = (latAcc - lateralAcc) * skidGain
		yawRate *= lateralAcc / latAcc
	}
	st.Skid = [entity.WHEELS]float64{skid, skid, skid, skid}

	st.Speed = v
	st.Yaw = normPiPi(st.Yaw + yawRate*dt)
	car.Global = geometry.Point{
		X: car.Global.X + v*dt*math.Cos(st.Yaw),
		Y: car.Global.Y + v*dt*math.Sin(st.Yaw),
	}
	car.Pos = t.GlobalToLocal(car.Global)
}

func onTrack(pos entity.TrackPos) bool {
	if pos.Seg == nil {
		return false
	}
	half := track.WidthAt(pos.Seg, pos.ToStart) / 2
	return math.Abs(pos.ToMiddle) <= half+offTrackMargin
}

// normPiPi 将角度归一化到(-π, π]
func normPiPi(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
