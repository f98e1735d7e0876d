package driver

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/hemic-racer/entity"
)

// Diagnostic 单步诊断信息
// 功能：记录各阶段的中间结果，只用于输出，不影响控制
type Diagnostic struct {
	Step          int     // 步数
	Offset        float64 // 限幅后的目标偏移
	Maneuver      float64 // 机动偏置
	Obstructing   bool    // 是否处于阻挡模式
	OpponentDist  float64 // 最近对手距离
	Speed         float64 // 当前速度
	SpeedLimit    float64 // 推荐最高速度
	Slip          float64 // 平均滑移
	Skid          float64 // 平均侧滑（不参与控制）
	Curvature     float64 // 赛道曲率，赛道模型不提供时为0
	RecoveryTicks int     // 本步覆盖时的剩余倒车步数
	Neutral       bool    // 是否退回空挡指令
	Ctrl          entity.Control
}

func (d Diagnostic) String() string {
	return fmt.Sprintf(
		"off=%+.3f, acc=%.3f, brk=%.3f, spd=%.3f, spdLim=%.3f, "+
			"slip=%.3f, skid=%.3f, man=%+.3f, opDist=%.3f, obstruct=%t, k=%+.4f",
		d.Offset, d.Ctrl.Accel, d.Ctrl.Brake, d.Speed, d.SpeedLimit,
		d.Slip, d.Skid, d.Maneuver, d.OpponentDist, d.Obstructing, d.Curvature,
	)
}

// curvatureModel 可选的曲率查询，只用于诊断
type curvatureModel interface {
	Curvature(pos entity.TrackPos) float64
}

// Neutral 安全指令：不转向、不给油、刹车、空挡
func Neutral() entity.Control {
	return entity.Control{Steer: 0, Accel: 0, Brake: 1, Gear: 0}
}

// Drive 每步的控制决策
// 功能：根据世界快照与跨步状态计算本步控制指令
// 参数：model-赛道模型，state-控制器状态（原地修改），self-自身车辆，situation-世界快照
// 返回：控制指令与诊断信息
// 算法说明：
// 1. 对手扫描：找到最近的对手
// 2. 机动偏置：避让或阻挡，偏置随步数指数衰减
// 3. 横向控制：跟随理想线并纠偏
// 4. 纵向控制：速度曲线、换挡、牵引力限制
// 5. 脱困覆盖：卡住后强制倒车，未起步时强制起步
// 说明：
//   - 只读快照，不修改任何车辆
//   - 任一阶段给出非有限值时整体退回Neutral()
//   - 无论结果如何当前步数都会加一
func Drive(model entity.ITrackModel, state *State, self *entity.Car, situation *entity.Situation) (entity.Control, Diagnostic) {
	defer func() { state.CurrentStep++ }()

	diag := Diagnostic{Step: state.CurrentStep}
	if model == nil || self == nil {
		diag.Neutral = true
		diag.Ctrl = Neutral()
		return diag.Ctrl, diag
	}

	var cars []*entity.Car
	if situation != nil {
		cars = situation.Cars
	}
	op := ScanOpponents(self, cars)
	maneuver := UpdateManeuver(state, self, op)
	lat := Steer(model, self, maneuver)

	speed := self.State.Speed
	speedLim := model.MaxSpeed(self.Pos)
	cmd := entity.Control{Steer: lat.Steer}
	cmd.Accel, cmd.Brake = SpeedCurve(speed - speedLim)
	cmd.Gear = SelectGear(self.State.Gear, self.State.EngineRPM, self.State.EngineRPMRedLine)

	slip := AverageSlip(self)
	cmd.Accel = LimitTraction(cmd.Accel, slip)

	diag.RecoveryTicks = Recover(state, speed, lat, &cmd)

	if !isFinite(cmd.Steer) || !isFinite(cmd.Accel) || !isFinite(cmd.Brake) {
		log.Warnf("non-finite control %v at step %d, fall back to neutral", cmd, state.CurrentStep)
		cmd = Neutral()
		diag.Neutral = true
	}
	cmd.Steer = lo.Clamp(cmd.Steer, -1, 1)
	cmd.Accel = lo.Clamp(cmd.Accel, 0, 1)
	cmd.Brake = lo.Clamp(cmd.Brake, 0, 1)

	diag.Offset = lat.Offset
	diag.Maneuver = maneuver
	diag.Obstructing = state.IsObstructing
	diag.OpponentDist = op.Distance
	diag.Speed = speed
	diag.SpeedLimit = speedLim
	diag.Slip = slip
	diag.Skid = AverageSkid(self)
	if m, ok := model.(curvatureModel); ok {
		diag.Curvature = m.Curvature(self.Pos)
	}
	diag.Ctrl = cmd
	return cmd, diag
}
