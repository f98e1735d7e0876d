package driver

import (
	"math"

	"github.com/tsinghua-fib-lab/hemic-racer/entity"
)

const (
	CollisionWarningDist = 7.  // 碰撞预警距离（米）
	ManeuverInnovation   = 0.1 // 机动偏置的更新系数

	collisionAvoidGain = 10.  // 避让增益
	obstructOpGain     = -10. // 阻挡增益
)

// UpdateManeuver 更新横向机动偏置
// 功能：在上一步偏置衰减的基础上叠加避让或阻挡分量，并维护阻挡模式锁存
// 参数：state-控制器状态，self-自身车辆，op-最近的对手
// 返回：本步的机动偏置（向右为正，与理想线偏移同向）
// 算法说明：
// 1. maneuver = (1-K) * lastManeuver
// 2. 对手在预警距离内时，按到左边界距离之差的符号取方向dir（差为0时取+1）
// 3. intrusion = dir * (D - distance) / D，距离越近越大
// 4. 名次领先于对手或已处于阻挡模式：进入（保持）阻挡模式，maneuver += -K * obstructGain * intrusion
// 5. 否则避让前车：maneuver += K * avoidGain * intrusion
// 6. 对手离开预警距离才解除阻挡模式，被超车时不会突然切换到避让
func UpdateManeuver(state *State, self *entity.Car, op Opponent) float64 {
	maneuver := (1 - ManeuverInnovation) * state.LastManeuver

	if op.Car != nil && op.Distance < CollisionWarningDist {
		diff := self.Pos.ToLeft - op.Car.Pos.ToLeft
		dir := 1.
		if diff < 0 {
			dir = -1
		}
		intrusion := dir * (CollisionWarningDist - op.Distance) / CollisionWarningDist

		opBehind := self.RacePos < op.Car.RacePos
		if opBehind || state.IsObstructing {
			// 对手在身后，阻挡而不是避让
			state.IsObstructing = true
			maneuver += -ManeuverInnovation * obstructOpGain * intrusion
		} else {
			maneuver += ManeuverInnovation * collisionAvoidGain * intrusion
		}
		log.Tracef("collision warning: intrusion=%v, maneuver=%v, obstruct=%v", intrusion, maneuver, state.IsObstructing)
	} else {
		state.IsObstructing = false
	}

	if math.IsNaN(maneuver) || math.IsInf(maneuver, 0) {
		maneuver = 0
	}
	state.LastManeuver = maneuver
	return maneuver
}
