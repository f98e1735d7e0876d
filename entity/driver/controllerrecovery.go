package driver

import (
	"github.com/tsinghua-fib-lab/hemic-racer/entity"
)

const (
	UnstuckingSteps = 90 // 强制倒车步数

	stuckSteps    = 20 // 超过该步数未移动视为卡住
	moveThreshold = 1. // 移动判定速度（米/秒）
	reverseAccel  = .3 // 倒车油门
	launchAccel   = .6 // 起步油门
	reverseGear   = -1 // 倒挡
	launchGear    = 1  // 起步挡
)

// Recover 卡住检测与脱困
// 功能：在其他阶段给出候选指令之后执行，必要时覆盖指令
// 参数：state-控制器状态，speed-当前速度，lat-横向控制结果，cmd-候选指令（原地修改）
// 返回：本步覆盖时的剩余倒车步数（递减前），未覆盖时为0
// 算法说明：
// 1. 速度超过移动阈值：记录本步为最近移动步，标记已起步
// 2. 否则已起步、不在倒车中且超过20步未移动：剩余倒车步数置为90
// 3. 剩余倒车步数大于0：倒挡、油门0.3、无刹车、转向取反，剩余步数减一；
//    倒车的每一步都计为一次移动尝试，倒车结束后重新等待20步才会再次触发
// 4. 尚未起步：1挡、油门0.6、无刹车，保证比赛开始时总会尝试起步
func Recover(state *State, speed float64, lat Lateral, cmd *entity.Control) (remaining int) {
	if speed > moveThreshold {
		state.LastMoveStep = state.CurrentStep
		state.HasLaunched = true
	} else if state.HasLaunched && state.RemainingBackwardSteps == 0 &&
		state.CurrentStep-state.LastMoveStep > stuckSteps {
		log.Debugf("stuck since step %d, start reversing", state.LastMoveStep)
		state.RemainingBackwardSteps = UnstuckingSteps
	}

	if state.RemainingBackwardSteps > 0 {
		remaining = state.RemainingBackwardSteps
		cmd.Gear = reverseGear
		cmd.Accel = reverseAccel
		cmd.Brake = 0
		cmd.Steer = -lat.Steer
		state.RemainingBackwardSteps--
		state.LastMoveStep = state.CurrentStep
	}

	if !state.HasLaunched {
		cmd.Gear = launchGear
		cmd.Accel = launchAccel
		cmd.Brake = 0
	}
	return
}
