package driver

// State 控制器跨步保持的状态
// 功能：一场比赛内由控制器独占，只在Drive中被修改，新比赛开始时复位
type State struct {
	LastManeuver  float64 // 上一步的横向机动偏置（指数衰减）
	IsObstructing bool    // 是否处于阻挡模式（锁存）

	LastMoveStep           int  // 最近一次速度超过移动阈值的步数
	CurrentStep            int  // 当前步数
	RemainingBackwardSteps int  // 剩余强制倒车步数
	HasLaunched            bool // 本场比赛是否已经起步
}

// Reset 复位为默认值
func (s *State) Reset() {
	*s = State{}
}
