package task

import (
	"flag"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/hemic-racer/entity"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 500, "心跳日志间隔（控制步数）")
)

// prepare 准备阶段，每个控制步执行一次
// 功能：计算名次并生成本步的世界快照
// 返回：世界快照，控制模块只读
func (ctx *Context) prepare() *entity.Situation {
	ctx.updateStandings()

	step := ctx.clock.ExternalStep()
	if *heartBeatInterval > 0 && step%int32(*heartBeatInterval) == 0 {
		leader := ctx.Standings()[0]
		log.Infof(
			"STEP: %d(%s) leader: %s lap %d, %.1fm/s",
			step, ctx.clock, leader.Name, leader.Laps, leader.State.Speed,
		)
	}
	return &entity.Situation{
		Step: step,
		DT:   ctx.clock.ControlDT(),
		Cars: ctx.cars,
	}
}

// drive 并发调用每辆车的控制模块
// 说明：各控制模块的状态互不共享，快照在本阶段内不被修改
func (ctx *Context) drive(situation *entity.Situation) {
	parallel.GoFor(ctx.racers, func(r *racer) {
		if r.finished {
			r.ctrl = entity.Control{Brake: 1, Gear: 1}
		} else {
			r.ctrl = r.robot.Drive(r.car, situation)
		}
		r.car.Ctrl = r.ctrl
	})
}

// update 更新阶段，每个物理子步执行一次
// 功能：并发积分每辆车的运动并计圈
// 算法说明：
// 1. 按最近一次控制指令积分车辆运动
// 2. 一圈累计距离的跳变超过半圈时视为越过起点线，正向加一圈，反向减一圈
// 3. 圈数达到设定值的车辆完赛，记录完赛时间
func (ctx *Context) update() {
	dt := ctx.clock.DT
	length := ctx.track.Length()
	laps := ctx.runtimeConfig.R.Laps
	t := ctx.clock.T
	justFinished := parallel.GoMap(ctx.racers, func(r *racer) bool {
		stepCar(ctx.track, r.car, r.ctrl, dt)

		s := r.car.Pos.LapS()
		if ds := s - r.lastS; ds < -length/2 {
			r.car.Laps++
		} else if ds > length/2 {
			r.car.Laps--
		}
		r.lastS = s
		if laps > 0 && !r.finished && r.car.Laps >= laps {
			r.finished = true
			r.finishT = t + dt
			return true
		}
		return false
	})
	for i, ok := range justFinished {
		if ok {
			log.Infof("%s finished at %s", ctx.racers[i].car.Name, ctx.clock)
		}
	}
}

// allFinished 是否全部完赛
func (ctx *Context) allFinished() bool {
	return len(ctx.racers) > 0 && lo.EveryBy(ctx.racers, func(r *racer) bool { return r.finished })
}

// Run 运行
// 功能：执行一场完整的比赛
// 算法说明：
// 1. 发车，调用各控制模块的NewTrack与NewRace
// 2. 每个控制步：计算名次、生成快照、调用Drive
// 3. 每个物理子步：积分车辆运动、计圈
// 4. 到达结束步、全部完赛或收到关闭指令后，调用EndRace与Shutdown
func (ctx *Context) Run() {
	ctx.Init()
	for !ctx.clock.Done() && !ctx.closed.Load() && !ctx.allFinished() {
		if ctx.clock.NoInSubloop() {
			ctx.drive(ctx.prepare())
		}
		ctx.update()
		ctx.clock.Next()
	}
	ctx.updateStandings()
	for _, r := range ctx.racers {
		r.robot.EndRace()
	}
	for i, car := range ctx.Standings() {
		log.Infof("P%d: %s laps=%d", i+1, car.Name, car.Laps)
	}
	for _, r := range ctx.racers {
		r.robot.Shutdown()
	}
	log.Infof("race complete at %s", ctx.clock)
}
