package task

import (
	"fmt"
	"sync/atomic"

	"github.com/tsinghua-fib-lab/hemic-racer/clock"
	"github.com/tsinghua-fib-lab/hemic-racer/entity"
	"github.com/tsinghua-fib-lab/hemic-racer/entity/driver"
	"github.com/tsinghua-fib-lab/hemic-racer/entity/track"
	"github.com/tsinghua-fib-lab/hemic-racer/utils/config"
	"github.com/tsinghua-fib-lab/hemic-racer/utils/container"
	"github.com/tsinghua-fib-lab/hemic-racer/utils/input"
	"github.com/tsinghua-fib-lab/hemic-racer/utils/randengine"
)

const (
	gridJitter   = 0.5  // 发车位置横向随机扰动（米）
	finishedBias = 1e12 // 已完赛车辆的名次优先级偏置
)

// racer 一辆参赛车辆与控制它的模块
type racer struct {
	car   *entity.Car
	robot entity.IRobot
	ctrl  entity.Control // 最近一次控制指令，在子循环内保持

	lastS    float64 // 上一子步的一圈累计距离，用于计圈
	finished bool
	finishT  float64
}

// progress 比赛进度（米）
func (r *racer) progress(lapLength float64) float64 {
	return float64(r.car.Laps)*lapLength + r.car.Pos.LapS()
}

// Context 比赛任务上下文
// 功能：包含一场比赛的所有变量和状态
// 说明：宿主按顺序调用每个控制模块的生命周期操作，并用运动学模型推进车辆
type Context struct {
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock
	// 赛道
	track *track.Track
	// 参赛车辆，按发车顺序
	racers []*racer
	// 世界快照中的车辆列表，与racers一一对应
	cars []*entity.Car
	// 名次计算
	standings *container.PriorityQueue[*racer]
	// 随机数引擎，只用于初始化
	generator *randengine.Engine

	// 运行时配置
	runtimeConfig *config.RuntimeConfig
}

// NewContext 创建新的比赛任务上下文
// 功能：构造赛道与参赛车辆，每辆车分配一个独立的控制模块实例
// 参数：c-配置对象，data-赛道输入数据
// 返回：Context实例
// 算法说明：
// 1. 补全运行时配置，创建时钟与随机数引擎
// 2. 由输入数据构造赛道几何
// 3. 为每辆车创建控制模块，横向G值按配置的离散度随机扰动，使各车节奏不同
func NewContext(c config.Config, data *input.Track) (*Context, error) {
	ctx := &Context{
		runtimeConfig: config.NewRuntimeConfig(c),
	}
	rc := ctx.runtimeConfig
	ctx.clock = clock.New(rc.C.Step)
	ctx.generator = randengine.New(rc.R.Seed)

	t, err := track.New(data)
	if err != nil {
		return nil, fmt.Errorf("build track: %w", err)
	}
	ctx.track = t

	for i := 0; i < rc.R.Cars; i++ {
		cfg := rc.D
		spread := rc.R.PaceSpread
		cfg.MaxLateralG *= ctx.generator.NormClamped(1, spread, 2*spread)
		name := fmt.Sprintf("%s %d", driver.ModuleName, i+1)
		car := &entity.Car{
			ID:   int32(i),
			Name: name,
			State: entity.CarState{
				EngineRPMRedLine: rc.R.Redline,
				SteerLock:        rc.R.SteerLock,
			},
		}
		ctx.racers = append(ctx.racers, &racer{
			car:   car,
			robot: driver.NewRobot(i, name, cfg),
		})
		ctx.cars = append(ctx.cars, car)
	}
	ctx.standings = container.NewPriorityQueue[*racer](len(ctx.racers))
	return ctx, nil
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) Track() entity.ITrack {
	return ctx.track
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

// Cars 参赛车辆，按发车顺序
func (ctx *Context) Cars() []*entity.Car {
	return ctx.cars
}

// Init 发车
// 功能：把车辆排到发车格上，并调用各控制模块的NewTrack与NewRace
// 算法说明：
// 1. 第i辆车位于起点线后i个格距，首辆车向前移半个格距，避免恰好压在起点线上
// 2. 左右交错排列，并附加横向随机扰动
// 3. 位于起点线后的车辆圈数记为-1，越过起点线后变为0
func (ctx *Context) Init() {
	ctx.clock.Init()
	rc := ctx.runtimeConfig
	length := ctx.track.Length()

	log.Infof("track %s: %.1fm, %d segments", ctx.track.Name(), length, len(ctx.track.Segments()))
	log.Infof("cars: %d", len(ctx.racers))

	for i, r := range ctx.racers {
		s := rc.R.GridGap/2 - float64(i)*rc.R.GridGap
		laps := int32(0)
		for s < 0 {
			s += length
			laps--
		}
		seg := ctx.track.SegmentAt(s)
		toStart := s - seg.StartS
		side := 1.
		if i%2 == 1 {
			side = -1
		}
		toMiddle := side*track.WidthAt(seg, toStart)/4 + ctx.generator.Uniform(-gridJitter, gridJitter)

		car := r.car
		car.Global = ctx.track.LocalToGlobal(entity.TrackPos{Seg: seg, ToStart: toStart, ToMiddle: toMiddle})
		car.Pos = ctx.track.GlobalToLocal(car.Global)
		car.Laps = laps
		car.State.Speed = 0
		car.State.Gear = 0
		car.State.Yaw = ctx.track.DirectionAt(s)
		car.Ctrl = driver.Neutral()
		r.ctrl = car.Ctrl
		r.lastS = car.Pos.LapS()
		r.finished = false
	}
	ctx.updateStandings()

	for _, r := range ctx.racers {
		r.robot.NewTrack(ctx.track)
		r.robot.NewRace()
	}
}

// updateStandings 按比赛进度计算名次
// 说明：已完赛车辆按完赛时间排在未完赛车辆之前，进度相同的车辆保持发车顺序
func (ctx *Context) updateStandings() {
	length := ctx.track.Length()
	for _, r := range ctx.racers {
		if r.finished {
			ctx.standings.Push(r, r.finishT-finishedBias)
		} else {
			ctx.standings.Push(r, -r.progress(length))
		}
	}
	for i, r := range ctx.standings.Drain() {
		r.car.RacePos = i + 1
	}
}

// Standings 当前名次，第一名在前
func (ctx *Context) Standings() []*entity.Car {
	standings := make([]*entity.Car, len(ctx.cars))
	for _, car := range ctx.cars {
		standings[car.RacePos-1] = car
	}
	return standings
}

// Close 请求在当前步结束后停止比赛
func (ctx *Context) Close() {
	ctx.closed.Store(true)
}
