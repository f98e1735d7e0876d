package driver

import (
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/hemic-racer/entity"
	"github.com/tsinghua-fib-lab/hemic-racer/entity/track"
	"github.com/tsinghua-fib-lab/hemic-racer/utils/config"
)

const (
	ModuleName = "Hemic"
	ModuleDesc = "2017 TU München research project by Michael Heinrich and Jonas Natzer"
	Version    = "0.07"
)

// Robot 赛车控制器模块
// 功能：实现宿主调用的五个生命周期操作，每辆受控车辆一个实例，状态互不共享
type Robot struct {
	index int
	name  string
	cfg   config.Driver

	model entity.ITrackModel // 赛道模型，NewTrack时创建
	state State              // 跨步状态
}

// NewRobot 创建控制器
// 参数：index-宿主分配的模块下标，name-车辆名，cfg-控制器配置
func NewRobot(index int, name string, cfg config.Driver) *Robot {
	if name == "" {
		name = ModuleName
	}
	return &Robot{
		index: index,
		name:  name,
		cfg:   cfg,
	}
}

func (r *Robot) Name() string {
	return r.name
}

// State 当前跨步状态的副本
func (r *Robot) State() State {
	return r.state
}

// NewTrack 换赛道或新比赛时调用，重建赛道模型
func (r *Robot) NewTrack(t entity.ITrack) {
	r.model = track.NewModel(t, r.cfg.MaxBrakeG, r.cfg.MaxLateralG, r.cfg.SuctionGPerMSS)
	log.Infof("%s[%d]: track %s loaded (%.1fm)", r.name, r.index, t.Name(), t.Length())
}

// NewRace 比赛开始，复位跨步状态
func (r *Robot) NewRace() {
	log.Infof("%s[%d]: version %s", r.name, r.index, Version)
	r.state.Reset()
}

// Drive 每步调用一次
func (r *Robot) Drive(self *entity.Car, situation *entity.Situation) entity.Control {
	cmd, diag := Drive(r.model, &r.state, self, situation)
	if r.cfg.Diagnostic && log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		log.WithField("car", r.name).Debug(diag.String())
	}
	return cmd
}

// EndRace 比赛结束，没有需要保存的状态
func (r *Robot) EndRace() {
	log.Debugf("%s[%d]: end race at step %d", r.name, r.index, r.state.CurrentStep)
}

// Shutdown 模块卸载前调用
func (r *Robot) Shutdown() {
	r.model = nil
}

var _ entity.IRobot = (*Robot)(nil)
