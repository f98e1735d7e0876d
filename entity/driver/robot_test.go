package driver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/hemic-racer/entity"
	"github.com/tsinghua-fib-lab/hemic-racer/entity/driver"
	"github.com/tsinghua-fib-lab/hemic-racer/entity/track"
	"github.com/tsinghua-fib-lab/hemic-racer/utils/config"
	"github.com/tsinghua-fib-lab/hemic-racer/utils/input"
)

func TestRobotLifecycle(t *testing.T) {
	tr, err := track.New(&input.Track{
		Name: "oval",
		Segments: []input.SegmentData{
			{Type: "straight", Length: 200, Width: 15},
			{Type: "left", Radius: 50, Arc: 180, Width: 15},
			{Type: "straight", Length: 200, Width: 15},
			{Type: "left", Radius: 50, Arc: 180, Width: 15},
		},
	})
	require.NoError(t, err)

	r := driver.NewRobot(0, "", config.Driver{MaxBrakeG: 1.6, MaxLateralG: 1.6, Diagnostic: true})
	assert.Equal(t, driver.ModuleName, r.Name())

	self := &entity.Car{
		Pos:   entity.TrackPos{Seg: tr.Get(0), ToStart: 100, ToLeft: 7.5},
		State: entity.CarState{Gear: 1, EngineRPMRedLine: 800, SteerLock: 0.366},
	}
	self.Global = tr.LocalToGlobal(self.Pos)
	s := &entity.Situation{DT: 0.02, Cars: []*entity.Car{self}}

	// 加载赛道前退回空挡指令
	assert.Equal(t, driver.Neutral(), r.Drive(self, s))

	r.NewTrack(tr)
	r.NewRace()
	assert.Equal(t, driver.State{}, r.State())

	cmd := r.Drive(self, s)
	assert.Equal(t, 1, cmd.Gear)
	assert.Equal(t, 0.6, cmd.Accel)
	assert.Equal(t, 1, r.State().CurrentStep)

	// 直道上低速行驶：全油门、不刹车、基本不转向
	self.State.Speed = 10
	self.State.EngineRPM = 300
	cmd = r.Drive(self, s)
	assert.Equal(t, 1., cmd.Accel)
	assert.Equal(t, 0., cmd.Brake)
	assert.InDelta(t, 0, cmd.Steer, 0.05)
	assert.True(t, r.State().HasLaunched)

	r.EndRace()
	r.NewRace()
	assert.Equal(t, driver.State{}, r.State())

	r.Shutdown()
	assert.Equal(t, driver.Neutral(), r.Drive(self, s))
}

func TestRobotsIndependent(t *testing.T) {
	a := driver.NewRobot(0, "a", config.Driver{})
	b := driver.NewRobot(1, "b", config.Driver{})
	b.NewRace()

	self := &entity.Car{Pos: entity.TrackPos{Seg: seg}}
	a.Drive(self, nil)
	a.Drive(self, nil)
	assert.Equal(t, 2, a.State().CurrentStep)
	assert.Equal(t, 0, b.State().CurrentStep)
}

func TestDriveReportsCurvature(t *testing.T) {
	tr, err := track.New(&input.Track{
		Name: "oval",
		Segments: []input.SegmentData{
			{Type: "straight", Length: 200, Width: 15},
			{Type: "left", Radius: 50, Arc: 180, Width: 15},
			{Type: "straight", Length: 200, Width: 15},
			{Type: "left", Radius: 50, Arc: 180, Width: 15},
		},
	})
	require.NoError(t, err)
	model := track.NewModel(tr, 1.6, 1.6, 0.0005)

	corner := tr.Get(1)
	self := &entity.Car{
		Pos:   entity.TrackPos{Seg: corner, ToStart: corner.Length / 2, ToLeft: 7.5},
		State: entity.CarState{Gear: 1, Speed: 10, EngineRPMRedLine: 800, SteerLock: 0.366},
	}
	self.Global = tr.LocalToGlobal(self.Pos)

	var state driver.State
	_, diag := driver.Drive(model, &state, self, &entity.Situation{Cars: []*entity.Car{self}})
	assert.InDelta(t, 1/50., diag.Curvature, 1.5e-3)
	assert.Contains(t, diag.String(), "k=+0.0")

	// 固定值的模型不提供曲率
	_, diag = driver.Drive(flatModel{maxSpeed: 50}, &state, self, nil)
	assert.Equal(t, 0., diag.Curvature)
}
