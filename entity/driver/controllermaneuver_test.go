package driver_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/hemic-racer/entity"
	"github.com/tsinghua-fib-lab/hemic-racer/entity/driver"
)

func TestScanOpponents(t *testing.T) {
	self := newCar(0, 0, 0)
	a := newCar(1, 3, 4)  // 5
	b := newCar(2, -5, 0) // 5，与a距离相同
	c := newCar(3, 0, 8)  // 8

	op := driver.ScanOpponents(self, []*entity.Car{nil, c, self, a, b})
	require.NotNil(t, op.Car)
	assert.Same(t, a, op.Car)
	assert.Equal(t, 5., op.Distance)
	assert.Equal(t, 3., op.Dir.X)
	assert.Equal(t, 4., op.Dir.Y)

	// 交换顺序后先出现的胜出
	op = driver.ScanOpponents(self, []*entity.Car{b, a})
	assert.Same(t, b, op.Car)

	op = driver.ScanOpponents(self, []*entity.Car{nil, self})
	assert.Nil(t, op.Car)
	op = driver.ScanOpponents(self, nil)
	assert.Nil(t, op.Car)
}

func TestManeuverDecay(t *testing.T) {
	state := driver.State{LastManeuver: 2}
	self := newCar(0, 0, 0)
	prev := state.LastManeuver
	for i := 0; i < 50; i++ {
		m := driver.UpdateManeuver(&state, self, driver.Opponent{})
		assert.InDelta(t, (1-driver.ManeuverInnovation)*prev, m, 1e-12)
		assert.Less(t, math.Abs(m), math.Abs(prev))
		prev = m
	}
	assert.InDelta(t, 2*math.Pow(0.9, 50), prev, 1e-12)
	assert.False(t, state.IsObstructing)
}

func TestObstructionLatch(t *testing.T) {
	var state driver.State
	self := newCar(0, 0, 0)
	other := newCar(1, 3, 0)
	op := driver.Opponent{Car: other, Distance: 3}

	// 第1步：名次领先，对手在身后 -> 阻挡
	self.RacePos, other.RacePos = 1, 2
	driver.UpdateManeuver(&state, self, op)
	assert.True(t, state.IsObstructing)

	// 第2步：被超车，仍在预警距离内 -> 保持阻挡
	self.RacePos, other.RacePos = 2, 1
	driver.UpdateManeuver(&state, self, op)
	assert.True(t, state.IsObstructing)

	// 第3步：对手离开预警距离 -> 解除
	driver.UpdateManeuver(&state, self, driver.Opponent{Car: other, Distance: 7.5})
	assert.False(t, state.IsObstructing)

	// 名次落后且未锁存 -> 避让
	driver.UpdateManeuver(&state, self, op)
	assert.False(t, state.IsObstructing)
}

func TestManeuverDirection(t *testing.T) {
	self := newCar(0, 0, 0)
	other := newCar(1, 0, 0)
	self.RacePos, other.RacePos = 2, 1

	// 到左边界距离相同时方向取+1
	self.Pos.ToLeft, other.Pos.ToLeft = 4, 4
	var state driver.State
	m := driver.UpdateManeuver(&state, self, driver.Opponent{Car: other, Distance: 3.5})
	assert.InDelta(t, 0.1*10*0.5, m, 1e-12)

	// 自身更靠左，向左避让（偏置为负）
	self.Pos.ToLeft, other.Pos.ToLeft = 2, 6
	state = driver.State{}
	m = driver.UpdateManeuver(&state, self, driver.Opponent{Car: other, Distance: 0})
	assert.InDelta(t, -1, m, 1e-12)

	// 阻挡分量：-K * (-10) * intrusion
	self.RacePos, other.RacePos = 1, 2
	state = driver.State{LastManeuver: 1}
	m = driver.UpdateManeuver(&state, self, driver.Opponent{Car: other, Distance: 7 - 1.4})
	assert.InDelta(t, 0.9-0.2, m, 1e-12)
	assert.Equal(t, m, state.LastManeuver)

	// 对手恰好在预警距离上不算入侵
	state = driver.State{}
	m = driver.UpdateManeuver(&state, self, driver.Opponent{Car: other, Distance: driver.CollisionWarningDist})
	assert.Equal(t, 0., m)
}

func TestSteer(t *testing.T) {
	self := newCar(0, 0, 0)
	self.State.SteerLock = 0.4

	// 航向误差归一化到(-π, π]
	self.State.Yaw = -math.Pi + 0.1
	lat := driver.Steer(flatModel{tangent: math.Pi - 0.1}, self, 0)
	assert.InDelta(t, -0.2, lat.Angle, 1e-9)

	// 纠偏角限幅0.2
	self.State.Yaw = 0
	self.Pos.ToMiddle = 5
	lat = driver.Steer(flatModel{}, self, 0)
	assert.InDelta(t, -0.2, lat.Angle, 1e-12)
	assert.InDelta(t, -0.5, lat.Steer, 1e-12)

	// 目标偏移限制在0.2*(起点宽度+终点宽度)
	self.Pos.ToMiddle = 0
	lat = driver.Steer(flatModel{offset: 3}, self, 100)
	assert.Equal(t, 4., lat.Offset)
	lat = driver.Steer(flatModel{offset: -3}, self, -100)
	assert.Equal(t, -4., lat.Offset)

	// 小偏差时不限幅：-(toMiddle+offset)/width
	self.Pos.ToMiddle = 0.5
	lat = driver.Steer(flatModel{offset: 0.5}, self, 0)
	assert.InDelta(t, -0.1, lat.Angle, 1e-12)

	// 宽度为0的退化分段不纠偏
	self.Pos.Seg = &entity.Segment{Length: 10}
	self.Pos.ToMiddle = 3
	lat = driver.Steer(flatModel{tangent: 0.1}, self, 1)
	assert.InDelta(t, 0.1, lat.Angle, 1e-12)
	assert.Equal(t, 0., lat.Offset)

	// 转向指令限制在[-1, 1]
	self.State.SteerLock = 0.1
	lat = driver.Steer(flatModel{tangent: 1.5}, self, 0)
	assert.Equal(t, 1., lat.Steer)

	self.State.SteerLock = 0
	lat = driver.Steer(flatModel{tangent: 1.5}, self, 0)
	assert.Equal(t, 0., lat.Steer)
}
