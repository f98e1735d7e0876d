package config

const (
	defaultMaxBrakeG      = 1.60
	defaultMaxLateralG    = 1.60
	defaultSuctionGPerMSS = 0.5 / 1000.0

	defaultCars      = 4
	defaultRedline   = 800.
	defaultSteerLock = 0.366
	defaultGridGap   = 10.
	defaultInterval  = 0.02
	defaultSubloop   = 10
)

// RuntimeConfig 运行时配置
// 功能：存储补全默认值之后的配置
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置
	D   Driver  // 控制器配置
	R   Race    // 比赛配置
}

// NewRuntimeConfig 根据配置初始化全局变量
// 功能：创建运行时配置对象，未填写的项使用默认值
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针
func NewRuntimeConfig(config Config) *RuntimeConfig {
	rc := &RuntimeConfig{}

	if config.Control.Step.Interval <= 0 {
		config.Control.Step.Interval = defaultInterval
	}
	if config.Control.Step.Subloop <= 0 {
		config.Control.Step.Subloop = defaultSubloop
	}
	if config.Driver.MaxBrakeG <= 0 {
		config.Driver.MaxBrakeG = defaultMaxBrakeG
	}
	if config.Driver.MaxLateralG <= 0 {
		config.Driver.MaxLateralG = defaultMaxLateralG
	}
	if config.Driver.SuctionGPerMSS <= 0 {
		config.Driver.SuctionGPerMSS = defaultSuctionGPerMSS
	}
	if config.Race.Cars <= 0 {
		config.Race.Cars = defaultCars
	}
	if config.Race.Redline <= 0 {
		config.Race.Redline = defaultRedline
	}
	if config.Race.SteerLock <= 0 {
		config.Race.SteerLock = defaultSteerLock
	}
	if config.Race.GridGap <= 0 {
		config.Race.GridGap = defaultGridGap
	}
	if config.Race.PaceSpread < 0 {
		config.Race.PaceSpread = 0
	}

	rc.All = config
	rc.C = config.Control
	rc.D = config.Driver
	rc.R = config.Race

	return rc
}
