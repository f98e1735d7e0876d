// 随机数引擎，包装了golang.org/x/exp/rand，提供比赛初始化用到的几种分布
package randengine

import (
	"flag"

	"github.com/samber/lo"
	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成
)

// Engine 随机数引擎（非线程安全）
// 说明：只在比赛初始化阶段使用，每步的控制与物理积分不依赖随机数
type Engine struct {
	*rand.Rand // 底层随机数生成器
}

// New 创建随机数引擎
// 功能：初始化一个新的随机数引擎实例
// 参数：seed-随机数种子
// 返回：随机数引擎指针
// 说明：种子偏移量允许在不修改配置的情况下调整随机数序列
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// Uniform 生成[low, high)内均匀分布的随机数
func (e *Engine) Uniform(low, high float64) float64 {
	return low + (high-low)*e.Float64()
}

// NormClamped 生成截断的正态分布随机数
// 功能：以mean为均值、std为标准差采样，结果限制在[mean-limit, mean+limit]
// 参数：mean-均值，std-标准差，limit-最大偏离量
func (e *Engine) NormClamped(mean, std, limit float64) float64 {
	return lo.Clamp(mean+std*e.NormFloat64(), mean-limit, mean+limit)
}
