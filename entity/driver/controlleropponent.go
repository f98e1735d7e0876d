package driver

import (
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/hemic-racer/entity"
)

const (
	scanDistance = 100. // 对手搜索距离（米），超出该距离的车辆不参与比较
)

// Opponent 最近的对手
type Opponent struct {
	Car      *entity.Car    // 对手车辆，不存在时为nil
	Distance float64        // 全局坐标系下的欧氏距离（米）
	Dir      geometry.Point // 自身指向对手的位移
}

// ScanOpponents 寻找最近的对手
// 功能：在全部车辆中找到全局坐标距离自身最近的车辆
// 参数：self-自身车辆，cars-全部车辆（含自身，允许nil）
// 返回：最近的对手，不存在时Car为nil
// 说明：
// 1. 按指针跳过自身，跳过nil
// 2. 严格小于才替换，距离完全相等时遍历顺序靠前者胜出
func ScanOpponents(self *entity.Car, cars []*entity.Car) Opponent {
	op := Opponent{Distance: scanDistance}
	for _, car := range cars {
		if car == nil || car == self {
			continue
		}
		dif := geometry.Point{
			X: car.Global.X - self.Global.X,
			Y: car.Global.Y - self.Global.Y,
		}
		if d := math.Hypot(dif.X, dif.Y); d < op.Distance {
			op.Car = car
			op.Distance = d
			op.Dir = dif
		}
	}
	return op
}
