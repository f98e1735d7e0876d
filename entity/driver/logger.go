package driver

import "github.com/sirupsen/logrus"

// log 控制器模块的日志记录器
// 功能：为driver模块提供统一的日志记录功能
var log = logrus.WithField("module", "driver")
