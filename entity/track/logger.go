package track

import "github.com/sirupsen/logrus"

// log 赛道模块的日志记录器
var log = logrus.WithField("module", "track")
