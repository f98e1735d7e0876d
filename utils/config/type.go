package config

// InputPath 指定输入数据来源的配置（MongoDB、文件系统）
// 功能：定义赛道数据的来源，文件优先于MongoDB
type InputPath struct {
	DB   string `yaml:"db,omitempty"`   // 数据库名
	Col  string `yaml:"col,omitempty"`  // 集合名
	File string `yaml:"file,omitempty"` // 文件路径（优先级高于MongoDB）
}

// GetDb 获取数据库名
func (p InputPath) GetDb() string {
	return p.DB
}

// GetColl 获取集合名
func (p InputPath) GetColl() string {
	return p.Col
}

// Input 指定模拟器所有输入数据的配置项
type Input struct {
	URI   string    `yaml:"uri,omitempty"` // MongoDB连接字符串
	Track InputPath `yaml:"track"`         // 赛道
}

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
// 功能：定义仿真时间控制参数
type ControlStep struct {
	Start    int32   `yaml:"start"`             // 开始步数
	Total    int32   `yaml:"total"`             // 总步数
	Interval float64 `yaml:"interval"`          // 控制器每步的时间间隔（秒）
	Subloop  int32   `yaml:"subloop,omitempty"` // 每个控制步内的物理子步数
}

// Control 模拟器控制配置
type Control struct {
	Step ControlStep `yaml:"step"`
}

// Driver 控制器参数
// 功能：赛道模型初始化所需的三个常数与诊断输出开关
type Driver struct {
	MaxBrakeG      float64 `yaml:"max_brake_g,omitempty"`        // 最大制动G值
	MaxLateralG    float64 `yaml:"max_lateral_g,omitempty"`      // 最大横向G值
	SuctionGPerMSS float64 `yaml:"suction_g_per_m_ss,omitempty"` // 每m/s速度附加的下压力G值
	Diagnostic     bool    `yaml:"diagnostic,omitempty"`         // 是否每步输出诊断行
}

// Race 比赛配置
type Race struct {
	Cars       int     `yaml:"cars,omitempty"`        // 参赛车辆数
	Laps       int32   `yaml:"laps,omitempty"`        // 圈数，0表示只按总步数结束
	Seed       uint64  `yaml:"seed,omitempty"`        // 随机种子
	Redline    float64 `yaml:"redline,omitempty"`     // 发动机红线转速（rad/s）
	SteerLock  float64 `yaml:"steer_lock,omitempty"`  // 最大转向角（弧度）
	GridGap    float64 `yaml:"grid_gap,omitempty"`    // 发车格间距（米）
	PaceSpread float64 `yaml:"pace_spread,omitempty"` // 各车横向G值的相对离散度
}

// Config YAML配置文件的根结构
type Config struct {
	Input   Input   `yaml:"input"`            // 输入
	Control Control `yaml:"control"`          // 模拟过程控制
	Driver  Driver  `yaml:"driver,omitempty"` // 控制器
	Race    Race    `yaml:"race,omitempty"`   // 比赛
}
