package input

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tsinghua-fib-lab/hemic-racer/utils/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v2"
)

const (
	mongoTimeout = 30 * time.Second
)

// SegmentData 赛道分段的输入数据
// 说明：直道使用Length，弯道使用Radius与Arc（角度制）
type SegmentData struct {
	Index      int32   `yaml:"index,omitempty" bson:"index"`
	Type       string  `yaml:"type" bson:"type"`                                   // straight/left/right
	Length     float64 `yaml:"length,omitempty" bson:"length,omitempty"`           // 直道长度（米）
	Radius     float64 `yaml:"radius,omitempty" bson:"radius,omitempty"`           // 弯道半径（米）
	Arc        float64 `yaml:"arc,omitempty" bson:"arc,omitempty"`                 // 弯道转角（度）
	Width      float64 `yaml:"width,omitempty" bson:"width,omitempty"`             // 等宽时的宽度（米）
	StartWidth float64 `yaml:"start_width,omitempty" bson:"start_width,omitempty"` // 起点宽度（米）
	EndWidth   float64 `yaml:"end_width,omitempty" bson:"end_width,omitempty"`     // 终点宽度（米）
}

// Track 赛道输入数据
type Track struct {
	Name     string        `yaml:"name" bson:"name"`
	Segments []SegmentData `yaml:"segments" bson:"segments"`
}

// Validate 检查赛道数据
// 功能：拒绝无法构造成闭合赛道的数据，宽度为0的退化分段允许通过
func (t *Track) Validate() error {
	if len(t.Segments) == 0 {
		return fmt.Errorf("track %q has no segments", t.Name)
	}
	for i, seg := range t.Segments {
		switch seg.Type {
		case "straight":
			if seg.Length <= 0 {
				return fmt.Errorf("track %q segment %d: straight with non-positive length %v", t.Name, i, seg.Length)
			}
		case "left", "right":
			if seg.Radius <= 0 || seg.Arc <= 0 {
				return fmt.Errorf("track %q segment %d: bad arc (radius=%v, arc=%v)", t.Name, i, seg.Radius, seg.Arc)
			}
		default:
			return fmt.Errorf("track %q segment %d: unknown type %q", t.Name, i, seg.Type)
		}
		if seg.Width < 0 || seg.StartWidth < 0 || seg.EndWidth < 0 {
			return fmt.Errorf("track %q segment %d: negative width", t.Name, i)
		}
	}
	return nil
}

// LoadFile 从YAML文件加载赛道
func LoadFile(path string) (*Track, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read track file: %w", err)
	}
	var t Track
	if err := yaml.UnmarshalStrict(file, &t); err != nil {
		return nil, fmt.Errorf("parse track file %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadMongo 从MongoDB集合加载赛道
// 功能：集合中每个文档为一个分段，按index升序组成赛道，赛道名取集合名
func LoadMongo(ctx context.Context, client *mongo.Client, path config.InputPath) (*Track, error) {
	coll := client.Database(path.GetDb()).Collection(path.GetColl())
	cursor, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "index", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find %s.%s: %w", path.DB, path.Col, err)
	}
	defer cursor.Close(ctx)
	t := Track{Name: path.Col}
	if err := cursor.All(ctx, &t.Segments); err != nil {
		return nil, fmt.Errorf("decode %s.%s: %w", path.DB, path.Col, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Init 加载赛道数据
// 功能：根据配置加载赛道，文件优先，其次MongoDB
// 参数：config-配置对象
// 返回：加载完成的赛道数据
// 说明：启动阶段的数据错误不可恢复，直接panic
func Init(config config.Config) *Track {
	if config.Input.Track.File != "" {
		t, err := LoadFile(config.Input.Track.File)
		if err != nil {
			log.Panicf("failed to load track from file: %v", err)
		}
		log.Infof("load track %s from %s", t.Name, config.Input.Track.File)
		return t
	}
	if config.Input.URI == "" {
		log.Panic("track file or mongo uri must be specified")
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.Input.URI))
	if err != nil {
		log.Panicf("failed to connect mongo: %v", err)
	}
	defer client.Disconnect(context.Background())

	log.Infof("start fetching from %s.%s", config.Input.Track.DB, config.Input.Track.Col)
	t, err := LoadMongo(ctx, client, config.Input.Track)
	if err != nil {
		log.Panicf("failed to load track from mongo: %v", err)
	}
	log.Infof("finish fetching from %s.%s", config.Input.Track.DB, config.Input.Track.Col)
	return t
}
