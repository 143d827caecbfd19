package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/betbot/okx/pkg/logger"
)

// Service 持久化服务接口
type Service interface {
	NewStore(prefix, id, tag string) Store
}

// Store 存储接口
type Store interface {
	Save(data interface{}) error
	Load(data interface{}) error
}

// ErrNotExists 表示数据不存在
var ErrNotExists = fmt.Errorf("persistence data not exists")

// JSONFileService 基于 JSON 文件的持久化服务
type JSONFileService struct {
	baseDir string
}

// NewJSONFileService 创建 JSON 文件持久化服务
func NewJSONFileService(baseDir string) *JSONFileService {
	return &JSONFileService{
		baseDir: baseDir,
	}
}

// BaseDir 存储目录
func (s *JSONFileService) BaseDir() string {
	return s.baseDir
}

// NewStore 创建新的存储
func (s *JSONFileService) NewStore(prefix, id, tag string) Store {
	key := fmt.Sprintf("%s:%s:%s", prefix, id, tag)
	return &JSONFileStore{
		service: s,
		key:     key,
	}
}

// Keys 列出指定前缀下已保存的文件名（不含扩展名），按名称排序
func (s *JSONFileService) Keys(prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	safePrefix := keySanitizer.ReplaceAllString(prefix+":", "_")
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || !strings.HasPrefix(name, safePrefix) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(keys)
	return keys, nil
}

// JSONFileStore JSON 文件存储实现
type JSONFileStore struct {
	service *JSONFileService
	key     string
}

var keySanitizer = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func (s *JSONFileStore) filePath() string {
	// key 形如 "snapshot:<kind>:<ts>"，这里做文件名安全化
	safe := keySanitizer.ReplaceAllString(s.key, "_")
	return filepath.Join(s.service.baseDir, safe+".json")
}

// Path 文件路径
func (s *JSONFileStore) Path() string {
	return s.filePath()
}

// Save 保存数据（先写临时文件再 rename）
func (s *JSONFileStore) Save(data interface{}) error {
	logger.WithField("key", s.key).Debug("[persistence] Save")
	if err := os.MkdirAll(s.service.baseDir, 0o755); err != nil {
		return err
	}

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	path := s.filePath()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load 加载数据
func (s *JSONFileStore) Load(data interface{}) error {
	logger.WithField("key", s.key).Debug("[persistence] Load")
	b, err := os.ReadFile(s.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotExists
		}
		return err
	}
	if len(b) == 0 {
		return ErrNotExists
	}
	return json.Unmarshal(b, data)
}

// Snapshot 一次账户查询结果的快照
type Snapshot struct {
	Kind      string          `json:"kind"`      // balance、positions、bills ...
	Host      string          `json:"host"`      // REST 地址
	Simulated bool            `json:"simulated"` // 是否模拟盘
	TakenAt   time.Time       `json:"takenAt"`
	Data      json.RawMessage `json:"data"`
}

// snapshotID 快照 id，按时间字典序可排序
func snapshotID(t time.Time) string {
	return t.UTC().Format("20060102T150405.000Z")
}

// SaveSnapshot 保存快照，返回写入时使用的 id
func SaveSnapshot(svc Service, snap Snapshot, data interface{}) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("序列化快照失败: %w", err)
	}
	snap.Data = raw
	if snap.TakenAt.IsZero() {
		snap.TakenAt = time.Now()
	}
	id := snapshotID(snap.TakenAt)
	if err := svc.NewStore("snapshot", snap.Kind, id).Save(&snap); err != nil {
		return "", err
	}
	return id, nil
}

// SnapshotRef 已保存快照的索引项
type SnapshotRef struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// ListSnapshots 列出目录下的快照，kind 为空时列出全部，按 kind、id 排序
func ListSnapshots(svc *JSONFileService, kind string) ([]SnapshotRef, error) {
	keys, err := svc.Keys("snapshot")
	if err != nil {
		return nil, err
	}
	var refs []SnapshotRef
	for _, key := range keys {
		// snapshot_<kind>_<id>，kind 与 id 都不含下划线
		parts := strings.Split(key, "_")
		if len(parts) != 3 {
			continue
		}
		if kind != "" && parts[1] != kind {
			continue
		}
		refs = append(refs, SnapshotRef{Kind: parts[1], ID: parts[2]})
	}
	return refs, nil
}

// LoadSnapshot 读取快照
func LoadSnapshot(svc Service, kind, id string) (*Snapshot, error) {
	var snap Snapshot
	if err := svc.NewStore("snapshot", kind, id).Load(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
