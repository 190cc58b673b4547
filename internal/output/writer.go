package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cnft-cli/pkg/logger"
)

// Writer 将每次操作的结果按确定性文件名落盘为 JSON
type Writer struct {
	dir     string
	enabled bool
}

// NewWriter enabled=false 时所有写入都是空操作（对应 --no-log）
func NewWriter(dir string, enabled bool) *Writer {
	if dir == "" {
		dir = "out"
	}
	return &Writer{dir: dir, enabled: enabled}
}

// WriteJSON 写入 <dir>/<name>.json，目录不存在时自动创建
func (w *Writer) WriteJSON(name string, v interface{}) error {
	if !w.enabled {
		return nil
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create out dir %s: %w", w.dir, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	path := filepath.Join(w.dir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.Infof("结果已保存: %s", path)
	return nil
}
