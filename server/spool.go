package server

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/chaos-io/colorkey/rembg"
)

const resultExt = ".png"

// Spool 处理结果的临时存放目录，文件名是 ksuid，自带创建时间
type Spool struct {
	dir       string
	retention time.Duration
	now       func() time.Time
}

func NewSpool(dir string, retention time.Duration) (*Spool, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create spool dir: %w", err)
	}
	return &Spool{
		dir:       dir,
		retention: retention,
		now:       time.Now,
	}, nil
}

// Save 写入一张结果图，返回 id
func (s *Spool) Save(data []byte) (string, error) {
	id := ksuid.New().String()
	path := filepath.Join(s.dir, id+resultExt)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %s: %v", rembg.ErrWriteFailure, path, err)
	}
	return id, nil
}

// Path id 非法或文件不存在时返回 os.ErrNotExist
func (s *Spool) Path(id string) (string, error) {
	if _, err := ksuid.Parse(id); err != nil {
		return "", os.ErrNotExist
	}
	path := filepath.Join(s.dir, id+resultExt)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

// Purge 删除超过保留时间的结果，返回删除数量
func (s *Spool) Purge() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read spool dir: %w", err)
	}

	now := s.now()
	removed := 0
	var errs []error
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, resultExt) {
			continue
		}
		id, err := ksuid.Parse(strings.TrimSuffix(name, resultExt))
		if err != nil {
			continue
		}
		if now.Sub(id.Time()) <= s.retention {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		slog.Info("spool purged", "dir", s.dir, "removed", removed)
	}
	return removed, errors.Join(errs...)
}
