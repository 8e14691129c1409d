package hostsfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/artpar/hostctl/internal/atomicfile"
	"github.com/artpar/hostctl/internal/core"
)

// BackupTimeFormat is the timestamp layout in backup file names.
const BackupTimeFormat = "20060102-150405"

const maxBackupSuffix = 100

// Backup describes a backup copy of the hosts file.
type Backup struct {
	Path      string
	CreatedAt time.Time
	Size      int64
}

// Backup copies the current hosts file to <name>.bak.<timestamp> and
// returns the backup path.
func (e *Editor) Backup(ctx context.Context) (string, error) {
	content, err := e.readContent(ctx)
	if err != nil {
		return "", err
	}
	return e.writeBackup(content)
}

func (e *Editor) writeBackup(content string) (string, error) {
	stamp := e.now().Format(BackupTimeFormat)
	base := e.path + ".bak." + stamp

	path, err := freeBackupName(base)
	if err != nil {
		return "", err
	}

	mode, err := atomicfile.Mode(e.path, 0644)
	if err != nil {
		return "", err
	}
	if err := atomicfile.WriteFile(path, []byte(content), mode); err != nil {
		return "", err
	}

	e.logger.WithField("backup", path).Debug("hosts file backed up")
	return path, nil
}

// freeBackupName returns base, or base.N for the first N not taken yet.
func freeBackupName(base string) (string, error) {
	path := base
	for i := 1; i <= maxBackupSuffix; i++ {
		_, err := os.Lstat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", core.NewIOError("stat", path, err)
		}
		path = fmt.Sprintf("%s.%d", base, i)
	}
	return "", core.NewIOError("create backup", base, fmt.Errorf("more than %d backups share this timestamp", maxBackupSuffix))
}

// ListBackups returns the backups of the hosts file, newest first.
func (e *Editor) ListBackups() ([]Backup, error) {
	dir := filepath.Dir(e.path)
	prefix := filepath.Base(e.path) + ".bak."

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, core.NewIOError("list", dir, err)
	}

	var backups []Backup
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		stamp := strings.TrimPrefix(name, prefix)
		if i := strings.IndexByte(stamp, '.'); i >= 0 {
			stamp = stamp[:i]
		}
		created, err := time.ParseInLocation(BackupTimeFormat, stamp, time.Local)
		if err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Backup{
			Path:      filepath.Join(dir, name),
			CreatedAt: created,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].CreatedAt.Equal(backups[j].CreatedAt) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}
