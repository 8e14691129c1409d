package hostsfile

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/artpar/hostctl/internal/atomicfile"
	"github.com/artpar/hostctl/internal/core"
	"github.com/sirupsen/logrus"
)

// Editor reads and rewrites one hosts file.
type Editor struct {
	path   string
	logger logrus.FieldLogger
	now    func() time.Time
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithClock sets the clock used to name backups.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) {
		e.now = now
	}
}

// NewEditor creates an editor for the hosts file at path.
func NewEditor(path string, opts ...Option) *Editor {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	e := &Editor{
		path:   path,
		logger: discard,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Path returns the hosts file path.
func (e *Editor) Path() string { return e.path }

// ApplyOptions configures Apply.
type ApplyOptions struct {
	// Backup copies the pre-edit content to a timestamped file first.
	Backup bool
}

// ApplyResult describes a completed Apply.
type ApplyResult struct {
	BackupPath string
	Changed    bool
	Entries    int
}

// Read scans the current hosts file.
func (e *Editor) Read(ctx context.Context) (*Document, error) {
	content, err := e.readContent(ctx)
	if err != nil {
		return nil, err
	}
	return Scan(content)
}

// Current returns the entries rendered in the managed region.
func (e *Editor) Current(ctx context.Context) ([]core.HostEntry, error) {
	doc, err := e.Read(ctx)
	if err != nil {
		return nil, err
	}
	return doc.ManagedEntries(), nil
}

// Apply renders entries into the managed region and atomically replaces the
// hosts file. Any failure leaves the original file untouched.
func (e *Editor) Apply(ctx context.Context, entries []core.HostEntry, opts ApplyOptions) (ApplyResult, error) {
	result := ApplyResult{Entries: len(entries)}

	content, err := e.readContent(ctx)
	if err != nil {
		return result, err
	}
	doc, err := Scan(content)
	if err != nil {
		return result, err
	}

	updated := doc.Merge(entries)
	result.Changed = updated != content

	if opts.Backup {
		backupPath, err := e.writeBackup(content)
		if err != nil {
			return result, err
		}
		result.BackupPath = backupPath
	}

	log := e.logger.WithFields(logrus.Fields{"path": e.path, "entries": len(entries)})
	if !result.Changed {
		log.Debug("hosts file already up to date")
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	mode, err := atomicfile.Mode(e.path, 0644)
	if err != nil {
		return result, err
	}
	if err := atomicfile.WriteFile(e.path, []byte(updated), mode); err != nil {
		return result, err
	}

	log.WithField("region_existed", doc.HasRegion()).Debug("hosts file updated")
	return result, nil
}

func (e *Editor) readContent(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(e.path)
	if err != nil {
		return "", core.NewIOError("read", e.path, err)
	}
	return string(data), nil
}
