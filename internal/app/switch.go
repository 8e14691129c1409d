package app

import (
	"context"

	"github.com/artpar/hostctl/internal/history"
	"github.com/artpar/hostctl/internal/hostsfile"
	"github.com/sirupsen/logrus"
)

// SwitchOptions configures Switch.
type SwitchOptions struct {
	// Backup copies the hosts file before it is rewritten.
	Backup bool
}

// SwitchResult describes a completed switch.
type SwitchResult struct {
	Environment string
	Previous    string
	BackupPath  string
	Changed     bool
	Entries     int
}

// Switch renders the named environment into the hosts file and, once the
// write succeeded, records it as active. A failed write leaves the
// configuration untouched. Every attempt is appended to the history.
func (a *App) Switch(ctx context.Context, name string, opts SwitchOptions) (SwitchResult, error) {
	result := SwitchResult{Environment: name}

	store, err := a.LoadStore(ctx)
	if err != nil {
		return result, err
	}
	env, err := store.Get(name)
	if err != nil {
		return result, err
	}
	result.Previous, _ = store.Active()

	log := a.logger.WithFields(logrus.Fields{
		"environment": name,
		"path":        a.editor.Path(),
	})

	applied, err := a.editor.Apply(ctx, env.Entries(), hostsfile.ApplyOptions{Backup: opts.Backup})
	result.BackupPath = applied.BackupPath
	result.Changed = applied.Changed
	result.Entries = applied.Entries
	if err != nil {
		a.recordSwitch(ctx, result, err)
		return result, err
	}

	if err := store.SetActive(name); err != nil {
		return result, err
	}
	if err := a.SaveStore(ctx, store); err != nil {
		a.recordSwitch(ctx, result, err)
		return result, err
	}

	log.WithField("entries", result.Entries).Info("switched environment")
	a.recordSwitch(ctx, result, nil)
	return result, nil
}

func (a *App) recordSwitch(ctx context.Context, result SwitchResult, switchErr error) {
	store, err := a.History()
	if err != nil {
		a.logger.WithError(err).Warn("switch history unavailable")
		return
	}

	record := history.Record{
		Timestamp:   a.now(),
		Environment: result.Environment,
		Previous:    result.Previous,
		HostsPath:   a.editor.Path(),
		BackupPath:  result.BackupPath,
		EntryCount:  result.Entries,
		Success:     switchErr == nil,
	}
	if switchErr != nil {
		record.Error = switchErr.Error()
	}

	if _, err := store.Add(ctx, record); err != nil {
		a.logger.WithError(err).Warn("failed to record switch")
	}
}
