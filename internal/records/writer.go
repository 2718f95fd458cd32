package records

import (
	"encoding/csv"
	"errors"
	"io"

	"callscribe/internal/fileutil"
	"callscribe/internal/services"
)

// LockOutput takes the exclusive "<path>.lock" lock. Callers hold it for the
// whole run and release it with Unlock.
func LockOutput(path string) (*fileutil.Lock, error) {
	lock, err := fileutil.TryLock(path + ".lock")
	if errors.Is(err, fileutil.ErrLocked) {
		return nil, services.Wrap(services.ErrLocked, "records", "lock output", path+" is being written by another run", nil)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "records", "lock output", path, err)
	}
	return lock, nil
}

// WriteTable writes table as UTF-8 CSV, replacing path atomically.
func WriteTable(path string, table *Table) error {
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(table.Header); err != nil {
			return err
		}
		if err := cw.WriteAll(table.Rows); err != nil {
			return err
		}
		return cw.Error()
	})
	if err != nil {
		return services.Wrap(services.ErrTransient, "records", "write output", path, err)
	}
	return nil
}
