package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/clawhouse/platform/internal/domain"
	"github.com/clawhouse/platform/internal/money"
)

// loadState reads the full ledger image from disk. A missing file is a
// fresh ledger; anything else unreadable is an error for the caller.
func loadState(path string) (*state, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return freshState(), nil
	}
	if err != nil {
		return nil, err
	}

	st := &state{}
	if err := json.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("decode journal file: %w", err)
	}
	normalize(st)
	return st, nil
}

func freshState() *state {
	return &state{
		Balances: make(map[domain.Wallet]money.Amount),
		Stats:    make(map[domain.Wallet]*WalletStats),
	}
}

// normalize repairs zero values the JSON decoder leaves behind: nil maps
// and unset big.Int amounts, which would otherwise panic on arithmetic.
func normalize(st *state) {
	if st.Balances == nil {
		st.Balances = make(map[domain.Wallet]money.Amount)
	}
	for w, b := range st.Balances {
		st.Balances[w] = money.OrZero(b)
	}
	if st.Stats == nil {
		st.Stats = make(map[domain.Wallet]*WalletStats)
	}
	for _, s := range st.Stats {
		s.Deposited = money.OrZero(s.Deposited)
		s.Withdrawn = money.OrZero(s.Withdrawn)
		s.Won = money.OrZero(s.Won)
		s.Lost = money.OrZero(s.Lost)
		s.Wagered = money.OrZero(s.Wagered)
	}
	for _, d := range st.Deposits {
		d.Amount = money.OrZero(d.Amount)
	}
	for _, c := range st.Cashouts {
		c.Amount = money.OrZero(c.Amount)
	}
	for _, e := range st.Journal {
		e.Amount = money.OrZero(e.Amount)
		e.Balance = money.OrZero(e.Balance)
	}
}

// saveLocked writes the full state to a temp file in the same directory
// and renames it over the journal path, so the on-disk image is always
// either the previous state or the new one, never a partial write.
func (l *Ledger) saveLocked() error {
	payload, err := json.Marshal(l.st)
	if err != nil {
		return fmt.Errorf("encode journal: %w", err)
	}

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create journal dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(l.path)+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp journal: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write journal: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync journal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close journal: %w", err)
	}

	if err := os.Rename(tmpName, l.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace journal: %w", err)
	}
	return nil
}

// Healthy probes that the journal directory will still accept the next
// durable write. Backs the health endpoint.
func (l *Ledger) Healthy() error {
	dir := filepath.Dir(l.path)
	probe, err := os.CreateTemp(dir, ".health-")
	if err != nil {
		return fmt.Errorf("journal dir not writable: %w", err)
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return nil
}

// reloadLocked discards in-memory state in favor of the last durable image.
func (l *Ledger) reloadLocked() error {
	st, err := loadState(l.path)
	if err != nil {
		return err
	}
	l.st = st
	l.reindexLocked()
	return nil
}
