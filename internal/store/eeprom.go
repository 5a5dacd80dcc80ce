package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/verte-zerg/blockfall/internal/eeprom"
)

// EEPROM is the byte image of the non-volatile part kept in the database.
// Cells never written read back as eeprom.Erased.
type EEPROM struct {
	ctx context.Context
	db  *sql.DB
}

// EEPROM returns the stored image as an eeprom.Device. Operations run under
// ctx.
func (s *Store) EEPROM(ctx context.Context) *EEPROM {
	return &EEPROM{ctx: ctx, db: s.db}
}

// ReadWord implements eeprom.Device.
func (e *EEPROM) ReadWord(addr uint16) (uint16, error) {
	if err := eeprom.CheckAddr(addr); err != nil {
		return 0, err
	}
	lo, err := e.readByte(addr)
	if err != nil {
		return 0, err
	}
	hi, err := e.readByte(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

func (e *EEPROM) readByte(addr uint16) (byte, error) {
	var v int
	err := e.db.QueryRowContext(e.ctx, `SELECT value FROM eeprom_cells WHERE addr = ?`, int(addr)).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return eeprom.Erased, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read eeprom cell %d: %w", addr, err)
	}
	return byte(v), nil
}

// WriteWord implements eeprom.Device. Both bytes land together or not at all.
func (e *EEPROM) WriteWord(addr uint16, v uint16) (err error) {
	if err := eeprom.CheckAddr(addr); err != nil {
		return err
	}
	tx, err := e.db.BeginTx(e.ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	const upsert = `INSERT INTO eeprom_cells (addr, value) VALUES (?, ?)
		ON CONFLICT(addr) DO UPDATE SET value = excluded.value`
	if _, err = tx.ExecContext(e.ctx, upsert, int(addr), int(v&0xFF)); err != nil {
		return fmt.Errorf("write eeprom cell %d: %w", addr, err)
	}
	if _, err = tx.ExecContext(e.ctx, upsert, int(addr)+1, int(v>>8)); err != nil {
		return fmt.Errorf("write eeprom cell %d: %w", addr+1, err)
	}
	return tx.Commit()
}

// Erase returns every cell to eeprom.Erased.
func (e *EEPROM) Erase() error {
	if _, err := e.db.ExecContext(e.ctx, `DELETE FROM eeprom_cells`); err != nil {
		return fmt.Errorf("erase eeprom: %w", err)
	}
	return nil
}
