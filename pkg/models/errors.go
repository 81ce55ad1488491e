package models

import "errors"

// Sentinel errors shared by the persistence layer and its callers. They are
// surfaced as typed results at the store boundary; nothing above it sees raw
// driver errors.
var (
	ErrIdentityNotFound = errors.New("identidad no encontrada en la blacklist")
	ErrEntryNotFound    = errors.New("entrada de blacklist no encontrada")
	ErrConfigMissing    = errors.New("el servidor no tiene configuración de watchdog")
)
