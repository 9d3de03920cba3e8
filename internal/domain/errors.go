// Package domain defines the typed error taxonomy shared by services,
// repositories and handlers. Every error a caller can act on has its own
// type; none are downgraded to plain strings on the way out.
package domain

import "fmt"

// Error is implemented by every domain error type. The marker method keeps
// infrastructure errors (GORM, pg driver) from being mistaken for domain
// outcomes when classifying transaction failures.
type Error interface {
	error
	domainError()
}

// NotFoundError: the referenced entity does not exist (or is soft-deleted
// where the lookup only considers live rows).
type NotFoundError struct {
	Entity string // "Producto", "Orden", ...
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s con ID %s no encontrado", e.Entity, e.ID)
}
func (e *NotFoundError) domainError() {}

// InactiveProductError: the product exists but is deactivated and cannot be
// sold or adjusted.
type InactiveProductError struct {
	Name string
}

func (e *InactiveProductError) Error() string {
	return fmt.Sprintf("El producto %s no está activo", e.Name)
}
func (e *InactiveProductError) domainError() {}

// InsufficientStockError: the requested decrement exceeds available stock.
// Carries both quantities for diagnostics.
type InsufficientStockError struct {
	Product   string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Stock insuficiente para %s. Disponible: %d, Solicitado: %d",
		e.Product, e.Available, e.Requested)
}
func (e *InsufficientStockError) domainError() {}

// ZeroAdjustmentError: a zero-delta adjustment carries no information and
// must not produce a ledger entry.
type ZeroAdjustmentError struct{}

func (e *ZeroAdjustmentError) Error() string { return "La cantidad no puede ser 0" }
func (e *ZeroAdjustmentError) domainError()  {}

// ValidationError: malformed or out-of-policy input. No side effects.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
func (e *ValidationError) domainError()  {}

// TransientConflictError: a lock wait or serialization race was lost. The
// whole operation left no side effects and may be retried by the caller.
type TransientConflictError struct {
	Cause error
}

func (e *TransientConflictError) Error() string {
	return "Conflicto de concurrencia, intente nuevamente"
}
func (e *TransientConflictError) Unwrap() error { return e.Cause }
func (e *TransientConflictError) domainError()  {}

// StorageFaultError: the persistence layer failed. Fatal for the request,
// not for the process; retrying is a caller decision.
type StorageFaultError struct {
	Cause error
}

func (e *StorageFaultError) Error() string {
	return "Error de almacenamiento"
}
func (e *StorageFaultError) Unwrap() error { return e.Cause }
func (e *StorageFaultError) domainError()  {}
