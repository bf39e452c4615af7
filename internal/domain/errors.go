package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrProductNotFound   = errors.New("producto no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrCustomerRequired  = errors.New("la venta requiere un cliente")
	ErrEmptySale         = errors.New("la venta no tiene líneas")
	ErrStoreUnavailable  = errors.New("almacenamiento no disponible")
)
