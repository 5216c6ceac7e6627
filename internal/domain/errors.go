package domain

import "errors"

var (
	ErrValidation  = errors.New("datos inválidos")
	ErrPermission  = errors.New("rol sin permiso")
	ErrNotFound    = errors.New("no encontrado")
	ErrConflict    = errors.New("registro duplicado")
	ErrPersistence = errors.New("persistencia no disponible")
	ErrAuth        = errors.New("credenciales incorrectas")
)
