package citas

import "errors"

// Guard failures the payment screen turns into user-visible messages.
var (
	ErrSinReservaPendiente = errors.New("citas: no hay una reserva pendiente")
	ErrTerminosNoAceptados = errors.New("citas: debes aceptar los términos y condiciones")
	ErrReservaExpirada     = errors.New("citas: el tiempo de reserva expiró")
	ErrDraftIncompleto     = errors.New("citas: faltan datos para reservar el horario")
)
