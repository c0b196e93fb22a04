package citas

import "github.com/praxia/citas-gateway/internal/upstream"

const monedaPorDefecto = "PEN"

// ResumenLocal builds an appointment preview out of the draft alone, for
// use when the slot resumé could not be fetched.
func ResumenLocal(draft CitaDraft, motivo string) CitaResumen {
	return CitaResumen{
		Especialidad: draft.EspecialidadNombre,
		Centro:       draft.CentroNombre,
		Direccion:    draft.CentroDireccion,
		Distrito:     draft.CentroUbicacion,
		Medico:       draft.MedicoNombre,
		Fecha:        draft.SlotFecha,
		HoraInicio:   draft.SlotHoraInicio,
		HoraFin:      draft.SlotHoraFin,
		CostoMonto:   costoDelDraft(draft),
		Moneda:       monedaDelDraft(draft),
		Motivo:       motivo,
		Telefono:     draft.CentroTelefono,
	}
}

// MergeSlotResumen overlays freshly fetched slot detail on the local
// preview. The upstream value wins field by field, the draft's copy is the
// fallback.
func MergeSlotResumen(draft CitaDraft, motivo string, sr *upstream.SlotResumen) CitaResumen {
	local := ResumenLocal(draft, motivo)
	if sr == nil {
		return local
	}
	out := local
	out.Especialidad = prefer(sr.Especialidad, local.Especialidad)
	out.Centro = prefer(sr.Centro, local.Centro)
	out.Direccion = prefer(sr.Direccion, local.Direccion)
	out.Distrito = prefer(sr.Distrito, local.Distrito)
	out.Provincia = prefer(sr.Provincia, local.Provincia)
	out.Departamento = prefer(sr.Departamento, local.Departamento)
	out.Medico = prefer(sr.Medico, local.Medico)
	out.Fecha = prefer(sr.Fecha, local.Fecha)
	out.HoraInicio = prefer(recortaHora(sr.HoraInicio), local.HoraInicio)
	out.HoraFin = prefer(recortaHora(sr.HoraFin), local.HoraFin)
	if sr.Tarifa != 0 {
		out.CostoMonto = sr.Tarifa
	}
	out.Moneda = prefer(sr.CodMoneda, local.Moneda)
	return out
}

// ResumenDeReserva merges the reservation response's snapshot over the
// local preview.
func ResumenDeReserva(local CitaResumen, r *upstream.ReservaConfirmada) CitaResumen {
	if r == nil {
		return local
	}
	out := local
	out.Especialidad = prefer(r.Resumen.Especialidad, local.Especialidad)
	out.Centro = prefer(r.Resumen.Centro, local.Centro)
	out.Direccion = prefer(r.Resumen.CentroDireccion, local.Direccion)
	out.Distrito = prefer(r.Resumen.Distrito, local.Distrito)
	out.Provincia = prefer(r.Resumen.Provincia, local.Provincia)
	out.Departamento = prefer(r.Resumen.Departamento, local.Departamento)
	out.Medico = prefer(r.Resumen.Medico, local.Medico)
	out.Fecha = prefer(r.Resumen.Fecha, local.Fecha)
	out.HoraInicio = prefer(recortaHora(r.Resumen.HoraInicio), local.HoraInicio)
	out.HoraFin = prefer(recortaHora(r.Resumen.HoraFin), local.HoraFin)
	if r.Monto != 0 {
		out.CostoMonto = r.Monto
	}
	out.Moneda = prefer(r.Moneda, local.Moneda)
	if out.Moneda == "" {
		out.Moneda = monedaPorDefecto
	}
	return out
}

// ResumenDeCita maps a recovery-path snapshot. Amount and currency come
// under two upstream names; hours are trimmed to HH:MM.
func ResumenDeCita(cr *upstream.CitaResumen) CitaResumen {
	if cr == nil {
		return CitaResumen{}
	}
	monto := cr.Monto
	if monto == 0 {
		monto = cr.Tarifa
	}
	moneda := prefer(cr.Moneda, cr.CodMoneda)
	if moneda == "" {
		moneda = monedaPorDefecto
	}
	return CitaResumen{
		Especialidad: cr.Especialidad,
		Centro:       cr.Centro,
		Direccion:    cr.CentroDireccion,
		Distrito:     cr.Distrito,
		Provincia:    cr.Provincia,
		Departamento: cr.Departamento,
		Medico:       cr.Medico,
		Fecha:        cr.Fecha,
		HoraInicio:   recortaHora(cr.HoraInicio),
		HoraFin:      recortaHora(cr.HoraFin),
		CostoMonto:   monto,
		Moneda:       moneda,
		Motivo:       cr.Motivo,
	}
}

func prefer(upstream, fallback string) string {
	if upstream != "" {
		return upstream
	}
	return fallback
}

// recortaHora reduces "HH:MM:SS" to "HH:MM"; shorter values pass through.
func recortaHora(hora string) string {
	if len(hora) > 5 {
		return hora[:5]
	}
	return hora
}

func costoDelDraft(draft CitaDraft) float64 {
	if draft.CostoMonto != 0 {
		return draft.CostoMonto
	}
	return draft.MedicoTarifa
}

func monedaDelDraft(draft CitaDraft) string {
	if draft.CostoMoneda != "" {
		return draft.CostoMoneda
	}
	if draft.MedicoMoneda != "" {
		return draft.MedicoMoneda
	}
	return monedaPorDefecto
}
