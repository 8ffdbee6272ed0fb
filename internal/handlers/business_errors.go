package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/creser-psicologia/creser-api/internal/httperr"
)

type businessResponse struct {
	status  int
	message string
}

// Catalog of expected business failures. Anything not listed here is a
// server fault and must not leak internals to the client.
var businessCatalog = map[string]businessResponse{
	"invalid_status":        {http.StatusBadRequest, "Estado inválido."},
	"invalid_modality":      {http.StatusBadRequest, "Modalidad inválida. Use presencial o virtual."},
	"invalid_date_or_time":  {http.StatusBadRequest, "Fecha u hora inválida."},
	"invalid_date":          {http.StatusBadRequest, "Fecha inválida."},
	"outside_business_days": {http.StatusBadRequest, "Solo se atiende de lunes a viernes."},
	"outside_business_hours": {
		http.StatusBadRequest,
		"Horario fuera del rango de atención (8:00 AM - 6:00 PM).",
	},
	"date_in_past":                {http.StatusBadRequest, "No se pueden agendar citas en fechas pasadas."},
	"slot_unavailable":            {http.StatusConflict, "El horario seleccionado no está disponible."},
	"no_credit_available":         {http.StatusBadRequest, "No tienes créditos disponibles para este servicio."},
	"credit_not_consumed":         {http.StatusConflict, "El crédito no tiene sesiones consumidas."},
	"cancellation_window_closed":  {http.StatusBadRequest, "No se puede cancelar con menos de 24 horas de anticipación."},
	"invalid_state":               {http.StatusConflict, "La cita no admite esta transición de estado."},
	"not_allowed":                 {http.StatusForbidden, "No tienes permisos para esta operación."},
	"user_not_found":              {http.StatusNotFound, "Usuario no encontrado."},
	"service_not_found":           {http.StatusNotFound, "Servicio no encontrado."},
	"appointment_not_found":       {http.StatusNotFound, "Cita no encontrada."},
	"payment_not_found":           {http.StatusNotFound, "Pago no encontrado."},
	"payment_already_processed":   {http.StatusConflict, "El pago ya fue procesado."},
	"invalid_purchase_type":       {http.StatusBadRequest, "Tipo de compra inválido."},
	"invalid_payment_method":      {http.StatusBadRequest, "Método de pago inválido."},
	"invalid_service_price":       {http.StatusBadRequest, "El servicio no tiene un precio válido."},
	"amount_below_service_price":  {http.StatusBadRequest, "El monto no alcanza para una sesión del servicio."},
	"package_service_not_found":   {http.StatusConflict, "El paquete referencia un servicio inexistente."},
	"invalid_proof_type":          {http.StatusBadRequest, "Tipo de archivo no permitido. Use JPG, PNG, WEBP o PDF."},
	"proof_too_large":             {http.StatusBadRequest, "Archivo muy grande. Máximo 2MB."},
	"empty_proof":                 {http.StatusBadRequest, "No se proporcionó comprobante."},
	"invalid_image":               {http.StatusBadRequest, "La imagen del comprobante no es válida."},
	"online_payments_disabled":    {http.StatusBadRequest, "Los pagos en línea no están habilitados."},
	"news_not_found":              {http.StatusNotFound, "Noticia no encontrada."},
	"news_not_published":          {http.StatusNotFound, "Noticia no disponible."},
	"news_already_published":      {http.StatusConflict, "La noticia ya está publicada."},
	"contact_not_found":           {http.StatusNotFound, "Mensaje no encontrado."},
	"email_already_registered":    {http.StatusBadRequest, "El email ya está registrado."},
	"document_already_registered": {http.StatusBadRequest, "El documento ya está registrado."},
}

// respondBusiness writes the mapped 4xx for a business error and reports
// whether err was one.
func respondBusiness(c *gin.Context, err error) bool {
	code, ok := httperr.AsBusiness(err)
	if !ok {
		return false
	}

	resp, known := businessCatalog[code]
	if !known {
		resp = businessResponse{http.StatusBadRequest, "Solicitud inválida."}
	}

	httperr.Write(c, resp.status, code, resp.message)
	return true
}
