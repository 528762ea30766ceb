package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Datos del rechazo de negocio, cuando aplican (stock insuficiente / con stock).
	Requested       *int64 `json:"requested,omitempty"`
	Available       *int64 `json:"available,omitempty"`
	CurrentQuantity *int64 `json:"current_quantity,omitempty"`
}
