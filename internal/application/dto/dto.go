// Package dto define los cuerpos de petición y respuesta de la interfaz
// HTTP.
package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ProductRequest alta o edición de producto.
type ProductRequest struct {
	SKU        string  `json:"sku" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	Stock      int     `json:"stock" validate:"min=0"`
	Cost       float64 `json:"cost" validate:"min=0"`
	Price      float64 `json:"price" validate:"min=0"`
	Shipping   float64 `json:"shipping" validate:"min=0"`
	Commission float64 `json:"commission" validate:"min=0,max=1"`
	Supplier   string  `json:"supplier"`
	Category   string  `json:"category"`
}

// SaleRequest registro de una venta.
type SaleRequest struct {
	SKU          string  `json:"sku" validate:"required"`
	Qty          int     `json:"qty" validate:"required,min=1"`
	UnitPrice    float64 `json:"price" validate:"min=0"` // 0 = precio de lista
	Customer     string  `json:"customer"`
	WithShipment bool    `json:"withShipment"`
}

// OrderLineRequest renglón de un pedido de compra.
type OrderLineRequest struct {
	SKU       string  `json:"sku" validate:"required"`
	Qty       int     `json:"qty" validate:"required,min=1"`
	UnitPrice float64 `json:"unitPrice" validate:"min=0"`
}

// OrderRequest creación de un pedido de compra.
type OrderRequest struct {
	Supplier string             `json:"supplier" validate:"required"`
	ETA      string             `json:"eta"` // RFC3339, opcional
	Lines    []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// TransitionRequest cambio de estado de un pedido.
type TransitionRequest struct {
	Status string `json:"status" validate:"required"`
}

// AssistantRequest consulta en lenguaje libre para el asistente.
type AssistantRequest struct {
	Message string `json:"message" validate:"required"`
}

// AssistantResponse respuesta del asistente.
type AssistantResponse struct {
	Reply string `json:"reply"`
}

// SyncStatusResponse estado del canal de sincronización.
type SyncStatusResponse struct {
	Degraded    bool   `json:"degraded"`
	LastBackup  string `json:"lastBackup,omitempty"`
	SaleCount   int    `json:"saleCount"`
	BackupCount int    `json:"backupSaleCount"`
}
