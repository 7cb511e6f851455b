package reports

import (
	"fmt"
	"sort"
	"strings"
)

// Assistant responde consultas en lenguaje libre sobre el estado del
// negocio: busca la palabra clave más específica y delega en el reporte
// correspondiente.
type Assistant struct {
	uc *UseCase
}

// NewAssistant construye el asistente.
func NewAssistant(uc *UseCase) *Assistant {
	return &Assistant{uc: uc}
}

// Answer resuelve la consulta. Entrada desconocida devuelve el mensaje de
// ayuda con las opciones disponibles.
func (a *Assistant) Answer(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))

	type action struct {
		keyword string
		run     func() string
	}
	actions := []action{
		{"stock bajo", a.lowStock},
		{"alertas", a.alerts},
		{"envio", a.pendingShipments},
		{"envío", a.pendingShipments},
		{"pendiente", a.pendingShipments},
		{"reordenar", a.reorder},
		{"pedidos", a.reorder},
		{"sugerencias", a.reorder},
		{"predecir", a.reorder},
		{"venta", a.salesSummary},
		{"ganancia", a.salesSummary},
		{"ticket", a.tickets},
		{"recibo", a.tickets},
		{"inventario", a.fullReport},
		{"reporte", a.fullReport},
		{"stock", a.lowStock},
	}

	// Coincidencia exacta primero; luego la primera palabra clave contenida.
	for _, act := range actions {
		if input == act.keyword {
			return act.run()
		}
	}
	for _, act := range actions {
		if strings.Contains(input, act.keyword) {
			return act.run()
		}
	}

	if strings.Contains(input, "hola") || strings.Contains(input, "ayuda") {
		return "Puedes preguntar por: alertas, stock bajo, envíos, ventas, " +
			"tickets, sugerencias de reposición o el reporte completo."
	}
	return "No entendí la solicitud. Opciones: stock bajo, envíos pendientes, " +
		"alertas, ventas, tickets, reordenar o inventario completo."
}

func (a *Assistant) lowStock() string {
	items := a.uc.LowStock()
	if len(items) == 0 {
		return "Sin productos en stock crítico. Todo en orden."
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("- %s (%s): %d unidades", it.Name, it.SKU, it.Stock))
	}
	return fmt.Sprintf("%d productos con stock crítico (≤ %d):\n%s",
		len(items), StockCritico, strings.Join(lines, "\n"))
}

func (a *Assistant) pendingShipments() string {
	pending := a.uc.PendingShipments()
	if len(pending) == 0 {
		return "No hay envíos pendientes. Todo entregado."
	}
	lines := make([]string, 0, len(pending))
	for _, e := range pending {
		lines = append(lines, fmt.Sprintf("- Cliente: %s - Producto: %s", e.Customer, e.SKU))
	}
	return fmt.Sprintf("Tienes %d envíos pendientes de procesar:\n%s",
		len(pending), strings.Join(lines, "\n"))
}

func (a *Assistant) salesSummary() string {
	s := a.uc.Sales()
	return fmt.Sprintf("Resumen de ventas: %d transacciones, ingresos brutos %s, ganancia neta estimada %s.",
		s.Transactions, s.GrossRevenue.StringFixed(2), s.NetProfit.StringFixed(2))
}

func (a *Assistant) tickets() string {
	return fmt.Sprintf("Tienes %d tickets guardados en el sistema.", a.uc.Full().Tickets)
}

func (a *Assistant) alerts() string {
	al := a.uc.CriticalAlerts()
	if al.Total == 0 {
		return "No hay alertas críticas de stock ni envíos pendientes."
	}
	return fmt.Sprintf("%d tareas críticas detectadas: %d productos con stock crítico y %d envíos pendientes.",
		al.Total, al.LowStock, al.PendingShipments)
}

// reorder lista hasta 5 sugerencias principales y resume el resto.
func (a *Assistant) reorder() string {
	suggestions := a.uc.Reorder()
	if len(suggestions) == 0 {
		return "No hay productos con riesgo de agotamiento inminente (menos de 30 días de stock proyectado)."
	}
	skus := make([]string, 0, len(suggestions))
	for sku := range suggestions {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	var b strings.Builder
	fmt.Fprintf(&b, "%d productos necesitan reordenarse pronto según la proyección de ventas:\n", len(suggestions))
	shown := 0
	for _, sku := range skus {
		if shown == 5 {
			break
		}
		s := suggestions[sku]
		fmt.Fprintf(&b, "- %s: stock %d, restan %.1f días, pedido sugerido %d unidades\n",
			s.Name, s.Stock, s.DaysRemaining, s.SuggestedQty)
		shown++
	}
	if len(suggestions) > 5 {
		fmt.Fprintf(&b, "...y %d sugerencias más.\n", len(suggestions)-5)
	}
	b.WriteString("Revisa la sección de pedidos para iniciar la compra.")
	return b.String()
}

func (a *Assistant) fullReport() string {
	r := a.uc.Full()
	return fmt.Sprintf(
		"Reporte ejecutivo: %d productos únicos, %d unidades en stock, %d con stock crítico. "+
			"Ventas: %d transacciones, ingresos %s, ganancia %s. "+
			"Envíos: %d registrados, %d pendientes. Tickets: %d.",
		r.UniqueProducts, r.TotalStockUnits, r.LowStockCount,
		r.Sales.Transactions, r.Sales.GrossRevenue.StringFixed(2), r.Sales.NetProfit.StringFixed(2),
		r.TotalShipments, r.PendingShipments, r.Tickets)
}
