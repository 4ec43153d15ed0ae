package notification

import (
	"fmt"

	"github.com/atelierprint/printshop-service/internal/model"
)

// Render produces the fixed title/description pair for a notification kind
// from its metadata. Unknown kinds get a bare fallback rather than an error;
// a notification with a rough title beats a dropped one.
func Render(typ model.NotificationType, meta model.NotificationMeta) (title, description string) {
	switch typ {
	case model.NotifNewOrder:
		title = fmt.Sprintf("Nouvelle commande %s", meta.OrderNumber)
		description = fmt.Sprintf("Commande %s créée pour %s", meta.OrderNumber, meta.ClientName)
	case model.NotifPaymentReady:
		title = fmt.Sprintf("Paiement en attente — %s", meta.OrderNumber)
		description = fmt.Sprintf("Commande %s de %s, montant %.2f", meta.OrderNumber, meta.ClientName, meta.Amount)
	case model.NotifProductionComplete:
		title = fmt.Sprintf("Production terminée — %s", meta.OrderNumber)
		description = fmt.Sprintf("La commande %s est prête (%s)", meta.OrderNumber, meta.ProductionStatus)
	case model.NotifOrderComplete:
		title = fmt.Sprintf("Commande clôturée — %s", meta.OrderNumber)
		description = fmt.Sprintf("La commande %s de %s est terminée", meta.OrderNumber, meta.ClientName)
	default:
		title = string(typ)
		description = meta.OrderNumber
	}
	return title, description
}
