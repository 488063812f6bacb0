package notification

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yeo0314/JEPK-creation/internal/domain"
)

const dateLayout = "02/01/2006 15:04"

type ContactMessage struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

func OrderConfirmationParams(o *domain.Order, now time.Time) Params {
	return Params{
		"to_name":          o.CustomerName,
		"to_email":         o.CustomerEmail,
		"order_id":         o.OrderID,
		"transaction_id":   o.TransactionID,
		"amount":           FormatAmount(o.Amount),
		"products":         ProductsList(o.Cart),
		"delivery_address": o.DeliveryAddress,
		"payment_method":   o.Provider,
		"order_date":       now.Format(dateLayout),
	}
}

func AdminAlertParams(o *domain.Order, adminEmail string, now time.Time) Params {
	return Params{
		"admin_email":      adminEmail,
		"order_id":         o.OrderID,
		"customer_name":    o.CustomerName,
		"customer_email":   o.CustomerEmail,
		"customer_phone":   o.Phone,
		"amount":           FormatAmount(o.Amount),
		"products":         ProductsList(o.Cart),
		"delivery_address": o.DeliveryAddress,
		"payment_method":   o.Provider,
		"order_date":       now.Format(dateLayout),
	}
}

func StatusUpdateParams(o *domain.Order, status domain.OrderStatus, now time.Time) Params {
	return Params{
		"to_name":     o.CustomerName,
		"to_email":    o.CustomerEmail,
		"order_id":    o.OrderID,
		"status":      StatusMessage(status),
		"update_date": now.Format(dateLayout),
	}
}

func ContactParams(m ContactMessage, adminEmail string) Params {
	phone := m.Phone
	if phone == "" {
		phone = "Non renseigné"
	}
	return Params{
		"from_name":  m.Name,
		"from_email": m.Email,
		"phone":      phone,
		"subject":    m.Subject,
		"message":    m.Message,
		"to_email":   adminEmail,
	}
}

// StatusMessage is the sentence sent to the customer for a status change.
func StatusMessage(s domain.OrderStatus) string {
	switch s {
	case domain.OrderStatusPending:
		return "Votre commande est en attente de traitement"
	case domain.OrderStatusProcessing:
		return "Votre commande est en cours de préparation"
	case domain.OrderStatusCompleted:
		return "Votre commande a été livrée"
	case domain.OrderStatusCancelled:
		return "Votre commande a été annulée"
	}
	return string(s)
}

// ProductsList renders one "name (xN) - total FCFA" line per cart line.
func ProductsList(lines []domain.CartLine) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		name := l.Name
		if l.SelectedColor != "" {
			name = fmt.Sprintf("%s [%s]", l.Name, l.SelectedColor)
		}
		out[i] = fmt.Sprintf("%s (x%d) - %s FCFA", name, l.Quantity, FormatAmount(l.Subtotal()))
	}
	return strings.Join(out, "\n")
}

// FormatAmount groups thousands with spaces: 16000 -> "16 000".
func FormatAmount(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(d)
	}
	return sign + b.String()
}
