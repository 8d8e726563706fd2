// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/edark-import/marketplace-backend/internal/config"
	"github.com/edark-import/marketplace-backend/internal/models"
)

// NotificationService sends transactional emails over SMTP. With no SMTP
// host configured it degrades to logging, so development environments work
// without a mail relay.
type NotificationService struct {
	cfg       config.EmailConfig
	storeName string
	logger    *logrus.Logger
}

func NewNotificationService(cfg config.EmailConfig, storeName string, logger *logrus.Logger) *NotificationService {
	return &NotificationService{
		cfg:       cfg,
		storeName: storeName,
		logger:    logger,
	}
}

var orderConfirmationTmpl = template.Must(template.New("order_confirmation").Parse(`
<h2>¡Gracias por tu compra, {{.Order.Customer.Name}}!</h2>
<p>Tu pedido <strong>{{.Order.OrderNumber}}</strong> fue recibido y está siendo procesado.</p>
<table border="1" cellpadding="6" cellspacing="0">
	<tr><th>Producto</th><th>Cantidad</th><th>Precio</th><th>Subtotal</th></tr>
	{{range .Order.Items}}
	<tr>
		<td>{{.Name}}</td>
		<td>{{.Quantity}}</td>
		<td>S/ {{printf "%.2f" .UnitPrice}}</td>
		<td>S/ {{printf "%.2f" .Subtotal}}</td>
	</tr>
	{{end}}
</table>
<p><strong>Total: S/ {{printf "%.2f" .Order.Total}}</strong></p>
<p>Método de pago: {{.Order.PaymentMethod}}</p>
<p>El equipo de {{.StoreName}}</p>
`))

var statusUpdateTmpl = template.Must(template.New("status_update").Parse(`
<h2>Actualización de tu pedido {{.Order.OrderNumber}}</h2>
<p>Hola {{.Order.Customer.Name}},</p>
<p>El estado de tu pedido cambió de <strong>{{.Previous}}</strong> a <strong>{{.Order.Status}}</strong>.</p>
{{if .Order.StatusNotes}}<p>{{.Order.StatusNotes}}</p>{{end}}
<p>El equipo de {{.StoreName}}</p>
`))

func (s *NotificationService) SendOrderConfirmation(order *models.Order) error {
	subject := fmt.Sprintf("Confirmación de pedido %s", order.OrderNumber)

	var body bytes.Buffer
	err := orderConfirmationTmpl.Execute(&body, map[string]interface{}{
		"Order":     order,
		"StoreName": s.storeName,
	})
	if err != nil {
		return fmt.Errorf("failed to render confirmation email: %w", err)
	}

	return s.send(order.Customer.Email, subject, body.String())
}

func (s *NotificationService) SendOrderStatusUpdate(order *models.Order, previous models.OrderStatus) error {
	subject := fmt.Sprintf("Tu pedido %s está %s", order.OrderNumber, order.Status)

	var body bytes.Buffer
	err := statusUpdateTmpl.Execute(&body, map[string]interface{}{
		"Order":     order,
		"Previous":  previous,
		"StoreName": s.storeName,
	})
	if err != nil {
		return fmt.Errorf("failed to render status email: %w", err)
	}

	return s.send(order.Customer.Email, subject, body.String())
}

func (s *NotificationService) send(to, subject, htmlBody string) error {
	if s.cfg.SMTPHost == "" {
		s.logger.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("SMTP not configured, skipping email delivery")
		return nil
	}

	from := fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromEmail)
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		from, to, subject, htmlBody))

	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)

	if err := smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	s.logger.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("Email sent")
	return nil
}
