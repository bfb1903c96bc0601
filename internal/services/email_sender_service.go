package services

import (
	"bytes"
	"context"
	"html/template"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"
)

type Mailer interface {
	SendHTML(ctx context.Context, to, subject, html string) error
}

var orderEmailTmpl = template.Must(template.New("order").Parse(`
<p>Hola {{.Name}},</p>
<p>Hemos recibido tu pedido <b>{{.Order.Reference}}</b>.</p>
<table>
  <tr><th>Artículo</th><th>Cantidad</th><th>Precio</th></tr>
  {{range .Lines}}<tr><td>{{.ItemType}} #{{.ItemID}}</td><td>{{.Quantity}}</td><td>{{.UnitPrice.StringFixed 2}} €</td></tr>
  {{end}}
</table>
<p>Total: <b>{{.Order.Total.StringFixed 2}} €</b></p>
{{if eq .Order.PaymentMode "in_store"}}<p>Podrás pagar y recoger tu pedido en la tienda.</p>{{else}}<p>El pago se ha registrado correctamente.</p>{{end}}
<p>Rincón del Friki</p>
`))

func renderOrderEmail(name string, o model.OrderSummary, lines []model.OrderLine) (string, error) {
	var buf bytes.Buffer
	err := orderEmailTmpl.Execute(&buf, struct {
		Name  string
		Order model.OrderSummary
		Lines []model.OrderLine
	}{name, o, lines})
	return buf.String(), err
}
